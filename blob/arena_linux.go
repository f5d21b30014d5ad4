package blob

import (
	"github.com/grailbio/base/log"
	"golang.org/x/sys/unix"
)

// hugePageSize is the size of a Linux transparent hugepage, used to round
// mmap'd arenas so MADV_HUGEPAGE has something to act on; see
// https://www.kernel.org/doc/Documentation/vm/transhuge.txt.
const hugePageSize = 2 << 20

// newBacking allocates an anonymous-mmap'd buffer of at least n bytes and
// marks it for transparent hugepages, the same trick the k-mer index uses
// to cut TLB pressure on multi-gigabyte buffers. Allocation failures are
// fatal: the blob is foundational state for the rest of the correction
// iteration.
func newBacking(n int) backing {
	if n == 0 {
		return backing{data: nil}
	}
	data, err := unix.Mmap(-1, 0, n+hugePageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		log.Panic(err)
	}
	if err := unix.Madvise(data, unix.MADV_HUGEPAGE); err != nil {
		log.Debug.Printf("blob: madvise(MADV_HUGEPAGE) failed, continuing without it: %v", err)
	}
	return backing{data: data[:n]}
}

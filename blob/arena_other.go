// +build !linux

package blob

// newBacking allocates a plain heap buffer; the mmap/MADV_HUGEPAGE path is
// Linux-only.
func newBacking(n int) backing {
	return backing{data: make([]byte, n)}
}

// Package kmerexpand grows the set of trusted ("good-for-iterative")
// k-mers to a fixed point: a k-mer becomes good-for-iterative once it
// occurs in some read whose every position is already covered by
// good-for-iterative k-mers.
package kmerexpand

import (
	"sync/atomic"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/grailbio/pathcore/blob"
	"github.com/grailbio/pathcore/kmer"
	"github.com/grailbio/pathcore/kmermerge"
)

// good is a per-entry atomic flag array, seeded from each entry's Good or
// GoodIterative flag and copied back into kmermerge.Table's
// Entries[i].Stat.Flags.GoodIterative when Expand finishes, so concurrent
// workers can upgrade a
// k-mer without taking a table-wide lock: a flag transition is a single
// monotone CompareAndSwap, and upgrades are idempotent, so races between
// workers marking the same k-mer good are harmless.
type good []int32

func newGood(n int, table *kmermerge.Table) good {
	g := make(good, n)
	for i, e := range table.Entries {
		if e.Stat.Flags.Good || e.Stat.Flags.GoodIterative {
			g[i] = 1
		}
	}
	return g
}

func (g good) isGood(i int32) bool {
	return atomic.LoadInt32(&g[i]) != 0
}

func (g good) markGood(i int32) (upgraded bool) {
	return atomic.CompareAndSwapInt32(&g[i], 0, 1)
}

// Opts configures an expansion run.
type Opts struct {
	Parallelism int
}

// Expand runs iterative expansion to a fixed point over every read in a,
// using table to resolve each read's k-mer windows to table entries. It
// returns the number of k-mers promoted by a fully covered read; entries
// already flagged Good or GoodIterative seed the expansion and are not
// counted. On return every seeded or promoted entry has GoodIterative set
// in place on table.Entries.
func Expand(a *blob.Arena, table *kmermerge.Table, opts Opts) int {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	g := newGood(len(table.Entries), table)

	nReads := len(a.Reads)
	done := make([]int32, nReads) // monotone false->true "read fully expanded" flags.

	totalUpgraded := 0
	for {
		var roundUpgraded int64
		err := traverse.Each(parallelism, func(worker int) error {
			startIdx := (worker * nReads) / parallelism
			endIdx := ((worker + 1) * nReads) / parallelism
			localScanner := kmer.NewScanner(table.K)
			for ri := startIdx; ri < endIdx; ri++ {
				if atomic.LoadInt32(&done[ri]) != 0 {
					continue
				}
				upgraded, fullyCovered := expandRead(a, table, g, localScanner, ri)
				atomic.AddInt64(&roundUpgraded, int64(upgraded))
				if fullyCovered {
					atomic.StoreInt32(&done[ri], 1)
				}
			}
			return nil
		})
		if err != nil {
			log.Panic(err) // expansion workers never return an error today.
		}
		totalUpgraded += int(roundUpgraded)
		if roundUpgraded == 0 {
			break
		}
	}

	for i := range table.Entries {
		if g.isGood(int32(i)) {
			table.Entries[i].Stat.Flags.GoodIterative = true
		}
	}
	return totalUpgraded
}

// expandRead scans read ri's k-mer windows and checks whether every base
// position of the read is already spanned by some good-for-iterative
// k-mer's window. If so, every k-mer of the read — including windows
// that were not yet good — is promoted to good-for-iterative, since the
// read's context now vouches for all of them. It reports how many
// k-mers it newly promoted and whether the read is fully covered (so the
// caller can mark it done and skip it in future rounds).
func expandRead(a *blob.Arena, table *kmermerge.Table, g good, sc *kmer.Scanner, ri int) (upgraded int, fullyCovered bool) {
	r := a.Reads[ri]
	seq := a.ReadSeq(r)
	sc.Reset(string(seq))

	type window struct {
		pos int
		idx int32
	}
	var windows []window
	for sc.Scan() {
		w := sc.Get()
		canon, _ := w.Canonical()
		idx, ok := table.IndexOf(canon)
		if !ok {
			// A window with no table entry (filtered out during merge)
			// can never be covered.
			return 0, false
		}
		windows = append(windows, window{pos: w.Pos, idx: idx})
	}
	if len(windows) == 0 {
		return 0, false
	}

	covered := make([]bool, len(seq))
	for _, w := range windows {
		if g.isGood(w.idx) {
			for p := w.pos; p < w.pos+table.K; p++ {
				covered[p] = true
			}
		}
	}
	for _, c := range covered {
		if !c {
			return 0, false
		}
	}

	for _, w := range windows {
		if g.markGood(w.idx) {
			upgraded++
		}
	}
	return upgraded, true
}

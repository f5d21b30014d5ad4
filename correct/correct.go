// Package correct implements per-read consensus correction against a
// solid k-mer table: every read's positions are voted on by the k-mers
// spanning them, trimmed to the solid-covered window, and routed to
// corrected, bad, or unpaired outputs depending on its mate's outcome.
package correct

import (
	"github.com/grailbio/base/log"

	"github.com/grailbio/pathcore/biosimd"
	"github.com/grailbio/pathcore/encoding/fastq"
	"github.com/grailbio/pathcore/kmer"
	"github.com/grailbio/pathcore/kmermerge"
)

// Opts configures one correction pass.
type Opts struct {
	K int
	// UseThreshold enables the "threshold" correction mode: a k-mer with
	// Stat.Flags.Good (count above a fixed static threshold) also casts
	// votes, not only ones marked GoodIterative.
	UseThreshold bool
}

// Result is the outcome of correcting a single read.
type Result struct {
	Read               fastq.Read
	Accept             bool // false ⇒ "bad": no solid window was found at all.
	ChangedBases       int
	ChangedNucleotides int
}

// votes is a 4×len(seq) consensus tally, one row per A/C/G/T.
type votes struct {
	tally [][4]int
}

func newVotes(n int) votes {
	return votes{tally: make([][4]int, n)}
}

func (v votes) cast(pos int, base byte) {
	b := baseIndex(base)
	if b < 0 || pos < 0 || pos >= len(v.tally) {
		return
	}
	v.tally[pos][b]++
}

func baseIndex(b byte) int {
	switch b {
	case 'A', 'a':
		return 0
	case 'C', 'c':
		return 1
	case 'G', 'g':
		return 2
	case 'T', 't':
		return 3
	default:
		return -1
	}
}

var indexBase = [4]byte{'A', 'C', 'G', 'T'}

// Read corrects a single read against table, casting K votes per trusted
// k-mer window (orientation-aware via the window's canonicalization) and
// trimming to the solid-covered span. The read's ID and "unknown" (line
// 3) fields pass through unchanged.
func Read(read fastq.Read, table *kmermerge.Table, opts Opts) Result {
	seq, qual := read.Seq, read.Qual
	n := len(seq)
	v := newVotes(n)
	left, right := -1, -1 // inclusive solid-covered span, [-1,-1) if none.

	sc := kmer.NewScanner(opts.K)
	sc.Reset(seq)
	for sc.Scan() {
		w := sc.Get()
		canon, reversed := w.Canonical()
		idx, ok := table.IndexOf(canon)
		if !ok {
			continue
		}
		resolved, trusted := resolveTrusted(table, idx, opts)
		if !trusted {
			continue
		}

		bases := windowBases(table.Entries[resolved].Canonical, opts.K, reversed)
		for j := 0; j < opts.K; j++ {
			v.cast(w.Pos+j, bases[j])
		}
		if left == -1 || w.Pos < left {
			left = w.Pos
		}
		if right == -1 || w.Pos+opts.K-1 > right {
			right = w.Pos + opts.K - 1
		}
	}

	if left == -1 {
		return Result{Read: read, Accept: false}
	}

	corrected := make([]byte, n)
	changedBases := 0
	for i := 0; i < n; i++ {
		t := v.tally[i]
		best := 0
		for b := 1; b < 4; b++ {
			if t[b] > t[best] {
				best = b
			}
		}
		if t[best] == 0 {
			corrected[i] = seq[i]
		} else {
			corrected[i] = indexBase[best]
			if corrected[i] != upper(seq[i]) {
				changedBases++
			}
		}
	}
	if right < left || right >= n || left < 0 {
		log.Panicf("correct: invalid solid span [%d,%d) for read of length %d", left, right, n)
	}
	trimmed := read
	trimmed.Seq = string(corrected[left : right+1])
	trimmed.Qual = qual[left : right+1]

	return Result{
		Read:               trimmed,
		Accept:             true,
		ChangedBases:       changedBases,
		ChangedNucleotides: changedBases,
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// resolveTrusted follows idx's ChangeTo chain looking for the first
// trusted entry, capped at K hops — the original's defensive bound
// against a cyclic or runaway correction chain. Returns the trusted
// entry's index, or ok==false if the chain never reaches one within the
// bound.
func resolveTrusted(table *kmermerge.Table, idx int32, opts Opts) (resolved int32, ok bool) {
	cur := idx
	for hop := 0; hop <= opts.K; hop++ {
		s := &table.Entries[cur].Stat
		if s.Flags.GoodIterative || (opts.UseThreshold && s.Flags.Good) {
			return cur, true
		}
		if s.ChangeTo < 0 || s.ChangeTo == cur {
			return 0, false
		}
		cur = s.ChangeTo
	}
	return 0, false
}

// windowBases returns the K forward-orientation bases this window
// contributes: the canonical k-mer itself if the window's own strand is
// canonical, or its reverse complement if the window canonicalized to the
// opposite strand (so votes always land in the read's own coordinate
// frame).
func windowBases(canon kmer.KMer, k int, reversed bool) []byte {
	s := canon.ASCII(k)
	if !reversed {
		return []byte(s)
	}
	rc := make([]byte, k)
	biosimd.ReverseComp8NoValidate(rc, []byte(s))
	return rc
}

// PairOutcome classifies a read pair's two correction Results into the
// six-file routing rule (§6): both corrected ⇒ "corrected" pair; one
// corrected, one rejected ⇒ "unpaired" for the survivor and "bad" for the
// other; both rejected ⇒ both "bad".
type PairOutcome int

const (
	// PairCorrected means both mates were corrected.
	PairCorrected PairOutcome = iota
	// PairLeftUnpaired means only the left mate survived.
	PairLeftUnpaired
	// PairRightUnpaired means only the right mate survived.
	PairRightUnpaired
	// PairBothBad means neither mate survived.
	PairBothBad
)

// ClassifyPair implements the routing rule for a corrected read pair.
func ClassifyPair(left, right Result) PairOutcome {
	switch {
	case left.Accept && right.Accept:
		return PairCorrected
	case left.Accept && !right.Accept:
		return PairLeftUnpaired
	case !left.Accept && right.Accept:
		return PairRightUnpaired
	default:
		return PairBothBad
	}
}

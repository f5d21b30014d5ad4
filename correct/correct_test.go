package correct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/pathcore/encoding/fastq"
	"github.com/grailbio/pathcore/kmer"
	"github.com/grailbio/pathcore/kmermerge"
)

func trustedTable(k int, canons ...string) *kmermerge.Table {
	table := kmermerge.NewTable(k, 1000)
	for _, c := range canons {
		canon, _ := kmer.FromASCII(c).Canonical(k)
		table.Add(canon, kmermerge.Stat{Count: 5, ChangeTo: -1, Qual: make([]uint16, k), Flags: kmermerge.Flags{GoodIterative: true}})
	}
	return table
}

func TestReadRejectsWithNoTrustedWindow(t *testing.T) {
	table := kmermerge.NewTable(3, 1000)
	res := Read(fastq.Read{ID: "@r1", Seq: "AACGA", Qual: "IIIII"}, table, Opts{K: 3})
	assert.False(t, res.Accept)
	assert.Equal(t, "AACGA", res.Read.Seq)
}

func TestReadTrimsToSolidSpan(t *testing.T) {
	const k = 3
	// Only the middle window ("ACG") is trusted; the read should trim
	// down to exactly that window's span [1,4).
	table := trustedTable(k, "ACG")
	res := Read(fastq.Read{ID: "@r1", Seq: "AACGA", Qual: "IIIII"}, table, Opts{K: k})
	require.True(t, res.Accept)
	assert.Equal(t, "ACG", res.Read.Seq)
	assert.Equal(t, "III", res.Read.Qual)
	assert.Equal(t, "@r1", res.Read.ID)
}

func TestReadFullyTrustedIsUnchanged(t *testing.T) {
	const k = 3
	table := trustedTable(k, "AAC", "ACG", "CGA")
	res := Read(fastq.Read{ID: "@r1", Seq: "AACGA", Qual: "IIIII"}, table, Opts{K: k})
	require.True(t, res.Accept)
	assert.Equal(t, "AACGA", res.Read.Seq)
	assert.Equal(t, 0, res.ChangedBases)
}

func TestReadRejectsWhenMiscallBreaksEveryWindow(t *testing.T) {
	const k = 3
	// Build a table where AAC/ACG/CGA are trusted, but the read has a
	// sequencing error at position 2 (C miscalled as T): "AATGA".
	table := trustedTable(k, "AAC", "ACG", "CGA")
	res := Read(fastq.Read{ID: "@r1", Seq: "AATGA", Qual: "IIIII"}, table, Opts{K: k})
	// None of AAC/ACG/CGA appear verbatim in "AATGA" (the miscall breaks
	// every window overlapping position 2), so there is no trusted
	// window at all and the read is rejected rather than silently
	// "corrected" from zero evidence.
	assert.False(t, res.Accept)
}

func TestReadFollowsChangeToChain(t *testing.T) {
	const k = 3
	table := kmermerge.NewTable(k, 1000)
	canonAAC, _ := kmer.FromASCII("AAC").Canonical(k)
	canonTTT, _ := kmer.FromASCII("TTT").Canonical(k)
	canonACG, _ := kmer.FromASCII("ACG").Canonical(k)
	table.Add(canonAAC, kmermerge.Stat{Count: 5, ChangeTo: -1, Qual: make([]uint16, k), Flags: kmermerge.Flags{GoodIterative: true}})
	idxTTT := table.Add(canonTTT, kmermerge.Stat{Count: 5, ChangeTo: -1, Qual: make([]uint16, k), Flags: kmermerge.Flags{GoodIterative: true}})
	// ACG is itself untrusted, but its recorded replacement (TTT) is
	// trusted, so its window should vote using TTT's bases, not its own.
	table.Add(canonACG, kmermerge.Stat{Count: 1, ChangeTo: idxTTT, Qual: make([]uint16, k)})

	res := Read(fastq.Read{ID: "@r1", Seq: "AACG", Qual: "IIII"}, table, Opts{K: k})
	require.True(t, res.Accept)
	// Position 3 is covered only by the ACG window; since it resolves to
	// TTT's bases the final call there is T, not the read's original G.
	assert.Equal(t, "AACT", res.Read.Seq)
	assert.Equal(t, 1, res.ChangedBases)
}

func TestReadRejectsCyclicChangeToChain(t *testing.T) {
	const k = 3
	table := kmermerge.NewTable(k, 1000)
	canonAAC, _ := kmer.FromASCII("AAC").Canonical(k)
	canonTTT, _ := kmer.FromASCII("TTT").Canonical(k)
	idxA := table.Add(canonAAC, kmermerge.Stat{Count: 1, ChangeTo: -1, Qual: make([]uint16, k)})
	idxB := table.Add(canonTTT, kmermerge.Stat{Count: 1, ChangeTo: idxA, Qual: make([]uint16, k)})
	table.Entries[idxA].Stat.ChangeTo = idxB // neither entry ever becomes trusted.

	res := Read(fastq.Read{ID: "@r1", Seq: "AAC", Qual: "III"}, table, Opts{K: k})
	assert.False(t, res.Accept)
}

func TestClassifyPair(t *testing.T) {
	good := Result{Accept: true}
	bad := Result{Accept: false}
	assert.Equal(t, PairCorrected, ClassifyPair(good, good))
	assert.Equal(t, PairLeftUnpaired, ClassifyPair(good, bad))
	assert.Equal(t, PairRightUnpaired, ClassifyPair(bad, good))
	assert.Equal(t, PairBothBad, ClassifyPair(bad, bad))
}

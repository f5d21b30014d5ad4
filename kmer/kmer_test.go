package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromASCIIRoundTrip(t *testing.T) {
	k := FromASCII("ACGA")
	require.NotEqual(t, Invalid, k)
	assert.Equal(t, "ACGA", k.ASCII(4))
}

func TestFromASCIIRejectsAmbiguous(t *testing.T) {
	assert.Equal(t, Invalid, FromASCII("ACNT"))
}

func TestCanonicalPalindrome(t *testing.T) {
	k := FromASCII("ACGT")
	canon, reversed := k.Canonical(4)
	assert.Equal(t, k, canon)
	assert.False(t, reversed)
}

func TestCanonicalPicksSmallerStrand(t *testing.T) {
	k := FromASCII("ACGA")
	rc := FromASCII("TCGT")
	require.Equal(t, rc, k.ReverseComplement(4))

	canon, reversed := k.Canonical(4)
	assert.Equal(t, k, canon)
	assert.False(t, reversed)
}

func TestCanonicalIdempotent(t *testing.T) {
	for _, seq := range []string{"ACGA", "TTTT", "GATTACA"[:4], "CCGG"} {
		k := FromASCII(seq)
		canon1, _ := k.Canonical(len(seq))
		canon2, _ := canon1.Canonical(len(seq))
		assert.Equal(t, canon1, canon2)
	}
}

func TestScannerMatchesNaiveEncoding(t *testing.T) {
	const k = 5
	seq := "ACGTACGTTGCA"
	sc := NewScanner(k)
	sc.Reset(seq)

	var got []WindowAtPos
	for sc.Scan() {
		got = append(got, sc.Get())
	}
	require.Len(t, got, len(seq)-k+1)
	for i, w := range got {
		want := FromASCII(seq[i : i+k])
		assert.Equal(t, want, w.Forward)
		assert.Equal(t, want.ReverseComplement(k), w.ReverseComplement)
		assert.Equal(t, i, w.Pos)
	}
}

func TestScannerSkipsAmbiguousBases(t *testing.T) {
	const k = 3
	sc := NewScanner(k)
	sc.Reset("ACNGTA")

	var positions []int
	for sc.Scan() {
		positions = append(positions, sc.Get().Pos)
	}
	// Windows starting at 0 and 1 touch the N; only "GTA" at 3 is valid.
	assert.Equal(t, []int{3}, positions)
}

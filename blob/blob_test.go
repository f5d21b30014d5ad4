package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArenaLayout(t *testing.T) {
	b0 := NewBuilder()
	b0.Add("ACGTACGT", "IIIIIIII")
	b0.Add("TTTTGGGG", "HHHHHHHH")

	b1 := NewBuilder()
	b1.Add("CCCCAAAA", "GGGGGGGG")

	a := BuildArena([]*Builder{b0, b1}, 4)

	require.Len(t, a.Reads, 3)
	assert.Equal(t, []int{0, 2}, a.FileBlobPositions)
	assert.Equal(t, 24, a.RevPos)

	r0 := a.Reads[0]
	assert.Equal(t, 0, r0.Start)
	assert.Equal(t, 8, r0.Size)
	assert.Equal(t, "ACGTACGT", string(a.Seq.slice(r0.Start, r0.Size)))
	assert.Equal(t, "IIIIIIII", string(a.Qual.slice(r0.Start, r0.Size)))

	rc0 := string(a.Seq.slice(r0.ReverseComplementOffset(a.RevPos), r0.Size))
	assert.Equal(t, "ACGTACGT", rc0) // palindromic under revcomp

	r2 := a.Reads[2]
	assert.Equal(t, 1, r2.FileIndex)
}

func TestPositionReadRCBit(t *testing.T) {
	r := PositionRead{RCBits: make([]bool, 3)}
	assert.False(t, r.RCBit(1))
	r.SetRCBit(1)
	assert.True(t, r.RCBit(1))
	assert.False(t, r.RCBit(0))
	// Out of range accesses are tolerated and report false.
	assert.False(t, r.RCBit(-1))
	assert.False(t, r.RCBit(99))
}

func TestKMerBytesHonorsRCBit(t *testing.T) {
	b := NewBuilder()
	b.Add("ACGTACGT", "IIIIIIII")
	a := BuildArena([]*Builder{b}, 4)

	r := &a.Reads[0]
	assert.Equal(t, "ACGT", string(a.KMerBytes(*r, 0, 4)))

	r.SetRCBit(0)
	// Forward window [0,4) = "ACGT"; its reverse complement is "ACGT" too
	// (palindromic), so the RC-bit path must agree.
	assert.Equal(t, "ACGT", string(a.KMerBytes(*r, 0, 4)))
}

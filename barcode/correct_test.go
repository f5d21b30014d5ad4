package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitelistCorrectExactMatch(t *testing.T) {
	w := NewWhitelist([]Barcode{"AAAA", "CCCC"}, 1)
	got, ok := w.Correct("AAAA", "")
	assert.True(t, ok)
	assert.Equal(t, Barcode("AAAA"), got)
}

func TestWhitelistCorrectSingleMismatch(t *testing.T) {
	w := NewWhitelist([]Barcode{"AAAA", "CCCC"}, 1)
	got, ok := w.Correct("AAAC", "")
	assert.True(t, ok)
	assert.Equal(t, Barcode("AAAA"), got)
}

func TestWhitelistCorrectRejectsAmbiguous(t *testing.T) {
	// "AACC" is distance 2 from both "AAAA" and "CCCC" - equidistant, so
	// with maxEdits=2 it must not silently pick one.
	w := NewWhitelist([]Barcode{"AAAA", "CCCC"}, 2)
	_, ok := w.Correct("AACC", "")
	assert.False(t, ok)
}

func TestWhitelistCorrectRejectsBeyondMaxEdits(t *testing.T) {
	w := NewWhitelist([]Barcode{"AAAA"}, 1)
	_, ok := w.Correct("TTTT", "")
	assert.False(t, ok)
}

func TestWhitelistCorrectEmptyWhitelist(t *testing.T) {
	w := NewWhitelist(nil, 1)
	_, ok := w.Correct("AAAA", "")
	assert.False(t, ok)
}

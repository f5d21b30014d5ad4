package barcode

import "github.com/grailbio/pathcore/util"

// Whitelist corrects raw sequenced barcodes against a fixed set of known
// barcodes, tolerating a small edit distance so that a barcode with one
// sequencing error still resolves to the molecule it actually came from.
type Whitelist struct {
	known    []Barcode
	maxEdits int
}

// NewWhitelist returns a Whitelist of the given known barcodes, accepting
// a correction only when it requires at most maxEdits edits.
func NewWhitelist(known []Barcode, maxEdits int) *Whitelist {
	return &Whitelist{known: known, maxEdits: maxEdits}
}

// Correct resolves a raw barcode read to the whitelist entry it is closest
// to, using the downstream flanking sequence (the bases immediately after
// the barcode in the read, on both sides) the way util.Levenshtein
// expects, so that a deletion inside the barcode is distinguished from a
// substitution rather than shifting every downstream base out of frame.
// It returns the corrected barcode and true if exactly one whitelist
// entry is within maxEdits; otherwise it returns ("", false) since an
// ambiguous or unresolvable read must not be silently assigned.
func (w *Whitelist) Correct(raw Barcode, downstream string) (Barcode, bool) {
	if len(w.known) == 0 {
		return "", false
	}
	best := -1
	bestDist := w.maxEdits + 1
	ambiguous := false
	for i, k := range w.known {
		if k == raw {
			return raw, true
		}
		if len(k) != len(raw) {
			continue
		}
		d := util.Levenshtein(string(raw), string(k), downstream, downstream)
		switch {
		case d < bestDist:
			best, bestDist, ambiguous = i, d, false
		case d == bestDist:
			ambiguous = true
		}
	}
	if best < 0 || bestDist > w.maxEdits || ambiguous {
		return "", false
	}
	return w.known[best], true
}

// Package blob implements the process-wide read buffer shared by the
// k-mer splitting, merging, and correction stages: every read (forward)
// followed by every read's reverse complement, concatenated into one
// contiguous allocation so that a k-mer can be referenced by a single
// (offset, length) pair regardless of which strand it came from.
package blob

import (
	"github.com/grailbio/base/log"

	"github.com/grailbio/pathcore/biosimd"
)

// PositionRead describes one input read's location within an Arena's
// sequence buffer, and carries the RC-bits filled in during
// canonicalization (one bit per k-mer position, set when the canonical
// strand for that window was the reverse complement).
type PositionRead struct {
	// Start and Size locate the forward orientation of the read in
	// Arena.Seq / Arena.Qual. The reverse complement lives at the
	// mirrored offset past Arena.RevPos.
	Start, Size int
	// FileIndex is the index into Arena.FileBlobPositions of the input
	// file this read was read from.
	FileIndex int
	// RCBits records, per k-mer start position within the read, whether
	// canonicalization chose the reverse strand.
	RCBits []bool
}

// ReverseComplementOffset returns the offset in Arena.Seq/Qual of this
// read's reverse-complement orientation.
func (r PositionRead) ReverseComplementOffset(revPos int) int {
	return revPos + r.Start
}

// SetRCBit records that the k-mer starting at position pos (within the
// read, forward coordinates) canonicalized to its reverse strand.
func (r *PositionRead) SetRCBit(pos int) {
	if r.RCBits == nil {
		return
	}
	if pos >= 0 && pos < len(r.RCBits) {
		r.RCBits[pos] = true
	}
}

// RCBit reports whether the k-mer starting at pos canonicalized to the
// reverse strand.
func (r PositionRead) RCBit(pos int) bool {
	if pos < 0 || pos >= len(r.RCBits) {
		return false
	}
	return r.RCBits[pos]
}

// Arena is the per-correction-iteration blob: a contiguous sequence
// buffer holding every read's forward bases, immediately followed by
// every read's reverse-complement bases, plus a parallel quality buffer.
// It is built once by BuildArena, read-only thereafter, and discarded at
// the end of the iteration it serves.
type Arena struct {
	// Seq is the concatenated base buffer: Seq[:RevPos] holds every read's
	// forward bases back to back; Seq[RevPos:] holds the same reads'
	// reverse complements in the same order.
	Seq backing
	// Qual is the quality buffer, laid out identically to Seq.
	Qual backing
	// RevPos is the offset in Seq/Qual where reverse-complement bases
	// begin; it equals the total length of the forward half.
	RevPos int
	// Reads holds one PositionRead per input read, in read order, forward
	// orientation only.
	Reads []PositionRead
	// FileBlobPositions[i] is the index into Reads where input file i's
	// reads begin.
	FileBlobPositions []int
}

// KMerBytes returns the K bases at read-relative position pos of read r,
// honoring the RC-bit recorded for that position: if set, the bytes are
// read from the read's reverse-complement half (already reverse
// complemented, so they can be compared directly against other canonical
// k-mers).
func (a *Arena) KMerBytes(r PositionRead, pos, k int) []byte {
	if r.RCBit(pos) {
		rcStart := r.ReverseComplementOffset(a.RevPos)
		// The reverse-complement copy is addressed from its own end: a
		// window starting at "pos" in forward coordinates corresponds to
		// the mirrored window in the RC copy.
		mirrored := r.Size - pos - k
		return a.Seq.slice(rcStart+mirrored, k)
	}
	return a.Seq.slice(r.Start+pos, k)
}

// QualityAt returns the quality byte (raw FASTQ-encoded Phred score) at
// read-relative position pos of read r, forward orientation.
func (a *Arena) QualityAt(r PositionRead, pos int) byte {
	return a.Qual.at(r.Start + pos)
}

// ReadSeq returns the forward-orientation bases of read r.
func (a *Arena) ReadSeq(r PositionRead) []byte {
	return a.Seq.slice(r.Start, r.Size)
}

// ReadQual returns the forward-orientation quality bytes of read r.
func (a *Arena) ReadQual(r PositionRead) []byte {
	return a.Qual.slice(r.Start, r.Size)
}

// BytesAt returns the n bases starting at an arbitrary blob offset
// (forward or reverse-complement half — the caller does not need to know
// which, since offsets recorded during canonicalization already name
// whichever half holds the canonical strand).
func (a *Arena) BytesAt(offset, n int) []byte {
	return a.Seq.slice(offset, n)
}

// QualityBytesAt returns the n quality bytes aligned with BytesAt(offset, n).
func (a *Arena) QualityBytesAt(offset, n int) []byte {
	return a.Qual.slice(offset, n)
}

// Builder accumulates reads for a single input file before BuildArena
// concatenates everything into the final layout.
type Builder struct {
	seqs  []string
	quals []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends one read's forward sequence and quality string, returning
// the read index it will occupy once BuildArena runs.
func (b *Builder) Add(seq, qual string) int {
	if len(seq) != len(qual) {
		log.Fatalf("blob: sequence/quality length mismatch: %d vs %d", len(seq), len(qual))
	}
	b.seqs = append(b.seqs, seq)
	b.quals = append(b.quals, qual)
	return len(b.seqs) - 1
}

// Len returns the number of reads accumulated so far.
func (b *Builder) Len() int { return len(b.seqs) }

// BuildArena concatenates every read added to builders (one per input
// file, in order) into the forward half of the buffer, then appends every
// read's reverse complement, and records per-file read offsets. kmerK is
// used only to size the RCBits slice of each PositionRead.
func BuildArena(builders []*Builder, kmerK int) *Arena {
	var totalLen, totalReads int
	for _, b := range builders {
		totalReads += len(b.seqs)
		for _, s := range b.seqs {
			totalLen += len(s)
		}
	}

	a := &Arena{
		Seq:               newBacking(totalLen * 2),
		Qual:              newBacking(totalLen * 2),
		RevPos:            totalLen,
		Reads:             make([]PositionRead, 0, totalReads),
		FileBlobPositions: make([]int, len(builders)),
	}

	offset := 0
	for fileIdx, b := range builders {
		a.FileBlobPositions[fileIdx] = len(a.Reads)
		for i, seq := range b.seqs {
			qual := b.quals[i]
			a.Seq.write(offset, seq)
			a.Qual.write(offset, qual)

			nPositions := len(seq) - kmerK + 1
			if nPositions < 0 {
				nPositions = 0
			}
			pr := PositionRead{Start: offset, Size: len(seq), FileIndex: fileIdx, RCBits: make([]bool, nPositions)}
			a.Reads = append(a.Reads, pr)

			rc := make([]byte, len(seq))
			biosimd.ReverseComp8NoValidate(rc, []byte(seq))
			a.Seq.write(a.RevPos+offset, string(rc))
			// Quality is reversed (not complemented) to align with rc bases.
			rq := make([]byte, len(qual))
			for j := range qual {
				rq[len(qual)-1-j] = qual[j]
			}
			a.Qual.write(a.RevPos+offset, string(rq))

			offset += len(seq)
		}
	}
	if offset != totalLen {
		log.Panicf("blob: accounted length %d != expected %d", offset, totalLen)
	}
	return a
}

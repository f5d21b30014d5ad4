// Package kmer provides a compact, 2-bit-packed representation of DNA
// k-mers, canonicalization to a single strand, and a rolling scanner that
// walks every valid k-mer window of a read.
package kmer

import (
	farm "github.com/dgryski/go-farm"
)

const (
	invalidBaseBits = uint8(255)
	// MaxK is the largest k-mer length representable in a uint64 (2 bits/base).
	MaxK = 32
)

var (
	asciiToBits   [256]uint8
	asciiToRCBits [256]uint8
	bitsToASCII   = [4]byte{'A', 'C', 'G', 'T'}
)

func init() {
	for i := range asciiToBits {
		asciiToBits[i] = invalidBaseBits
		asciiToRCBits[i] = invalidBaseBits
	}
	asciiToBits['A'], asciiToBits['a'] = 0, 0
	asciiToBits['C'], asciiToBits['c'] = 1, 1
	asciiToBits['G'], asciiToBits['g'] = 2, 2
	asciiToBits['T'], asciiToBits['t'] = 3, 3

	asciiToRCBits['A'], asciiToRCBits['a'] = 3, 3
	asciiToRCBits['C'], asciiToRCBits['c'] = 2, 2
	asciiToRCBits['G'], asciiToRCBits['g'] = 1, 1
	asciiToRCBits['T'], asciiToRCBits['t'] = 0, 0
}

// KMer is a compact encoding of a DNA sequence of up to MaxK bases, 2 bits
// per base, most recent base in the low-order bits.
type KMer uint64

// Invalid is a sentinel returned for a window containing an ambiguous base.
const Invalid = KMer(0xffffffffffffffff)

// FromASCII encodes seq as a KMer, or returns Invalid if seq contains a
// base outside {A,C,G,T} (case-insensitive).
func FromASCII(seq string) KMer {
	var k KMer
	for i := 0; i < len(seq); i++ {
		b := asciiToBits[seq[i]]
		if b == invalidBaseBits {
			return Invalid
		}
		k = (k << 2) | KMer(b)
	}
	return k
}

// ASCII decodes k back to an uppercase ACGT string of length length.
func (k KMer) ASCII(length int) string {
	buf := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		buf[i] = bitsToASCII[k&3]
		k >>= 2
	}
	return string(buf)
}

// ReverseComplement returns the reverse complement of k, a k-mer of the
// given length.
func (k KMer) ReverseComplement(length int) KMer {
	var rc KMer
	for i := 0; i < length; i++ {
		base := k & 3
		rc = (rc << 2) | (3 - base)
		k >>= 2
	}
	return rc
}

// Canonical returns the lexicographically smaller of k and its reverse
// complement, and whether the reverse strand was chosen.
func (k KMer) Canonical(length int) (canon KMer, reversed bool) {
	rc := k.ReverseComplement(length)
	if rc < k {
		return rc, true
	}
	return k, false
}

// Hash returns a 64-bit FarmHash of k. Shard selection in kmersplit does
// not use it (it hashes with SeaHash), and the merged table looks k-mers up
// in a Go map.
func (k KMer) Hash() uint64 {
	return farm.Hash64WithSeed(nil, uint64(k))
}

// WindowAtPos is the (position, forward, reverseComplement) pair produced
// by Scanner.Scan for one window of the sequence being scanned.
type WindowAtPos struct {
	Pos                        int
	Forward, ReverseComplement KMer
}

// Canonical returns the lexicographically smaller of Forward and
// ReverseComplement, and whether the reverse strand was chosen.
func (w WindowAtPos) Canonical() (KMer, bool) {
	if w.ReverseComplement < w.Forward {
		return w.ReverseComplement, true
	}
	return w.Forward, false
}

// Scanner incrementally walks every length-K window of a sequence,
// maintaining both the forward and reverse-complement encodings with O(1)
// work per step when no ambiguous base is crossed. Scanners are not
// thread-safe; each goroutine scanning a read should use its own.
type Scanner struct {
	k    int
	mask KMer // low 2*k bits set

	seq string
	si  int
	cur WindowAtPos
	ok  bool
}

// NewScanner constructs a Scanner for k-mers of the given length.
func NewScanner(k int) *Scanner {
	return &Scanner{
		k:    k,
		mask: ^(KMer(0xffffffffffffffff) << KMer(k*2)),
	}
}

// Reset starts scanning over a new sequence.
func (s *Scanner) Reset(seq string) {
	s.seq = seq
	s.si = 0
	s.ok = false
}

func nextAmbiguous(seq string, from int) int {
	for i := from; i < len(seq); i++ {
		if asciiToBits[seq[i]] == invalidBaseBits {
			return i
		}
	}
	return len(seq)
}

// Scan advances to the next valid window and returns true, or returns
// false once the sequence is exhausted.
func (s *Scanner) Scan() bool {
	if s.ok && s.si+s.k <= len(s.seq) {
		nextCh := s.seq[s.si+s.k-1]
		if b := asciiToBits[nextCh]; b != invalidBaseBits {
			s.cur.Pos = s.si
			s.cur.Forward = ((s.cur.Forward << 2) | KMer(b)) & s.mask
			shift := KMer(s.k-1) * 2
			s.cur.ReverseComplement = (s.cur.ReverseComplement >> 2) | (KMer(asciiToRCBits[nextCh]) << shift)
			s.si++
			return true
		}
	}

	for s.si+s.k <= len(s.seq) {
		window := s.seq[s.si : s.si+s.k]
		fwd := FromASCII(window)
		if fwd == Invalid {
			s.si = nextAmbiguous(s.seq, s.si) + 1
			s.ok = false
			continue
		}
		s.cur = WindowAtPos{Pos: s.si, Forward: fwd, ReverseComplement: fwd.ReverseComplement(s.k)}
		s.si++
		s.ok = true
		return true
	}
	s.ok = false
	return false
}

// Get returns the window produced by the most recent successful Scan.
func (s *Scanner) Get() WindowAtPos { return s.cur }

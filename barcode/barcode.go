// Package barcode declares the per-edge barcode occurrence index consumed
// by the ReadCloud family of extension choosers (§6), plus a reference
// in-memory implementation keyed by HighwayHash, grounded on
// fusion/postprocess.go's fixed-size hash-key pattern.
package barcode

import (
	"github.com/minio/highwayhash"

	"github.com/grailbio/pathcore/graph"
)

// Barcode identifies a molecule of origin shared by reads believed to come
// from the same long fragment (10x / linked reads).
type Barcode string

// Info holds the occurrence count and positions of a barcode on an edge.
type Info struct {
	Count     int
	Positions []int
}

// Index is the read-only per-edge barcode map consumed during extension.
type Index interface {
	GetTailBarcodeNumber(e graph.EdgeID) int
	GetIntersection(e1, e2 graph.EdgeID) map[Barcode]struct{}
	GetIntersectionSizeNormalizedBySecond(e1, e2 graph.EdgeID) float64
	GetMinPos(e graph.EdgeID, b Barcode) (int, bool)
	GetMaxPos(e graph.EdgeID, b Barcode) (int, bool)
	GetInfo(e graph.EdgeID, b Barcode) (Info, bool)
	HasBarcode(e graph.EdgeID, b Barcode) bool
	AreEnoughSharedBarcodes(e1, e2 graph.EdgeID, sharedThr int, abundancyThr float64, tailThr int) bool
}

// hashKey is a fixed-size HighwayHash digest used to key the barcode map
// without retaining the (possibly long) barcode string itself, mirroring
// fusion/postprocess.go's hashKey = [highwayhash.Size]uint8.
type hashKey = [highwayhash.Size]uint8

var zeroSeed [highwayhash.Size]byte

func hashBarcode(b Barcode) hashKey {
	sum := highwayhash.Sum([]byte(b), zeroSeed[:])
	return sum
}

// HashBarcodeIndex is a simple in-memory Index implementation, suitable for
// tests and for small inputs; production-scale barcode indices are built
// upstream (out of scope, §1) and need only satisfy Index.
type HashBarcodeIndex struct {
	// perEdge[e][hashBarcode(b)] = (b, Info)
	perEdge map[graph.EdgeID]map[hashKey]entry
}

type entry struct {
	barcode Barcode
	info    Info
}

// NewHashBarcodeIndex creates an empty index.
func NewHashBarcodeIndex() *HashBarcodeIndex {
	return &HashBarcodeIndex{perEdge: make(map[graph.EdgeID]map[hashKey]entry)}
}

// Add records that barcode b was observed on edge e at position pos.
func (idx *HashBarcodeIndex) Add(e graph.EdgeID, b Barcode, pos int) {
	m, ok := idx.perEdge[e]
	if !ok {
		m = make(map[hashKey]entry)
		idx.perEdge[e] = m
	}
	k := hashBarcode(b)
	en, ok := m[k]
	if !ok {
		en = entry{barcode: b}
	}
	en.info.Count++
	en.info.Positions = append(en.info.Positions, pos)
	m[k] = en
}

func (idx *HashBarcodeIndex) GetTailBarcodeNumber(e graph.EdgeID) int {
	return len(idx.perEdge[e])
}

func (idx *HashBarcodeIndex) GetIntersection(e1, e2 graph.EdgeID) map[Barcode]struct{} {
	out := make(map[Barcode]struct{})
	m1, m2 := idx.perEdge[e1], idx.perEdge[e2]
	if len(m1) > len(m2) {
		m1, m2 = m2, m1
	}
	for k, en := range m1 {
		if _, ok := m2[k]; ok {
			out[en.barcode] = struct{}{}
		}
	}
	return out
}

func (idx *HashBarcodeIndex) GetIntersectionSizeNormalizedBySecond(e1, e2 graph.EdgeID) float64 {
	second := len(idx.perEdge[e2])
	if second == 0 {
		return 0
	}
	return float64(len(idx.GetIntersection(e1, e2))) / float64(second)
}

func (idx *HashBarcodeIndex) GetMinPos(e graph.EdgeID, b Barcode) (int, bool) {
	en, ok := idx.perEdge[e][hashBarcode(b)]
	if !ok || len(en.info.Positions) == 0 {
		return 0, false
	}
	min := en.info.Positions[0]
	for _, p := range en.info.Positions[1:] {
		if p < min {
			min = p
		}
	}
	return min, true
}

func (idx *HashBarcodeIndex) GetMaxPos(e graph.EdgeID, b Barcode) (int, bool) {
	en, ok := idx.perEdge[e][hashBarcode(b)]
	if !ok || len(en.info.Positions) == 0 {
		return 0, false
	}
	max := en.info.Positions[0]
	for _, p := range en.info.Positions[1:] {
		if p > max {
			max = p
		}
	}
	return max, true
}

func (idx *HashBarcodeIndex) GetInfo(e graph.EdgeID, b Barcode) (Info, bool) {
	en, ok := idx.perEdge[e][hashBarcode(b)]
	return en.info, ok
}

func (idx *HashBarcodeIndex) HasBarcode(e graph.EdgeID, b Barcode) bool {
	_, ok := idx.perEdge[e][hashBarcode(b)]
	return ok
}

// AreEnoughSharedBarcodes implements the 10x InitialFilter predicate (§4.2):
// the shared-barcode count must reach sharedThr, and for at least one
// shared barcode its abundancy on e1 (its total occurrence count on e1
// divided by tailThr+1) must reach abundancyThr. Occurrences are not
// restricted to a tail window of e1; every recorded position counts.
func (idx *HashBarcodeIndex) AreEnoughSharedBarcodes(e1, e2 graph.EdgeID, sharedThr int, abundancyThr float64, tailThr int) bool {
	shared := idx.GetIntersection(e1, e2)
	if len(shared) < sharedThr {
		return false
	}
	for b := range shared {
		info1, ok1 := idx.GetInfo(e1, b)
		if !ok1 {
			continue
		}
		abundancy := float64(info1.Count) / float64(tailThr+1)
		if abundancy >= abundancyThr {
			return true
		}
	}
	return false
}

package pathextend

import (
	"github.com/grailbio/pathcore/barcode"
	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// lastUniqueEdge returns the last edge in p that is globally unique,
// scanning from the path's end, and whether one was found.
func lastUniqueEdge(p *path.BidirectionalPath, unique UniqueEdgeStorage) (graph.EdgeID, bool) {
	for i := p.Size() - 1; i >= 0; i-- {
		if unique.IsUnique(p.At(i)) {
			return p.At(i), true
		}
	}
	return 0, false
}

// gapCoefficient implements TSLR's distance discount:
// (fragment_len - gap) / fragment_len (§4.2).
func gapCoefficient(gap, fragmentLen int) float64 {
	return float64(fragmentLen-gap) / float64(fragmentLen)
}

// TSLR is the linked-read (TSLR) ReadCloud chooser (§4.2).
type TSLR struct {
	G        graph.Graph
	Unique   UniqueEdgeStorage
	Barcodes barcode.Index
	Params   config.ReadCloudParams
}

// Filter implements Chooser.
func (t TSLR) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 0 {
		return nil
	}
	u, ok := lastUniqueEdge(p, t.Unique)
	if !ok {
		return nil
	}
	if !t.Unique.IsUnique(u) {
		panic("pathextend: TSLR last-unique edge is not actually unique")
	}
	ahead := dijkstraUniqueAhead(t.G, t.Unique, t.G.EdgeEnd(u), t.Params.DistanceBound)
	conj := t.G.Conjugate(u)

	var out path.EdgeContainer
	for e, dist := range ahead {
		if e == u || e == conj || p.ContainsEdge(e) {
			continue
		}
		ratio := t.Barcodes.GetIntersectionSizeNormalizedBySecond(u, e)
		if ratio > t.Params.Threshold*gapCoefficient(dist, t.Params.FragmentLen) {
			out = append(out, path.EdgeWithDistance{Edge: e, Gap: dist})
		}
	}
	return out
}

// TenX is the 10x linked-read ReadCloud chooser (§4.2): InitialFilter,
// MiddleFilter, and — for a two-way conjugate tie — ConjugateFilter.
type TenX struct {
	G        graph.Graph
	Unique   UniqueEdgeStorage
	Barcodes barcode.Index
	Params   config.ReadCloudParams
}

// Filter implements Chooser.
func (t TenX) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 0 {
		return nil
	}
	u, ok := lastUniqueEdge(p, t.Unique)
	if !ok {
		return nil
	}
	if !t.Unique.IsUnique(u) {
		panic("pathextend: TenX last-unique edge is not actually unique")
	}
	ahead := dijkstraUniqueAhead(t.G, t.Unique, t.G.EdgeEnd(u), t.Params.DistanceBound)
	conj := t.G.Conjugate(u)

	var initial []graph.EdgeID
	for e := range ahead {
		if e == u || e == conj || p.ContainsEdge(e) {
			continue
		}
		if t.Barcodes.AreEnoughSharedBarcodes(u, e, t.Params.SharedBarcodeThresh, t.Params.AbundancyThresh, t.Params.TailThresh) {
			initial = append(initial, e)
		}
	}
	if len(initial) == 0 {
		return nil
	}

	survivors := t.middleFilter(u, initial)
	switch len(survivors) {
	case 1:
		return path.EdgeContainer{{Edge: survivors[0], Gap: ahead[survivors[0]]}}
	case 2:
		if t.G.Conjugate(survivors[0]) == survivors[1] {
			if winner, ok := t.conjugateFilter(survivors[0], survivors[1]); ok {
				return path.EdgeContainer{{Edge: winner, Gap: ahead[winner]}}
			}
		}
	}
	return nil
}

// middleFilter keeps a candidate c only if, for every other surviving
// candidate c', the barcodes c' shares with both u and c stay below
// len_threshold * |shared(u,c)| — i.e. c' does not look like it sits
// physically between u and c (§4.2).
func (t TenX) middleFilter(u graph.EdgeID, candidates []graph.EdgeID) []graph.EdgeID {
	var out []graph.EdgeID
	for _, c := range candidates {
		sharedUC := t.Barcodes.GetIntersection(u, c)
		ok := true
		for _, cPrime := range candidates {
			if cPrime == c {
				continue
			}
			sharedUCPrime := t.Barcodes.GetIntersection(u, cPrime)
			between := 0
			for b := range sharedUC {
				if _, ok := sharedUCPrime[b]; ok {
					between++
				}
			}
			if float64(between) >= t.Params.LenThreshold*float64(len(sharedUC)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// conjugateFilter breaks a tie between two candidates that are each
// other's conjugates by counting barcodes whose min-position on one side
// is within the tail window and beyond it on the other, selecting the side
// with fractional advantage >= FractionThreshold (§4.2).
func (t TenX) conjugateFilter(c1, c2 graph.EdgeID) (graph.EdgeID, bool) {
	shared := t.Barcodes.GetIntersection(c1, c2)
	var count1, count2 int
	for b := range shared {
		pos1, ok1 := t.Barcodes.GetMinPos(c1, b)
		pos2, ok2 := t.Barcodes.GetMinPos(c2, b)
		if !ok1 || !ok2 {
			continue
		}
		within1 := pos1 <= t.Params.TailThresh
		within2 := pos2 <= t.Params.TailThresh
		if within1 && !within2 {
			count1++
		} else if within2 && !within1 {
			count2++
		}
	}
	total := count1 + count2
	if total == 0 {
		return 0, false
	}
	frac1 := float64(count1) / float64(total)
	frac2 := float64(count2) / float64(total)
	if frac1-frac2 >= t.Params.FractionThreshold {
		return c1, true
	}
	if frac2-frac1 >= t.Params.FractionThreshold {
		return c2, true
	}
	return 0, false
}

package pathextend

import (
	"sort"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// LongReads uses long-read paths covering the current edge to pick the
// next extension (§4.2, §8 P8).
type LongReads struct {
	G           graph.Graph
	CoverageMap CoverageMap
	Unique      UniqueEdgeStorage
	Params      config.LongReadsParams
	Listener    Listener
}

// Filter implements Chooser.
func (lr LongReads) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 0 {
		return nil
	}
	votes := make(map[graph.EdgeID]float64)
	back := p.Back()
	for _, cp := range lr.CoverageMap.PathsCovering(back) {
		for idx := 0; idx < cp.Size(); idx++ {
			if cp.At(idx) != back {
				continue
			}
			if idx+1 >= cp.Size() {
				continue
			}
			compareLen := idx + 1
			if compareLen > p.Size() {
				compareLen = p.Size()
			}
			prefix := make([]graph.EdgeID, compareLen)
			for k := 0; k < compareLen; k++ {
				prefix[k] = cp.At(idx + 1 - compareLen + k)
			}
			if !p.CompareFrom(p.Size()-compareLen, prefix) {
				continue
			}
			if !lr.crossesUnique(cp, idx) {
				continue
			}
			votes[cp.At(idx+1)] += cp.Weight()
		}
	}

	if lr.Listener != nil {
		notify(lr.Listener, "LongReads", p, votes)
	}

	if len(votes) == 0 {
		return nil
	}

	type ve struct {
		e graph.EdgeID
		w float64
	}
	sorted := make([]ve, 0, len(votes))
	for e, w := range votes {
		sorted = append(sorted, ve{e, w})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].w > sorted[j].w })

	if sorted[0].w < lr.Params.FilteringThreshold {
		return nil
	}
	if len(sorted) == 1 {
		return path.EdgeContainer{{Edge: sorted[0].e}}
	}
	if sorted[0].w > lr.Params.WeightPriorityThresh*sorted[1].w {
		return path.EdgeContainer{{Edge: sorted[0].e}}
	}

	var out path.EdgeContainer
	top := sorted[0].w
	floor := top / lr.Params.WeightPriorityThresh
	for _, x := range sorted {
		if x.w >= floor {
			out = append(out, path.EdgeWithDistance{Edge: x.e})
		}
	}
	return out
}

// crossesUnique reports whether the prefix of cp up to and including idx
// crosses a globally-unique edge of length >= MinSignificantOverlap.
func (lr LongReads) crossesUnique(cp CoveringPath, idx int) bool {
	for i := 0; i <= idx; i++ {
		e := cp.At(i)
		if lr.Unique.IsUnique(e) && lr.G.Length(e) >= lr.Params.MinSignificantOverlap {
			return true
		}
	}
	return false
}

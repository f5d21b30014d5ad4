package pathextend

import (
	"math"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
	"github.com/grailbio/pathcore/weight"
)

// Scaffolding jumps across gaps using paired-end distance histograms
// (§4.2, GLOSSARY: scaffolding).
type Scaffolding struct {
	G       graph.Graph
	Counter weight.Counter
	Params  config.ScaffoldingParams
}

type distSample struct {
	dist   int
	weight float64
}

// Filter implements Chooser.
func (s Scaffolding) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 0 {
		return nil
	}
	lib := s.Counter.PairedLibrary()
	isMax := lib.GetISMax()
	scatter := s.Params.Scatter

	// Step 1: collect tip candidates from every path position within
	// ISMax of the path end.
	candidateSet := make(map[graph.EdgeID]struct{})
	for i := 0; i < p.Size(); i++ {
		if p.LengthAt(i) > isMax {
			continue
		}
		minDist := p.LengthAt(i) - scatter
		maxDist := p.LengthAt(i) + isMax + scatter
		for e := range lib.FindJumpEdges(p.At(i), minDist, maxDist) {
			if graph.IsTip(s.G, e) {
				candidateSet[e] = struct{}{}
			}
		}
	}

	var out path.EdgeContainer
	for e := range candidateSet {
		var samples []distSample
		for j := 0; j < p.Size(); j++ {
			dists, weights := lib.CountDistances(p.At(j), e)
			for k, d := range dists {
				w := weights[k]
				if w < s.Params.RawWeightThreshold {
					continue
				}
				samples = append(samples, distSample{dist: d + p.LengthAt(j), weight: w})
			}
		}
		total := 0.0
		weightedSum := 0.0
		for _, sm := range samples {
			total += sm.weight
			weightedSum += sm.weight * float64(sm.dist)
		}
		if total < s.Params.ClusterWeightThres {
			continue
		}
		meanGap := int(math.Round(weightedSum / total))
		if !hasIdealInfo(lib, p.Back(), e, meanGap) {
			continue
		}
		out = append(out, path.EdgeWithDistance{Edge: e, Gap: meanGap})
	}
	return out
}

// hasIdealInfo reports whether the paired library's expected linkage
// between a and b at distance dist is non-zero.
func hasIdealInfo(lib weight.PairedLibrary, a, b graph.EdgeID, dist int) bool {
	return lib.IdealPairedInfo(a, b, dist) > 0
}

package pathextend

import (
	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// StrandCoverageGraph is consumed by SimpleCoverage for stereospecific
// ("stranded") sequencing data, where forward- and reverse-strand coverage
// of an edge can differ. It augments graph.Graph; not every Graph
// implementation needs to satisfy it.
type StrandCoverageGraph interface {
	graph.Graph
	ForwardCoverage(e graph.EdgeID) float64
	ReverseCoverage(e graph.EdgeID) float64
}

// SimpleCoverage is the stereospecific-sequencing variant (§4.2): it
// applies only when exactly two candidates are offered and the path
// contains a strand-split vertex (exactly two incoming edges).
type SimpleCoverage struct {
	G      StrandCoverageGraph
	Params config.SimpleCoverageParams
}

// similar reports whether a and b's ratio falls within [delta, 1/delta].
func similar(a, b, delta float64) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	ratio := a / b
	return ratio >= delta && ratio <= 1/delta
}

// findStrandSplit scans backward from the end of the path for the first
// vertex with exactly two incoming edges, returning its position, the
// path's own edge into that vertex, and the other incoming edge.
func (s SimpleCoverage) findStrandSplit(p *path.BidirectionalPath) (pos int, ePath, eOther graph.EdgeID, ok bool) {
	for i := p.Size() - 1; i >= 0; i-- {
		e := p.At(i)
		v := s.G.EdgeEnd(e)
		if !graph.IsStrandSplit(s.G, v) {
			continue
		}
		in := s.G.IncomingEdges(v)
		for _, cand := range in {
			if cand != e {
				return i, e, cand, true
			}
		}
	}
	return 0, 0, 0, false
}

// Filter implements Chooser.
func (s SimpleCoverage) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) != 2 {
		return nil
	}
	_, ePath, eOther, ok := s.findStrandSplit(p)
	if !ok {
		return nil
	}

	// Decide orientation by comparing forward/reverse coverage of ePath;
	// "reverse" picks which strand's coverage value represents ePath/eOther
	// and the candidates consistently.
	reverse := s.G.ReverseCoverage(ePath) > s.G.ForwardCoverage(ePath)
	covOf := func(e graph.EdgeID) float64 {
		if reverse {
			return s.G.ReverseCoverage(e)
		}
		return s.G.ForwardCoverage(e)
	}

	c0, c1 := candidates[0], candidates[1]
	cov0, cov1 := covOf(c0.Edge), covOf(c1.Edge)
	delta := s.Params.CoverageDelta
	floor := s.Params.MinUpperCoverage

	if similar(cov0, cov1, delta) {
		return nil
	}
	if cov0 < floor && cov1 < floor {
		return nil
	}

	covPath, covOther := covOf(ePath), covOf(eOther)
	if similar(covPath, covOther, delta) {
		return nil
	}
	if covPath < floor && covOther < floor {
		return nil
	}

	var chosen path.EdgeWithDistance
	var chosenCov float64
	if covPath > covOther {
		if cov0 > cov1 {
			chosen, chosenCov = c0, cov0
		} else {
			chosen, chosenCov = c1, cov1
		}
	} else {
		if cov0 < cov1 {
			chosen, chosenCov = c0, cov0
		} else {
			chosen, chosenCov = c1, cov1
		}
	}

	if !similar(chosenCov, covPath, delta) {
		return nil
	}
	return path.EdgeContainer{chosen}
}

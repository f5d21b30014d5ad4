package pathextend

import (
	"math"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// CoordinatedCoverage analyzes coverage of the repeat component ahead of
// each candidate (§4.2): a candidate survives only if the lowest coverage
// among the edges leaving the bounded repeat component it leads into is at
// most the current path's own coverage divided by CoverageDelta, and it is
// the only candidate that does.
type CoordinatedCoverage struct {
	G      graph.Graph
	Params config.CoordinatedCoverageParams
}

func pathCoverage(g graph.Graph, p *path.BidirectionalPath) float64 {
	var totalLen, totalWeighted float64
	for i := 0; i < p.Size(); i++ {
		e := p.At(i)
		ln := float64(g.Length(e))
		totalLen += ln
		totalWeighted += ln * g.Coverage(e)
	}
	if totalLen == 0 {
		return 0
	}
	return totalWeighted / totalLen
}

// Filter implements Chooser.
func (cc CoordinatedCoverage) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) < 2 {
		return nil
	}
	if p.Length() < cc.Params.MinPathLen {
		return nil
	}
	cov := pathCoverage(cc.G, p)
	if cov <= 10 {
		return nil
	}

	var survivors path.EdgeContainer
	for _, c := range candidates {
		ahead, abort := cc.aheadCoverage(c.Edge, cov)
		if abort {
			continue
		}
		if ahead <= cov/cc.Params.CoverageDelta {
			survivors = append(survivors, c)
		}
	}
	if len(survivors) == 1 {
		return survivors
	}
	return nil
}

// aheadCoverage runs a bounded BFS from candidate's end vertex, expanding
// through edges no longer than MaxEdgeLenInRepeat with coverage at least
// pathCov*delta (the "repeat component"). It returns the minimum coverage
// among the edges exiting the component (every outgoing edge too long or
// too low-covered to belong to it), +Inf if no exit was found,
// and abort=true if the component cycles back to candidate's own start
// vertex.
func (cc CoordinatedCoverage) aheadCoverage(candidate graph.EdgeID, pathCov float64) (ahead float64, abort bool) {
	start := cc.G.EdgeStart(candidate)
	startVisit := cc.G.EdgeEnd(candidate)
	visited := map[graph.VertexID]bool{startVisit: true}
	queue := []graph.VertexID{startVisit}

	minExit := math.Inf(1)
	foundExit := false

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range cc.G.OutgoingEdges(v) {
			covE := cc.G.Coverage(e)
			inRepeat := cc.G.Length(e) <= cc.Params.MaxEdgeLenInRepeat && covE >= pathCov*cc.Params.CoverageDelta
			if inRepeat {
				nv := cc.G.EdgeEnd(e)
				if nv == start {
					return 0, true
				}
				if !visited[nv] {
					visited[nv] = true
					queue = append(queue, nv)
				}
				continue
			}
			foundExit = true
			if covE < minExit {
				minExit = covE
			}
		}
	}
	if !foundExit {
		return math.Inf(1), false
	}
	return minExit, false
}

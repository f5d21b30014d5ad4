package pathextend

import (
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// ExcludeSet is the set of path positions (indices) whose contribution must
// be ignored when weighting candidate extensions (§4.1).
type ExcludeSet map[int]struct{}

// PathAnalyzer computes the trivial-prefix exclusion set for a path.
type PathAnalyzer struct {
	g graph.Graph
}

// NewPathAnalyzer creates an analyzer over g.
func NewPathAnalyzer(g graph.Graph) *PathAnalyzer {
	return &PathAnalyzer{g: g}
}

// ExcludeTrivial walks backwards from "from" (default p.Size()-1 when
// from < 0); while the current vertex has a unique incoming edge, the
// position is trivial and gets added to toExclude. Returns the first
// non-trivial index reached, which may be -1 if the whole path is trivial.
func (a *PathAnalyzer) ExcludeTrivial(p *path.BidirectionalPath, from int, toExclude ExcludeSet) int {
	if from < 0 {
		from = p.Size() - 1
	}
	i := from
	for i >= 0 {
		e := p.At(i)
		if a.g.IncomingEdgeCount(a.g.EdgeEnd(e)) != 1 {
			return i
		}
		toExclude[i] = struct{}{}
		i--
	}
	return i
}

// ExcludeTrivialWithBulges alternates ExcludeTrivial with a single-step
// skip over bulge positions (parallel edges between the same two vertices,
// GLOSSARY): positions where every incoming edge to EdgeEnd(p[i])
// originates at EdgeStart(p[i]). It terminates when a non-bulge,
// non-trivial position is reached or the path is consumed.
func (a *PathAnalyzer) ExcludeTrivialWithBulges(p *path.BidirectionalPath) ExcludeSet {
	toExclude := make(ExcludeSet)
	i := p.Size() - 1
	for i >= 0 {
		i = a.ExcludeTrivial(p, i, toExclude)
		if i < 0 {
			break
		}
		e := p.At(i)
		if graph.IsBulgeEdge(a.g, e) {
			toExclude[i] = struct{}{}
			i--
			continue
		}
		break
	}
	return toExclude
}

// PreserveSimplePathsAnalyzer wraps another exclusion strategy: if the
// entire path would be excluded, it clears toExclude and returns
// p.Size()-1 instead — a wholly-trivial path contributes as itself rather
// than as nothing.
type PreserveSimplePathsAnalyzer struct {
	inner *PathAnalyzer
}

// NewPreserveSimplePathsAnalyzer wraps inner.
func NewPreserveSimplePathsAnalyzer(inner *PathAnalyzer) *PreserveSimplePathsAnalyzer {
	return &PreserveSimplePathsAnalyzer{inner: inner}
}

// ExcludeTrivialWithBulges computes the usual bulge-aware exclusion set,
// then, if it covers the whole path, resets it to empty and reports the
// path's last index as the "non-trivial" anchor.
func (a *PreserveSimplePathsAnalyzer) ExcludeTrivialWithBulges(p *path.BidirectionalPath) (ExcludeSet, int) {
	toExclude := a.inner.ExcludeTrivialWithBulges(p)
	if len(toExclude) == p.Size() {
		return make(ExcludeSet), p.Size() - 1
	}
	last := p.Size() - 1
	for last >= 0 {
		if _, excluded := toExclude[last]; !excluded {
			break
		}
		last--
	}
	return toExclude, last
}

package pathextend

import (
	"math"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
	"github.com/grailbio/pathcore/weight"
)

// ExclusionStrategy computes the to_exclude set a given Excluding variant
// weights around (§4.2). Each strategy owns whether/how it performs
// trivial-path pruning; Excluding itself is agnostic to that choice.
type ExclusionStrategy interface {
	BuildExclude(p *path.BidirectionalPath, candidates path.EdgeContainer) ExcludeSet
}

// Excluding is the base of the Simple/IdealBased/LongEdge/RNA family: it
// weights candidates via a Counter, drops anything far below the top
// weight, and rejects everything if the top weight itself is too low.
type Excluding struct {
	Name     string
	Counter  weight.Counter
	Strategy ExclusionStrategy
	Params   config.ExcludingParams
	Listener Listener
}

// Filter implements Chooser.
func (ex Excluding) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 0 {
		return nil
	}
	toExclude := ex.Strategy.BuildExclude(p, candidates)

	weights := make(map[graph.EdgeID]float64, len(candidates))
	wMax := math.Inf(-1)
	for _, c := range candidates {
		w := ex.Counter.CountWeight(p, c.Edge, toExclude)
		weights[c.Edge] = w
		if w > wMax {
			wMax = w
		}
	}
	notify(ex.Listener, ex.Name, p, weights)

	if wMax < ex.Params.WeightThreshold {
		return nil
	}

	var out path.EdgeContainer
	floor := wMax / ex.Params.PriorCoeff
	for _, c := range candidates {
		if weights[c.Edge] >= floor {
			out = append(out, c)
		}
	}
	return out
}

// idealInfoPositions returns, for each candidate, the path positions that
// have paired information linking them to that candidate.
func idealInfoPositions(counter weight.Counter, p *path.BidirectionalPath, candidates path.EdgeContainer) []map[int]struct{} {
	out := make([]map[int]struct{}, len(candidates))
	for i, c := range candidates {
		out[i] = counter.PairInfoExist(p, c.Edge)
	}
	return out
}

func anyHasIdealInfo(perCandidate []map[int]struct{}, pos int) bool {
	for _, s := range perCandidate {
		if _, ok := s[pos]; ok {
			return true
		}
	}
	return false
}

func allHaveIdealInfo(perCandidate []map[int]struct{}, pos int) bool {
	if len(perCandidate) == 0 {
		return false
	}
	for _, s := range perCandidate {
		if _, ok := s[pos]; !ok {
			return false
		}
	}
	return true
}

// SimpleStrategy additionally excludes positions that lack ideal paired
// info to any candidate, and positions for which PairInfoExist returns the
// same extension for every candidate (ambiguous — contributes no
// discrimination), on top of the usual trivial-prefix/bulge pruning.
type SimpleStrategy struct {
	Analyzer *PathAnalyzer
	Counter  weight.Counter
}

// BuildExclude implements ExclusionStrategy.
func (s SimpleStrategy) BuildExclude(p *path.BidirectionalPath, candidates path.EdgeContainer) ExcludeSet {
	toExclude := s.Analyzer.ExcludeTrivialWithBulges(p)
	perCandidate := idealInfoPositions(s.Counter, p, candidates)
	for i := 0; i < p.Size(); i++ {
		if !anyHasIdealInfo(perCandidate, i) {
			toExclude[i] = struct{}{}
			continue
		}
		if allHaveIdealInfo(perCandidate, i) {
			toExclude[i] = struct{}{}
		}
	}
	return toExclude
}

// IdealBasedStrategy excludes only by absence of ideal info; no
// trivial-path pruning (§4.2).
type IdealBasedStrategy struct {
	Counter weight.Counter
}

// BuildExclude implements ExclusionStrategy.
func (s IdealBasedStrategy) BuildExclude(p *path.BidirectionalPath, candidates path.EdgeContainer) ExcludeSet {
	toExclude := make(ExcludeSet)
	perCandidate := idealInfoPositions(s.Counter, p, candidates)
	for i := 0; i < p.Size(); i++ {
		if !anyHasIdealInfo(perCandidate, i) {
			toExclude[i] = struct{}{}
		}
	}
	return toExclude
}

// LongEdgeStrategy wraps another strategy and further excludes positions
// whose edge length is below MinLen (default 200bp, §4.2).
type LongEdgeStrategy struct {
	Inner  ExclusionStrategy
	G      graph.Graph
	MinLen int
}

// BuildExclude implements ExclusionStrategy.
func (s LongEdgeStrategy) BuildExclude(p *path.BidirectionalPath, candidates path.EdgeContainer) ExcludeSet {
	toExclude := s.Inner.BuildExclude(p, candidates)
	for i := 0; i < p.Size(); i++ {
		if s.G.Length(p.At(i)) < s.MinLen {
			toExclude[i] = struct{}{}
		}
	}
	return toExclude
}

// RNAStrategy excludes all positions back to the first branch point
// (incoming count > 1 at the edge's start vertex); if no branch exists
// within the path, it clears the exclusion set entirely so the whole path
// weighs in.
type RNAStrategy struct {
	G graph.Graph
}

// BuildExclude implements ExclusionStrategy.
func (s RNAStrategy) BuildExclude(p *path.BidirectionalPath, _ path.EdgeContainer) ExcludeSet {
	toExclude := make(ExcludeSet)
	foundBranch := false
	for i := p.Size() - 1; i >= 0; i-- {
		e := p.At(i)
		if s.G.IncomingEdgeCount(s.G.EdgeStart(e)) > 1 {
			foundBranch = true
			break
		}
		toExclude[i] = struct{}{}
	}
	if !foundBranch {
		return make(ExcludeSet)
	}
	return toExclude
}

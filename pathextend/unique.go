package pathextend

import "github.com/grailbio/pathcore/graph"

// CoveringPath is a long-read-derived path covering one or more graph
// edges, as recorded in a GraphCoverageMap (§3).
type CoveringPath interface {
	Size() int
	At(i int) graph.EdgeID
	Weight() float64
}

// CoverageMap answers, for each edge, which long-read-derived paths cover
// it (§3 GraphCoverageMap). Read-only during extension.
type CoverageMap interface {
	PathsCovering(e graph.EdgeID) []CoveringPath
}

// UniqueEdgeStorage reports whether an edge has been designated globally
// unique (§3 ScaffoldingUniqueEdgeStorage). Read-only during extension.
type UniqueEdgeStorage interface {
	IsUnique(e graph.EdgeID) bool
}

// LongReadsUniqueEdgeAnalyzer is a one-shot preprocessor (§4.3): it
// populates the unique set once, then answers IsUnique queries only.
type LongReadsUniqueEdgeAnalyzer struct {
	g               graph.Graph
	coverageMap     CoverageMap
	maxRepeatLength int
	priorThreshold  float64
	filterThreshold float64

	unique map[graph.EdgeID]bool
}

// NewLongReadsUniqueEdgeAnalyzer creates an analyzer. Call Analyze (and
// optionally AnalyzeCoverage) once before any IsUnique query.
func NewLongReadsUniqueEdgeAnalyzer(g graph.Graph, coverageMap CoverageMap, maxRepeatLength int, priorThreshold, filterThreshold float64) *LongReadsUniqueEdgeAnalyzer {
	return &LongReadsUniqueEdgeAnalyzer{
		g:               g,
		coverageMap:     coverageMap,
		maxRepeatLength: maxRepeatLength,
		priorThreshold:  priorThreshold,
		filterThreshold: filterThreshold,
		unique:          make(map[graph.EdgeID]bool),
	}
}

// Analyze populates the unique set for every edge in edges (and their
// conjugates, kept symmetric per §8 P9).
func (a *LongReadsUniqueEdgeAnalyzer) Analyze(edges []graph.EdgeID) {
	for _, e := range edges {
		if a.isUniqueEdge(e) {
			a.markUnique(e)
		}
	}
}

func (a *LongReadsUniqueEdgeAnalyzer) markUnique(e graph.EdgeID) {
	a.unique[e] = true
	a.unique[a.g.Conjugate(e)] = true
}

// isUniqueEdge implements the per-edge unique predicate of §4.3. It runs a
// quadratic pass over e's covering paths (acceptable for current corpora,
// per the design notes — not indexed).
func (a *LongReadsUniqueEdgeAnalyzer) isUniqueEdge(e graph.EdgeID) bool {
	if a.g.Length(e) > a.maxRepeatLength {
		return true
	}
	paths := a.coverageMap.PathsCovering(e)
	for _, cp := range paths {
		if countOccurrences(cp, e) > 1 {
			return false
		}
	}
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if !a.pairAgreesOrDiverges(paths[i], paths[j], e) {
				return false
			}
		}
	}
	return true
}

func countOccurrences(cp CoveringPath, e graph.EdgeID) int {
	n := 0
	for i := 0; i < cp.Size(); i++ {
		if cp.At(i) == e {
			n++
		}
	}
	return n
}

func indexOf(cp CoveringPath, e graph.EdgeID) int {
	for i := 0; i < cp.Size(); i++ {
		if cp.At(i) == e {
			return i
		}
	}
	return -1
}

// pairAgreesOrDiverges checks whether two covering paths either agree on
// the context immediately flanking e, or — if they diverge — that their
// weights differ by at least priorThreshold, with both above
// filterThreshold.
func (a *LongReadsUniqueEdgeAnalyzer) pairAgreesOrDiverges(p1, p2 CoveringPath, e graph.EdgeID) bool {
	i1, i2 := indexOf(p1, e), indexOf(p2, e)
	if i1 < 0 || i2 < 0 {
		return true
	}
	agree := true
	if i1 > 0 && i2 > 0 && p1.At(i1-1) != p2.At(i2-1) {
		agree = false
	}
	if i1+1 < p1.Size() && i2+1 < p2.Size() && p1.At(i1+1) != p2.At(i2+1) {
		agree = false
	}
	if agree {
		return true
	}
	w1, w2 := p1.Weight(), p2.Weight()
	if w1 < a.filterThreshold || w2 < a.filterThreshold {
		return false
	}
	hi, lo := w1, w2
	if lo > hi {
		hi, lo = lo, hi
	}
	if lo == 0 {
		return false
	}
	return hi/lo >= a.priorThreshold
}

// AnalyzeCoverage runs the optional coverage-based pass (§4.3): it computes
// the length-weighted mean coverage of long edges (length >=
// maxRepeatLength), then marks any edge of length > 500 with coverage less
// than 1.2x that mean as unique. Skip this pass for uneven-depth data
// (§4.3).
func (a *LongReadsUniqueEdgeAnalyzer) AnalyzeCoverage(edges []graph.EdgeID) {
	var totalLen, totalWeighted float64
	for _, e := range edges {
		ln := a.g.Length(e)
		if ln >= a.maxRepeatLength {
			totalLen += float64(ln)
			totalWeighted += float64(ln) * a.g.Coverage(e)
		}
	}
	if totalLen == 0 {
		return
	}
	mean := totalWeighted / totalLen
	for _, e := range edges {
		if a.g.Length(e) > 500 && a.g.Coverage(e) < 1.2*mean {
			a.markUnique(e)
		}
	}
}

// IsUnique reports whether e has been designated globally unique.
func (a *LongReadsUniqueEdgeAnalyzer) IsUnique(e graph.EdgeID) bool {
	return a.unique[e]
}

// Package path implements BidirectionalPath and the small value types that
// flow between extension choosers: EdgeWithDistance, EdgeContainer, and the
// weight-sorted AlternativeContainer (§3). Paths are created by the
// extender, mutated only by appending, and destroyed when the extension run
// ends — this package enforces that by never exposing a way to remove or
// reorder an already-appended edge.
package path

import "github.com/grailbio/pathcore/graph"

// EdgeWithDistance pairs an edge with a signed gap: the offset from the end
// of a preceding anchor, used in scaffolding to represent a jump across
// unresolved sequence (§3).
type EdgeWithDistance struct {
	Edge graph.EdgeID
	Gap  int
}

// EdgeContainer is the universal input/output of extension choosers: an
// ordered sequence of candidate edges with their gaps.
type EdgeContainer []EdgeWithDistance

// EdgeIDs returns the edge ids of c, discarding gaps. Used for set
// operations such as Joint's intersection-by-edge-id (§4.2).
func (c EdgeContainer) EdgeIDs() map[graph.EdgeID]EdgeWithDistance {
	m := make(map[graph.EdgeID]EdgeWithDistance, len(c))
	for _, ewd := range c {
		m[ewd.Edge] = ewd
	}
	return m
}

// BidirectionalPath is an ordered sequence of edges forming a connected
// walk, with cached cumulative lengths so LengthAt is O(1) after append.
type BidirectionalPath struct {
	g       graph.Graph
	edges   []graph.EdgeID
	cumLen  []int // cumLen[i] = sum of lengths of edges[i:]
	totalLn int
}

// New creates an empty path over graph g.
func New(g graph.Graph) *BidirectionalPath {
	return &BidirectionalPath{g: g}
}

// NewFromEdges creates a path pre-populated with edges, in order.
func NewFromEdges(g graph.Graph, edges []graph.EdgeID) *BidirectionalPath {
	p := New(g)
	for _, e := range edges {
		p.PushBack(e)
	}
	return p
}

// Size returns the number of edges in the path.
func (p *BidirectionalPath) Size() int { return len(p.edges) }

// At returns the edge at position i.
func (p *BidirectionalPath) At(i int) graph.EdgeID { return p.edges[i] }

// Back returns the last edge in the path. Panics on an empty path, matching
// the teacher's convention that Back()/Front() on empty containers is a
// programmer error (see markduplicates' shard-list invariants).
func (p *BidirectionalPath) Back() graph.EdgeID { return p.edges[len(p.edges)-1] }

// Empty reports whether the path has no edges.
func (p *BidirectionalPath) Empty() bool { return len(p.edges) == 0 }

// Length returns the total length of the path (sum of edge lengths).
func (p *BidirectionalPath) Length() int { return p.totalLn }

// LengthAt returns the length of the suffix of the path starting at
// position i (inclusive) — the distance from the start of edges[i] to the
// end of the path.
func (p *BidirectionalPath) LengthAt(i int) int {
	if i < 0 || i >= len(p.cumLen) {
		return 0
	}
	return p.cumLen[i]
}

// PushBack appends e to the path, updating the cumulative-length cache.
func (p *BidirectionalPath) PushBack(e graph.EdgeID) {
	ln := p.g.Length(e)
	p.edges = append(p.edges, e)
	p.totalLn += ln
	// Every previously cached suffix length grows by ln, so the whole
	// cache is rebuilt with ln added to each entry and ln appended as the
	// new last suffix.
	newCum := make([]int, len(p.cumLen)+1)
	newCum[len(newCum)-1] = ln
	for i := len(p.cumLen) - 1; i >= 0; i-- {
		newCum[i] = p.cumLen[i] + ln
	}
	p.cumLen = newCum
}

// SubPath returns a new path covering edges[i:j).
func (p *BidirectionalPath) SubPath(i, j int) *BidirectionalPath {
	return NewFromEdges(p.g, append([]graph.EdgeID(nil), p.edges[i:j]...))
}

// FindAll returns every position in the path holding edge e.
func (p *BidirectionalPath) FindAll(e graph.EdgeID) []int {
	var out []int
	for i, x := range p.edges {
		if x == e {
			out = append(out, i)
		}
	}
	return out
}

// FindFirst returns the first position holding edge e, or -1.
func (p *BidirectionalPath) FindFirst(e graph.EdgeID) int {
	for i, x := range p.edges {
		if x == e {
			return i
		}
	}
	return -1
}

// CompareFrom reports whether the path's edges starting at i match sub
// exactly, element by element.
func (p *BidirectionalPath) CompareFrom(i int, sub []graph.EdgeID) bool {
	if i < 0 || i+len(sub) > len(p.edges) {
		return false
	}
	for k, e := range sub {
		if p.edges[i+k] != e {
			return false
		}
	}
	return true
}

// Contains reports whether any edge in the path touches vertex v, either as
// start or end.
func (p *BidirectionalPath) Contains(v graph.VertexID) bool {
	for _, e := range p.edges {
		if p.g.EdgeStart(e) == v || p.g.EdgeEnd(e) == v {
			return true
		}
	}
	return false
}

// ContainsEdge reports whether e already appears anywhere in the path.
func (p *BidirectionalPath) ContainsEdge(e graph.EdgeID) bool {
	return p.FindFirst(e) >= 0
}

// Graph returns the graph this path is defined over.
func (p *BidirectionalPath) Graph() graph.Graph { return p.g }

// Edges returns a read-only view of the path's edges, in order.
func (p *BidirectionalPath) Edges() []graph.EdgeID { return p.edges }

package graph

// SimpleGraph is a minimal in-memory Graph used by tests and by callers
// that already have a fully materialized vertex/edge set in hand. It is not
// part of the production graph-construction path (out of scope, §1).
type SimpleGraph struct {
	edgeStart  map[EdgeID]VertexID
	edgeEnd    map[EdgeID]VertexID
	length     map[EdgeID]int
	coverage   map[EdgeID]float64
	conjugate  map[EdgeID]EdgeID
	incoming   map[VertexID][]EdgeID
	outgoing   map[VertexID][]EdgeID
	nextVertex VertexID
}

// NewSimpleGraph creates an empty graph.
func NewSimpleGraph() *SimpleGraph {
	return &SimpleGraph{
		edgeStart: make(map[EdgeID]VertexID),
		edgeEnd:   make(map[EdgeID]VertexID),
		length:    make(map[EdgeID]int),
		coverage:  make(map[EdgeID]float64),
		conjugate: make(map[EdgeID]EdgeID),
		incoming:  make(map[VertexID][]EdgeID),
		outgoing:  make(map[VertexID][]EdgeID),
	}
}

// NewVertex allocates a fresh vertex id.
func (g *SimpleGraph) NewVertex() VertexID {
	g.nextVertex++
	return g.nextVertex
}

// AddEdge inserts an edge with the given endpoints, length, and coverage.
// The caller is responsible for calling AddEdge again for e's conjugate and
// linking the two with SetConjugate; most callers use AddEdgePair instead.
func (g *SimpleGraph) AddEdge(id EdgeID, start, end VertexID, length int, coverage float64) {
	g.edgeStart[id] = start
	g.edgeEnd[id] = end
	g.length[id] = length
	g.coverage[id] = coverage
	g.outgoing[start] = append(g.outgoing[start], id)
	g.incoming[end] = append(g.incoming[end], id)
}

// SetConjugate records that a and b are reverse-complements of one another.
func (g *SimpleGraph) SetConjugate(a, b EdgeID) {
	g.conjugate[a] = b
	g.conjugate[b] = a
}

// AddEdgePair adds edge id and its conjugate conjID in one call, including
// the conjugate's (reverse-oriented) adjacency.
func (g *SimpleGraph) AddEdgePair(id EdgeID, start, end VertexID, length int, coverage float64, conjID EdgeID, conjStart, conjEnd VertexID) {
	g.AddEdge(id, start, end, length, coverage)
	g.AddEdge(conjID, conjStart, conjEnd, length, coverage)
	g.SetConjugate(id, conjID)
}

func (g *SimpleGraph) EdgeStart(e EdgeID) VertexID       { return g.edgeStart[e] }
func (g *SimpleGraph) EdgeEnd(e EdgeID) VertexID         { return g.edgeEnd[e] }
func (g *SimpleGraph) IncomingEdges(v VertexID) []EdgeID { return g.incoming[v] }
func (g *SimpleGraph) OutgoingEdges(v VertexID) []EdgeID { return g.outgoing[v] }
func (g *SimpleGraph) IncomingEdgeCount(v VertexID) int  { return len(g.incoming[v]) }
func (g *SimpleGraph) Length(e EdgeID) int               { return g.length[e] }
func (g *SimpleGraph) Coverage(e EdgeID) float64         { return g.coverage[e] }
func (g *SimpleGraph) IntID(e EdgeID) int64              { return int64(e) }
func (g *SimpleGraph) Conjugate(e EdgeID) EdgeID         { return g.conjugate[e] }

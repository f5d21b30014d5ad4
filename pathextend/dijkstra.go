package pathextend

import (
	"container/heap"

	"github.com/grailbio/pathcore/graph"
)

// dijkstraUniqueAhead runs a barcode-bounded Dijkstra from start, returning
// the shortest graph distance to every globally-unique edge reachable
// within bound. Used by the ReadCloud family (§4.2) to gather candidate
// unique edges ahead of the path's last unique edge.
func dijkstraUniqueAhead(g graph.Graph, unique UniqueEdgeStorage, start graph.VertexID, bound int) map[graph.EdgeID]int {
	dist := map[graph.VertexID]int{start: 0}
	pq := &vertexQueue{{v: start, dist: 0}}
	heap.Init(pq)

	result := make(map[graph.EdgeID]int)
	for pq.Len() > 0 {
		it := heap.Pop(pq).(vertexItem)
		if it.dist > dist[it.v] {
			continue // stale entry
		}
		for _, e := range g.OutgoingEdges(it.v) {
			nd := it.dist + g.Length(e)
			if nd > bound {
				continue
			}
			if unique.IsUnique(e) {
				if cur, ok := result[e]; !ok || nd < cur {
					result[e] = nd
				}
			}
			nv := g.EdgeEnd(e)
			if d, ok := dist[nv]; !ok || nd < d {
				dist[nv] = nd
				heap.Push(pq, vertexItem{v: nv, dist: nd})
			}
		}
	}
	return result
}

type vertexItem struct {
	v    graph.VertexID
	dist int
}

type vertexQueue []vertexItem

func (q vertexQueue) Len() int            { return len(q) }
func (q vertexQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q vertexQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *vertexQueue) Push(x interface{}) { *q = append(*q, x.(vertexItem)) }
func (q *vertexQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

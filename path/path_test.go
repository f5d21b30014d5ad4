package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/pathcore/graph"
)

func buildLinearGraph() (*graph.SimpleGraph, []graph.EdgeID) {
	g := graph.NewSimpleGraph()
	v0, v1, v2, v3 := g.NewVertex(), g.NewVertex(), g.NewVertex(), g.NewVertex()
	g.AddEdge(1, v0, v1, 100, 20)
	g.AddEdge(2, v1, v2, 50, 20)
	g.AddEdge(3, v2, v3, 10, 20)
	return g, []graph.EdgeID{1, 2, 3}
}

func TestBidirectionalPathLengthAt(t *testing.T) {
	g, edges := buildLinearGraph()
	p := NewFromEdges(g, edges)

	require.Equal(t, 3, p.Size())
	assert.Equal(t, graph.EdgeID(3), p.Back())
	assert.Equal(t, 160, p.Length())
	assert.Equal(t, 160, p.LengthAt(0))
	assert.Equal(t, 60, p.LengthAt(1))
	assert.Equal(t, 10, p.LengthAt(2))
}

func TestBidirectionalPathFind(t *testing.T) {
	g, edges := buildLinearGraph()
	p := NewFromEdges(g, edges)

	assert.Equal(t, 1, p.FindFirst(2))
	assert.Equal(t, -1, p.FindFirst(99))
	assert.Equal(t, []int{1}, p.FindAll(2))
	assert.True(t, p.CompareFrom(1, []graph.EdgeID{2, 3}))
	assert.False(t, p.CompareFrom(1, []graph.EdgeID{2, 99}))
}

func TestBidirectionalPathSubPath(t *testing.T) {
	g, edges := buildLinearGraph()
	p := NewFromEdges(g, edges)
	sub := p.SubPath(1, 3)
	assert.Equal(t, 2, sub.Size())
	assert.Equal(t, graph.EdgeID(2), sub.At(0))
	assert.Equal(t, graph.EdgeID(3), sub.At(1))
}

func TestAlternativeContainerOrdering(t *testing.T) {
	c := NewAlternativeContainer()
	c.Insert(3.0, EdgeWithDistance{Edge: 3})
	c.Insert(1.0, EdgeWithDistance{Edge: 1})
	c.Insert(2.0, EdgeWithDistance{Edge: 2})
	c.Insert(2.0, EdgeWithDistance{Edge: 4}) // duplicate weight

	all := c.All()
	require.Len(t, all, 4)
	assert.Equal(t, 1.0, all[0].Weight)
	assert.Equal(t, graph.EdgeID(1), all[0].Ewd.Edge)
	assert.Equal(t, 3.0, all[3].Weight)
	assert.Equal(t, graph.EdgeID(3), all[3].Ewd.Edge)

	w, ewd, ok := c.Max()
	require.True(t, ok)
	assert.Equal(t, 3.0, w)
	assert.Equal(t, graph.EdgeID(3), ewd.Edge)
}

func TestAlternativeContainerEmpty(t *testing.T) {
	c := NewAlternativeContainer()
	_, _, ok := c.Max()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

package pathextend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

func TestTrivialFilter(t *testing.T) {
	g := graph.NewSimpleGraph()
	v0, v1 := g.NewVertex(), g.NewVertex()
	g.AddEdge(1, v0, v1, 10, 5)
	p := path.NewFromEdges(g, []graph.EdgeID{1})

	out := Trivial{}.Filter(p, path.EdgeContainer{{Edge: 2, Gap: 0}})
	assert.Equal(t, path.EdgeContainer{{Edge: 2, Gap: 0}}, out)

	out = Trivial{}.Filter(p, path.EdgeContainer{{Edge: 2}, {Edge: 3}})
	assert.Nil(t, out)

	out = Trivial{}.Filter(p, nil)
	assert.Nil(t, out)
}

type constChooser struct {
	out path.EdgeContainer
}

func (c constChooser) Filter(*path.BidirectionalPath, path.EdgeContainer) path.EdgeContainer {
	return c.out
}

func TestJointIntersectsByEdgeID(t *testing.T) {
	g := graph.NewSimpleGraph()
	p := path.New(g)

	a := constChooser{out: path.EdgeContainer{{Edge: 1, Gap: 0}, {Edge: 2, Gap: 0}}}
	b := constChooser{out: path.EdgeContainer{{Edge: 2, Gap: 0}, {Edge: 3, Gap: 0}}}

	out := Joint{A: a, B: b}.Filter(p, path.EdgeContainer{{Edge: 1}, {Edge: 2}, {Edge: 3}})
	assert.Equal(t, path.EdgeContainer{{Edge: 2, Gap: 0}}, out)
}

func TestJointPanicsOnGapMismatch(t *testing.T) {
	g := graph.NewSimpleGraph()
	p := path.New(g)

	a := constChooser{out: path.EdgeContainer{{Edge: 1, Gap: 5}}}
	b := constChooser{out: path.EdgeContainer{{Edge: 1, Gap: 9}}}

	assert.Panics(t, func() {
		Joint{A: a, B: b}.Filter(p, path.EdgeContainer{{Edge: 1}})
	})
}

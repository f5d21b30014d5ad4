package pathextend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
	"github.com/grailbio/pathcore/weight"
)

type fixedWeightCounter struct {
	weights map[graph.EdgeID]float64
}

func (f fixedWeightCounter) CountWeight(_ weight.PathLike, candidate graph.EdgeID, _ map[int]struct{}) float64 {
	return f.weights[candidate]
}
func (fixedWeightCounter) PairedLibrary() weight.PairedLibrary { return PairedLibraryStub{} }
func (f fixedWeightCounter) PairInfoExist(_ weight.PathLike, _ graph.EdgeID) map[int]struct{} {
	return nil
}

// PairedLibraryStub is an unused placeholder satisfying weight.Counter's
// PairedLibrary() return type in tests that never call it.
type PairedLibraryStub struct{}

func (PairedLibraryStub) IdealPairedInfo(graph.EdgeID, graph.EdgeID, int) float64 { return 0 }
func (PairedLibraryStub) CountDistances(graph.EdgeID, graph.EdgeID) ([]int, []float64) {
	return nil, nil
}
func (PairedLibraryStub) FindJumpEdges(graph.EdgeID, int, int) map[graph.EdgeID]struct{} { return nil }
func (PairedLibraryStub) GetIsVar() int                                                  { return 0 }
func (PairedLibraryStub) GetISMax() int                                                  { return 0 }

type noOpStrategy struct{}

func (noOpStrategy) BuildExclude(*path.BidirectionalPath, path.EdgeContainer) ExcludeSet {
	return make(ExcludeSet)
}

func TestExcludingFilterKeepsCandidatesNearTopWeight(t *testing.T) {
	counter := fixedWeightCounter{weights: map[graph.EdgeID]float64{2: 10.0, 3: 3.0}}
	ex := Excluding{
		Name:     "test",
		Counter:  counter,
		Strategy: noOpStrategy{},
		Params:   config.ExcludingParams{WeightThreshold: 2.0, PriorCoeff: 2.0},
	}

	g := graph.NewSimpleGraph()
	p := path.New(g)
	out := ex.Filter(p, path.EdgeContainer{{Edge: 2}, {Edge: 3}})
	require.Len(t, out, 1)
	assert.Equal(t, graph.EdgeID(2), out[0].Edge)
}

func TestExcludingFilterRejectsAllBelowThreshold(t *testing.T) {
	counter := fixedWeightCounter{weights: map[graph.EdgeID]float64{2: 1.0, 3: 0.5}}
	ex := Excluding{
		Name:     "test",
		Counter:  counter,
		Strategy: noOpStrategy{},
		Params:   config.ExcludingParams{WeightThreshold: 2.0, PriorCoeff: 2.0},
	}
	g := graph.NewSimpleGraph()
	p := path.New(g)
	out := ex.Filter(p, path.EdgeContainer{{Edge: 2}, {Edge: 3}})
	assert.Nil(t, out)
}

func TestExcludingFilterEmptyInput(t *testing.T) {
	ex := Excluding{Strategy: noOpStrategy{}, Counter: fixedWeightCounter{}}
	g := graph.NewSimpleGraph()
	p := path.New(g)
	assert.Nil(t, ex.Filter(p, nil))
}

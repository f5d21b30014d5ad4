// Package weight declares the paired-end evidence interfaces consumed by
// the path-extension choosers (§6, external collaborators). No
// implementation lives here: paired-information indices and insert-size
// libraries are constructed upstream of this core and passed in.
package weight

import "github.com/grailbio/pathcore/graph"

// Counter computes a scalar "weight" that a candidate continuation edge
// accumulates from paired-end evidence, optionally excluding designated
// positions of the current path.
type Counter interface {
	// CountWeight returns the accumulated weight supporting candidate as
	// the next edge following path, ignoring contributions from path
	// positions named in toExclude.
	CountWeight(path PathLike, candidate graph.EdgeID, toExclude map[int]struct{}) float64

	// PairedLibrary exposes the underlying insert-size distribution.
	PairedLibrary() PairedLibrary

	// PairInfoExist returns the set of path positions that have paired
	// information linking them to candidate.
	PairInfoExist(path PathLike, candidate graph.EdgeID) map[int]struct{}
}

// PathLike is the minimal path surface a Counter needs: it avoids an import
// cycle with package path while still letting implementations walk the
// path's edges and lengths.
type PathLike interface {
	Size() int
	At(i int) graph.EdgeID
	LengthAt(i int) int
	Back() graph.EdgeID
}

// PairedLibrary exposes insert-size-distribution queries used by
// Scaffolding and the "ideal info" exclusion strategies.
type PairedLibrary interface {
	// IdealPairedInfo returns the expected number of read-pairs linking e1
	// and e2 at distance dist under the insert-size distribution.
	IdealPairedInfo(e1, e2 graph.EdgeID, dist int) float64

	// CountDistances returns every observed (distance, weight) sample
	// linking e1 and e2.
	CountDistances(e1, e2 graph.EdgeID) (dists []int, weights []float64)

	// FindJumpEdges returns edges observed at a distance within
	// [minDist, maxDist] from e.
	FindJumpEdges(e graph.EdgeID, minDist, maxDist int) map[graph.EdgeID]struct{}

	// GetIsVar returns the insert-size standard deviation (the "scatter").
	GetIsVar() int

	// GetISMax returns the maximum insert size considered.
	GetISMax() int
}

// Package pathextend implements the path-extension decision engine: given a
// current path and a candidate set of outgoing edges, decide which edge (if
// any) extends the path. See SPEC_FULL §4.2 for the chooser family and §9
// for the tagged-variant design this package follows.
package pathextend

import (
	"fmt"

	"github.com/grailbio/pathcore/graph"
	"github.com/grailbio/pathcore/path"
)

// Chooser is implemented by every extension-chooser variant. Filter returns
// a filtered candidate set: |result| <= |candidates|. Empty input always
// yields empty output (§8 P2); 0 results means "no decision", 1 means
// "extend", >=2 means "ambiguous".
type Chooser interface {
	Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer
}

// WeightEvent is delivered to a Listener whenever a chooser computes
// per-candidate weights, carrying enough detail for an external observer to
// log or chart the decision without influencing it (§4.2: "Observable side
// effects ... Listeners have no control flow influence").
type WeightEvent struct {
	Chooser string
	Path    *path.BidirectionalPath
	Weights map[graph.EdgeID]float64
}

// Listener receives WeightEvents. A nil Listener is valid and means "no
// observer".
type Listener func(WeightEvent)

func notify(l Listener, name string, p *path.BidirectionalPath, weights map[graph.EdgeID]float64) {
	if l == nil {
		return
	}
	l(WeightEvent{Chooser: name, Path: p, Weights: weights})
}

// Trivial is the identity chooser when exactly one candidate is offered,
// and rejects everything else (§4.2, §8 P4).
type Trivial struct{}

// Filter implements Chooser.
func (Trivial) Filter(_ *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	if len(candidates) == 1 {
		return candidates
	}
	return nil
}

// Joint intersects the results of two choosers by edge id. Matching edges
// in both results must carry the same Gap; a mismatch is a programming
// invariant violation (§4.2), not a runtime condition, and panics.
type Joint struct {
	A, B Chooser
}

// Filter implements Chooser.
func (j Joint) Filter(p *path.BidirectionalPath, candidates path.EdgeContainer) path.EdgeContainer {
	ra := j.A.Filter(p, candidates)
	rb := j.B.Filter(p, candidates)
	bByEdge := rb.EdgeIDs()

	var out path.EdgeContainer
	for _, ewd := range ra {
		other, ok := bByEdge[ewd.Edge]
		if !ok {
			continue
		}
		if other.Gap != ewd.Gap {
			panic(fmt.Sprintf("pathextend: Joint saw edge %d with mismatched gaps (%d vs %d)", ewd.Edge, ewd.Gap, other.Gap))
		}
		out = append(out, ewd)
	}
	return out
}

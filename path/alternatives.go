package path

import (
	"github.com/biogo/store/llrb"
)

// AlternativeContainer is a sorted multi-mapping weight -> EdgeWithDistance
// (duplicates allowed, ordered by ascending weight), backed by an
// left-leaning red-black tree in the style of
// encoding/bampair/shard_info.go's llrb.Tree-keyed shard index.
type AlternativeContainer struct {
	tree llrb.Tree
	seq  int64 // tie-breaker so entries with equal weight are kept distinct and stable
}

type altEntry struct {
	weight float64
	seq    int64
	ewd    EdgeWithDistance
}

// Compare implements llrb.Comparable, ordering first by weight then by
// insertion sequence so that equal-weight entries never collide.
func (a altEntry) Compare(other llrb.Comparable) int {
	b := other.(altEntry)
	if a.weight < b.weight {
		return -1
	}
	if a.weight > b.weight {
		return 1
	}
	if a.seq < b.seq {
		return -1
	}
	if a.seq > b.seq {
		return 1
	}
	return 0
}

// NewAlternativeContainer creates an empty container.
func NewAlternativeContainer() *AlternativeContainer {
	return &AlternativeContainer{}
}

// Insert records that candidate ewd accumulated weight w.
func (c *AlternativeContainer) Insert(w float64, ewd EdgeWithDistance) {
	c.tree.Insert(altEntry{weight: w, seq: c.seq, ewd: ewd})
	c.seq++
}

// Len returns the number of entries.
func (c *AlternativeContainer) Len() int { return c.tree.Len() }

// Max returns the highest-weight entry and its weight. ok is false if the
// container is empty.
func (c *AlternativeContainer) Max() (w float64, ewd EdgeWithDistance, ok bool) {
	m := c.tree.Max()
	if m == nil {
		return 0, EdgeWithDistance{}, false
	}
	e := m.(altEntry)
	return e.weight, e.ewd, true
}

// Do walks every entry in ascending weight order, calling f(weight, ewd).
// Stops early if f returns false.
func (c *AlternativeContainer) Do(f func(w float64, ewd EdgeWithDistance) bool) {
	c.tree.Do(func(x llrb.Comparable) bool {
		e := x.(altEntry)
		return !f(e.weight, e.ewd)
	})
}

// All returns every (weight, EdgeWithDistance) pair in ascending weight
// order.
func (c *AlternativeContainer) All() []struct {
	Weight float64
	Ewd    EdgeWithDistance
} {
	out := make([]struct {
		Weight float64
		Ewd    EdgeWithDistance
	}, 0, c.tree.Len())
	c.Do(func(w float64, ewd EdgeWithDistance) bool {
		out = append(out, struct {
			Weight float64
			Ewd    EdgeWithDistance
		}{w, ewd})
		return true
	})
	return out
}

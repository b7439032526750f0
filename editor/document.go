package editor

import (
	"sort"

	"github.com/brunoga/deep"
)

// Document is the ordered sequence of all shapes in a design. Sequence
// order is insertion order; rendering order is ZIndex ascending.
type Document []Shape

// Clone returns a deep copy of the document. History snapshots and
// anything handed across a goroutine boundary must not alias the
// mutable present, so Attrs maps are copied too.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return deep.MustCopy(d)
}

// Find returns the index of the shape with the given ID, or -1.
func (d Document) Find(id string) int {
	for i, s := range d {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether a shape with the given ID exists.
func (d Document) Contains(id string) bool { return d.Find(id) >= 0 }

// ByZIndex returns the shapes sorted for rendering, bottom first.
// The sort is stable so sequence order breaks ZIndex ties.
func (d Document) ByZIndex() []Shape {
	out := make([]Shape, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis aligned bounding box.
type Box r3.Box

// EmptyBox returns a box that contains no points. Including a
// point in it yields the degenerate box of that point.
func EmptyBox() Box {
	return Box{Min: Elem(math.Inf(1)), Max: Elem(math.Inf(-1))}
}

// BoxOf returns the smallest box enclosing a set of points.
// The box of an empty set is empty.
func BoxOf(s Set) Box {
	b := EmptyBox()
	for _, v := range s {
		b = b.Include(v)
	}
	return b
}

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Empty reports whether the box encloses no point.
func (a Box) Empty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box. The size of an empty box is zero.
func (a Box) Size() r3.Vec {
	if a.Empty() {
		return r3.Vec{}
	}
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	if a.Empty() {
		return r3.Vec{}
	}
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

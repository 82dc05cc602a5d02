// Package meshio reads and writes triangle mesh files (binary and ASCII
// STL, Wavefront OBJ) and converts between triangle soups and indexed
// scene meshes.
package meshio

import (
	"github.com/soypat/penfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a triangle in 3D space with counter-clockwise winding.
type Triangle [3]r3.Vec

// Normal returns the unit normal of the triangle. Degenerate
// triangles have a zero normal.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Degenerate returns true if two vertices of the triangle are within tol.
func (t Triangle) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Bounds returns the bounding box of a set of triangles.
func Bounds(model []Triangle) d3.Box {
	b := d3.EmptyBox()
	for _, t := range model {
		b = b.Include(t[0]).Include(t[1]).Include(t[2])
	}
	return b
}

package meshio

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld builds an indexed mesh from a triangle soup, merging vertices that
// fall in the same cell of a grid of spacing tol. If tol is zero only
// identical vertices are merged. Triangles that collapse after merging
// are dropped.
func Weld(model []Triangle, tol float64) (*scene.Mesh, error) {
	if tol < 0 {
		return nil, errors.New("negative weld tolerance")
	}
	if len(model) == 0 {
		return nil, errors.New("no triangles to weld")
	}
	bb := Bounds(model)
	if !d3.IsFinite(bb.Min) || !d3.IsFinite(bb.Max) {
		return nil, errors.New("inf/NaN vertex in model")
	}
	var ri float64
	if tol > 0 {
		ri = 1 / tol
		div := d3.Max(bb.Size()) * ri
		if div > math.MaxInt64/2 {
			return nil, fmt.Errorf("weld tolerance %g too small for model size. overflowed int64", tol)
		}
	}
	m := &scene.Mesh{Faces: make([][3]int, 0, len(model))}
	// vertex index cache
	exact := make(map[r3.Vec]int)
	grid := make(map[[3]int64]int)
	index := func(v r3.Vec) int {
		if tol == 0 {
			if i, ok := exact[v]; ok {
				return i
			}
			exact[v] = len(m.Vertices)
		} else {
			// Scale vert to be integer in resolution-space, relative to
			// the box minimum so far-off models keep small keys.
			s := r3.Scale(ri, r3.Sub(v, bb.Min))
			key := [3]int64{int64(math.Round(s.X)), int64(math.Round(s.Y)), int64(math.Round(s.Z))}
			if i, ok := grid[key]; ok {
				return i
			}
			grid[key] = len(m.Vertices)
		}
		m.Vertices = append(m.Vertices, v)
		return len(m.Vertices) - 1
	}
	for _, t := range model {
		f := [3]int{index(t[0]), index(t[1]), index(t[2])}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		m.Faces = append(m.Faces, f)
	}
	return m, nil
}

// Triangles returns the faces of m with vertices mapped through t.
// Use d3.Identity to get local coordinates.
func Triangles(m *scene.Mesh, t d3.Transform) []Triangle {
	model := make([]Triangle, len(m.Faces))
	for i, f := range m.Faces {
		model[i] = Triangle{
			t.Apply(m.Vertices[f[0]]),
			t.Apply(m.Vertices[f[1]]),
			t.Apply(m.Vertices[f[2]]),
		}
	}
	return model
}

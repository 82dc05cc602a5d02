package scene

import (
	"github.com/soypat/penfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is vertex data in an object's local frame. Faces index into
// Vertices. Vertices are shared between faces.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
	// selected holds per-vertex edit mode selection. It is lazily
	// sized to len(Vertices).
	selected []bool
}

// NewMesh returns a mesh with the given vertices and faces. Faces
// may be nil for point clouds.
func NewMesh(vertices []r3.Vec, faces [][3]int) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// Bounds returns the local bounding box of the mesh vertices.
func (m *Mesh) Bounds() d3.Box {
	if m == nil {
		return d3.EmptyBox()
	}
	return d3.BoxOf(m.Vertices)
}

// Median returns the arithmetic mean of all vertices in local space.
func (m *Mesh) Median() r3.Vec {
	if m == nil {
		return r3.Vec{}
	}
	return d3.Set(m.Vertices).Mean()
}

func (m *Mesh) syncSelection() {
	if len(m.selected) != len(m.Vertices) {
		sel := make([]bool, len(m.Vertices))
		copy(sel, m.selected)
		m.selected = sel
	}
}

// Selected reports whether vertex i is selected in edit mode.
func (m *Mesh) Selected(i int) bool {
	return i < len(m.selected) && m.selected[i]
}

// SelectVertex sets the selection state of vertex i.
func (m *Mesh) SelectVertex(i int, selected bool) {
	m.syncSelection()
	m.selected[i] = selected
}

// SelectedVertices returns the local positions of selected vertices.
func (m *Mesh) SelectedVertices() d3.Set {
	var s d3.Set
	for i, v := range m.Vertices {
		if m.Selected(i) {
			s = append(s, v)
		}
	}
	return s
}

func (m *Mesh) selectAll(action SelectAction) {
	m.syncSelection()
	for i := range m.selected {
		switch action {
		case SelectAll:
			m.selected[i] = true
		case DeselectAll:
			m.selected[i] = false
		case InvertSelection:
			m.selected[i] = !m.selected[i]
		}
	}
}

// mapVertices replaces every vertex v with fn(v).
func (m *Mesh) mapVertices(fn func(r3.Vec) r3.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = fn(m.Vertices[i])
	}
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	return &Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
		selected: append([]bool(nil), m.selected...),
	}
}

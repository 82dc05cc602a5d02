// Package scene implements an in-memory scene graph with the editing
// operations of a 3D content-creation application: an active object,
// object and edit modes, vertex selection, a shared 3D cursor and
// transform/origin operators.
//
// Operators act on the active object, as in the host application.
// A Scene is not safe for concurrent use.
package scene

import (
	"errors"
	"fmt"

	"github.com/soypat/penfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoActive   = errors.New("no active object")
	ErrNotMesh    = errors.New("object is not a mesh")
	ErrNoData     = errors.New("object has no data to transform")
	ErrLinked     = errors.New("object data is linked from a library")
	ErrWrongMode  = errors.New("operator not available in current mode")
	ErrSingular   = errors.New("object transform is singular")
	ErrNotInScene = errors.New("object not in scene")
)

// Mode is the editing mode of the scene.
type Mode uint8

const (
	ModeObject Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "OBJECT"
	case ModeEdit:
		return "EDIT"
	}
	return "unknown mode"
}

// TransformFlags select transform components for ApplyTransform.
type TransformFlags struct {
	Location bool
	Rotation bool
	Scale    bool
}

// SelectAction is the action of a select-all operation.
type SelectAction uint8

const (
	SelectAll SelectAction = iota
	DeselectAll
	InvertSelection
)

// OriginType selects the point SetOrigin moves the object origin to.
type OriginType uint8

const (
	// OriginCursor moves the origin to the 3D cursor.
	OriginCursor OriginType = iota
	// OriginGeometry moves the origin to the center of the geometry.
	OriginGeometry
)

// CenterMode selects how the geometry center is computed.
type CenterMode uint8

const (
	CenterMedian CenterMode = iota
	CenterBounds
)

// Scene holds objects, their selection and shared editor state.
type Scene struct {
	objects  []*Object
	selected []*Object
	active   *Object
	cursor   r3.Vec
	mode     Mode
}

// New returns an empty scene in object mode.
func New() *Scene {
	return &Scene{}
}

// Add adds objects to the scene without selecting them.
func (s *Scene) Add(objs ...*Object) {
	s.objects = append(s.objects, objs...)
}

// Objects returns all objects in insertion order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Lookup returns the first object named name.
func (s *Scene) Lookup(name string) (*Object, bool) {
	for _, obj := range s.objects {
		if obj.Name == name {
			return obj, true
		}
	}
	return nil, false
}

func (s *Scene) contains(obj *Object) bool {
	for _, o := range s.objects {
		if o == obj {
			return true
		}
	}
	return false
}

// Select adds objects to the selection. Selection order is preserved.
func (s *Scene) Select(objs ...*Object) error {
	for _, obj := range objs {
		if !s.contains(obj) {
			return fmt.Errorf("select %q: %w", obj.Name, ErrNotInScene)
		}
		if !s.IsSelected(obj) {
			s.selected = append(s.selected, obj)
		}
	}
	return nil
}

// IsSelected reports whether obj is selected.
func (s *Scene) IsSelected(obj *Object) bool {
	for _, o := range s.selected {
		if o == obj {
			return true
		}
	}
	return false
}

// SelectedObjects returns the selected objects in selection order.
func (s *Scene) SelectedObjects() []*Object {
	return append([]*Object(nil), s.selected...)
}

// Active returns the active object or nil.
func (s *Scene) Active() *Object { return s.active }

// SetActive makes obj the target of subsequent operators.
func (s *Scene) SetActive(obj *Object) error {
	if obj != nil && !s.contains(obj) {
		return fmt.Errorf("set active %q: %w", obj.Name, ErrNotInScene)
	}
	s.active = obj
	return nil
}

// Cursor returns the 3D cursor location.
func (s *Scene) Cursor() r3.Vec { return s.cursor }

// SetCursor moves the 3D cursor.
func (s *Scene) SetCursor(v r3.Vec) { s.cursor = v }

// Mode returns the current editing mode.
func (s *Scene) Mode() Mode { return s.mode }

// SetMode switches between object and edit mode. Edit mode
// requires an active mesh object with local data.
func (s *Scene) SetMode(m Mode) error {
	if m == s.mode {
		return nil
	}
	switch m {
	case ModeObject:
		s.mode = m
		return nil
	case ModeEdit:
		obj, err := s.activeMesh()
		if err != nil {
			return fmt.Errorf("set mode %s: %w", m, err)
		}
		if obj.Linked {
			return fmt.Errorf("set mode %s on %q: %w", m, obj.Name, ErrLinked)
		}
		s.mode = m
		return nil
	}
	return fmt.Errorf("set mode: invalid mode %d", m)
}

func (s *Scene) activeMesh() (*Object, error) {
	if s.active == nil {
		return nil, ErrNoActive
	}
	if s.active.Kind != KindMesh || s.active.Mesh == nil {
		return nil, fmt.Errorf("%q: %w", s.active.Name, ErrNotMesh)
	}
	return s.active, nil
}

func (s *Scene) requireMode(op string, m Mode) error {
	if s.mode != m {
		return fmt.Errorf("%s in %s mode: %w", op, s.mode, ErrWrongMode)
	}
	return nil
}

// ApplyTransform bakes the flagged transform components of the active
// object into its mesh and resets them to identity. World space vertex
// positions are unchanged.
func (s *Scene) ApplyTransform(flags TransformFlags) error {
	const op = "apply transform"
	if err := s.requireMode(op, ModeObject); err != nil {
		return err
	}
	if s.active == nil {
		return fmt.Errorf("%s: %w", op, ErrNoActive)
	}
	obj := s.active
	if obj.Mesh == nil {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrNoData)
	}
	if obj.Linked {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrLinked)
	}
	old := obj.Transform()
	next := old
	if flags.Location {
		next.Location = r3.Vec{}
	}
	if flags.Rotation {
		next.Rotation = d3.IdentityRotation()
	}
	if flags.Scale {
		next.Scale = d3.Elem(1)
	}
	if next == old {
		return nil
	}
	if next.Singular() {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrSingular)
	}
	obj.Mesh.mapVertices(func(v r3.Vec) r3.Vec {
		return next.Unapply(old.Apply(v))
	})
	obj.setTransform(next)
	return nil
}

// SelectAll changes the selection of every vertex of the active object.
func (s *Scene) SelectAll(action SelectAction) error {
	if err := s.requireMode("select all", ModeEdit); err != nil {
		return err
	}
	obj, err := s.activeMesh()
	if err != nil {
		return fmt.Errorf("select all: %w", err)
	}
	obj.Mesh.selectAll(action)
	return nil
}

// SnapCursorToSelected moves the 3D cursor to the world space median
// of the selected vertices of the active object. If no vertex is
// selected the cursor does not move.
func (s *Scene) SnapCursorToSelected() error {
	const op = "snap cursor to selected"
	if err := s.requireMode(op, ModeEdit); err != nil {
		return err
	}
	obj, err := s.activeMesh()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sel := obj.Mesh.SelectedVertices()
	if len(sel) == 0 {
		return nil
	}
	s.cursor = obj.Transform().Apply(sel.Mean())
	return nil
}

// SetOrigin moves the origin of the active object without moving its
// geometry in world space.
func (s *Scene) SetOrigin(typ OriginType, center CenterMode) error {
	const op = "set origin"
	if err := s.requireMode(op, ModeObject); err != nil {
		return err
	}
	if s.active == nil {
		return fmt.Errorf("%s: %w", op, ErrNoActive)
	}
	obj := s.active
	if obj.Mesh == nil {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrNoData)
	}
	if obj.Linked {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrLinked)
	}
	t := obj.Transform()
	if t.Singular() {
		return fmt.Errorf("%s %q: %w", op, obj.Name, ErrSingular)
	}
	var local r3.Vec
	switch typ {
	case OriginCursor:
		local = t.Unapply(s.cursor)
	case OriginGeometry:
		switch center {
		case CenterMedian:
			local = obj.Mesh.Median()
		case CenterBounds:
			local = obj.Mesh.Bounds().Center()
		default:
			return fmt.Errorf("%s: invalid center mode %d", op, center)
		}
	default:
		return fmt.Errorf("%s: invalid origin type %d", op, typ)
	}
	if local == (r3.Vec{}) {
		return nil
	}
	obj.Mesh.mapVertices(func(v r3.Vec) r3.Vec { return r3.Sub(v, local) })
	obj.Location = t.Apply(local)
	return nil
}

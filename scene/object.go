package scene

import (
	"github.com/google/uuid"
	"github.com/soypat/penfix/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the type tag of a scene object.
type Kind uint8

const (
	KindMesh Kind = iota + 1
	KindCamera
	KindLight
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	case KindEmpty:
		return "empty"
	}
	return "unknown"
}

// ParseKind returns the Kind named by s as returned by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindMesh; k <= KindEmpty; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Object is a scene object. The scene owns it; callers hold pointers
// for the duration of an edit.
type Object struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	Location r3.Vec
	Rotation r3.Rotation
	Scale    r3.Vec

	// Mesh is nil for objects that are not of KindMesh.
	Mesh *Mesh
	// Linked objects reference library data and can not enter edit mode.
	Linked bool
}

// NewObject returns an object of kind k with an identity transform.
func NewObject(name string, k Kind) *Object {
	return &Object{
		ID:       uuid.New(),
		Name:     name,
		Kind:     k,
		Rotation: d3.IdentityRotation(),
		Scale:    d3.Elem(1),
	}
}

// NewMeshObject returns a mesh object holding m.
func NewMeshObject(name string, m *Mesh) *Object {
	obj := NewObject(name, KindMesh)
	obj.Mesh = m
	return obj
}

// Transform returns the object's transform.
func (o *Object) Transform() d3.Transform {
	return d3.Transform{Location: o.Location, Rotation: o.Rotation, Scale: o.Scale}
}

func (o *Object) setTransform(t d3.Transform) {
	o.Location = t.Location
	o.Rotation = t.Rotation
	o.Scale = t.Scale
}

// Dimensions returns the extents of the object's local bounding box
// scaled by the object's scale. Rotation is not taken into account.
// Objects without vertices have zero dimensions.
func (o *Object) Dimensions() r3.Vec {
	if o.Mesh == nil {
		return r3.Vec{}
	}
	return d3.MulElem(o.Mesh.Bounds().Size(), d3.AbsElem(o.Scale))
}

// WorldVertices returns the object's vertices in world space.
func (o *Object) WorldVertices() d3.Set {
	if o.Mesh == nil {
		return nil
	}
	t := o.Transform()
	s := make(d3.Set, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		s[i] = t.Apply(v)
	}
	return s
}

// Clone returns a deep copy of the object with the same ID.
func (o *Object) Clone() *Object {
	c := *o
	c.Mesh = o.Mesh.Clone()
	return &c
}

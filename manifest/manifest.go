// Package manifest describes a scene in YAML: its objects, their
// transforms, mesh files and which objects are selected.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/meshio"
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// ---- MANIFEST ----

type Manifest struct {
	Objects []Object `yaml:"objects"`
	// Cursor is the initial 3D cursor location.
	Cursor Vec3 `yaml:"cursor"`
	// WeldTolerance is passed to meshio.Weld for every mesh.
	WeldTolerance float64 `yaml:"weld_tolerance"`
}

// ---- OBJECT ----

type Object struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Mesh is a path to an STL or OBJ file, relative to the manifest.
	Mesh     string `yaml:"mesh"`
	Location Vec3   `yaml:"location"`
	// Rotation is in XYZ Euler degrees.
	Rotation Vec3  `yaml:"rotation"`
	Scale    *Vec3 `yaml:"scale"` // nil => [1, 1, 1]
	Selected bool  `yaml:"selected"`
	Linked   bool  `yaml:"linked"`
}

// Vec3 is a YAML sequence of three numbers.
type Vec3 [3]float64

func (v Vec3) vec() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML.
func Parse(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names, kinds, mesh paths and scales.
func Validate(m *Manifest) error {
	if len(m.Objects) == 0 {
		return errors.New("manifest has no objects")
	}
	if m.WeldTolerance < 0 {
		return fmt.Errorf("weld_tolerance must be >= 0, got %g", m.WeldTolerance)
	}
	seen := make(map[string]struct{}, len(m.Objects))
	for i, obj := range m.Objects {
		if obj.Name == "" {
			return fmt.Errorf("object %d: missing name", i)
		}
		if _, dup := seen[obj.Name]; dup {
			return fmt.Errorf("object %q: duplicate name", obj.Name)
		}
		seen[obj.Name] = struct{}{}

		kind, ok := scene.ParseKind(obj.Kind)
		if !ok {
			return fmt.Errorf("object %q: unknown kind %q", obj.Name, obj.Kind)
		}
		if kind == scene.KindMesh && obj.Mesh == "" {
			return fmt.Errorf("object %q: mesh object without mesh file", obj.Name)
		}
		if kind != scene.KindMesh && obj.Mesh != "" {
			return fmt.Errorf("object %q: %s object can not have a mesh file", obj.Name, kind)
		}
		if obj.Scale != nil && d3.HasZero(obj.Scale.vec()) {
			return fmt.Errorf("object %q: zero scale component %v", obj.Name, *obj.Scale)
		}
	}
	return nil
}

// Build loads mesh files relative to baseDir and returns the described
// scene. Selection follows manifest order.
func Build(m *Manifest, baseDir string) (*scene.Scene, error) {
	s := scene.New()
	for _, desc := range m.Objects {
		kind, ok := scene.ParseKind(desc.Kind)
		if !ok {
			return nil, fmt.Errorf("object %q: unknown kind %q", desc.Name, desc.Kind)
		}
		obj := scene.NewObject(desc.Name, kind)
		if kind == scene.KindMesh {
			path := desc.Mesh
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			mesh, err := meshio.LoadMesh(path, m.WeldTolerance)
			if err != nil {
				return nil, fmt.Errorf("object %q: %w", desc.Name, err)
			}
			obj.Mesh = mesh
		}
		obj.Location = desc.Location.vec()
		obj.Rotation = d3.EulerXYZDegrees(desc.Rotation.vec())
		if desc.Scale != nil {
			obj.Scale = desc.Scale.vec()
		}
		obj.Linked = desc.Linked
		s.Add(obj)
		if desc.Selected {
			if err := s.Select(obj); err != nil {
				return nil, err
			}
		}
	}
	s.SetCursor(m.Cursor.vec())
	return s, nil
}

package meshio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Load reads the triangles of an STL or OBJ file, chosen by extension.
// As with ReadSTL, ErrNormalMismatch accompanies valid triangles.
func Load(path string) ([]Triangle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		model, err := ReadSTL(data)
		if err != nil && !errors.Is(err, ErrNormalMismatch) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return model, err
	case ".obj":
		return loadOBJ(path)
	}
	return nil, fmt.Errorf("%s: unsupported mesh format", path)
}

// LoadMesh reads a mesh file and welds it with tolerance tol.
// Normal mismatches are ignored.
func LoadMesh(path string, tol float64) (*scene.Mesh, error) {
	model, err := Load(path)
	if err != nil && !errors.Is(err, ErrNormalMismatch) {
		return nil, err
	}
	m, err := Weld(model, tol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func loadOBJ(path string) ([]Triangle, error) {
	mesh, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model := make([]Triangle, 0, len(mesh.Triangles))
	for _, t := range mesh.Triangles {
		model = append(model, Triangle{
			fromFauxgl(t.V1.Position),
			fromFauxgl(t.V2.Position),
			fromFauxgl(t.V3.Position),
		})
	}
	if len(model) == 0 {
		return nil, fmt.Errorf("%s: OBJ has no faces", path)
	}
	return model, nil
}

func fromFauxgl(v fauxgl.Vector) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// SaveSTL writes model to path as a binary STL, or ASCII STL when ascii
// is set. The solid name of ASCII output is the file's base name.
func SaveSTL(path string, model []Triangle, ascii bool) error {
	var buf bytes.Buffer
	var err error
	if ascii {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		err = WriteASCIISTL(&buf, name, model)
	} else {
		err = WriteSTL(&buf, model)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

package penfix

import (
	"fmt"
	"math"

	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalizer fixes a single pen object.
type Normalizer struct {
	// TargetLength is the desired largest dimension. Zero means DefaultTargetLength.
	TargetLength float64
}

func (n Normalizer) target() float64 {
	if n.TargetLength == 0 {
		return DefaultTargetLength
	}
	return n.TargetLength
}

// Normalize moves the origin of obj to the median of its vertices and
// scales it so that its largest dimension equals the target length.
// Rotation and scale are baked into the mesh beforehand and the new scale
// is baked afterwards, leaving location as the only non-identity component.
// It returns the scale factor applied.
//
// The 3D cursor of ed is left at the tip. On error obj may be partially
// modified.
//
// The tip is assumed to be the lowest vertex of the pen, but the
// cursor snap computes the median of all vertices.
func (n Normalizer) Normalize(ed Editor, obj *scene.Object) (factor float64, err error) {
	if err = ed.SetActive(obj); err != nil {
		return 0, err
	}
	err = ed.ApplyTransform(scene.TransformFlags{Rotation: true, Scale: true})
	if err != nil {
		return 0, err
	}

	if err = ed.SetMode(scene.ModeEdit); err != nil {
		return 0, err
	}
	if err = ed.SelectAll(scene.SelectAll); err != nil {
		return 0, err
	}
	if err = ed.SnapCursorToSelected(); err != nil {
		return 0, err
	}
	if err = ed.SetMode(scene.ModeObject); err != nil {
		return 0, err
	}
	if err = ed.SetOrigin(scene.OriginCursor, scene.CenterMedian); err != nil {
		return 0, err
	}

	factor, err = ScaleFactor(obj.Dimensions(), n.target())
	if err != nil {
		return 0, fmt.Errorf("%q: %w", obj.Name, err)
	}
	obj.Scale = r3.Scale(factor, obj.Scale)
	err = ed.ApplyTransform(scene.TransformFlags{Scale: true})
	if err != nil {
		return 0, err
	}
	return factor, nil
}

// ScaleFactor returns target divided by the largest component of dims.
func ScaleFactor(dims r3.Vec, target float64) (float64, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return 0, fmt.Errorf("%g: %w", target, ErrBadTarget)
	}
	maxDim := d3.Max(dims)
	if !d3.IsFinite(dims) || maxDim <= 0 {
		return 0, fmt.Errorf("dimensions %v: %w", dims, ErrDegenerate)
	}
	factor := target / maxDim
	if math.IsInf(factor, 0) || factor == 0 {
		return 0, fmt.Errorf("dimensions %v: %w", dims, ErrDegenerate)
	}
	return factor, nil
}

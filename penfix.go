// Package penfix normalizes pen meshes: it moves each selected mesh
// object's origin to its tip and uniformly rescales it so its largest
// bounding box dimension equals a target length.
//
// The host application is accessed through the Editor interface.
// scene.Scene is the in-memory implementation.
package penfix

import (
	"errors"

	"github.com/soypat/penfix/scene"
)

// DefaultTargetLength is the length all pens are scaled to, in scene
// units (1 unit = 1m, so 0.15 is 15cm).
const DefaultTargetLength = 0.15

// Confirmation is printed once a batch completes.
const Confirmation = "All selected pens fixed: origin at tip + same size"

// ErrDegenerate is returned for objects whose bounding box has no extent,
// for which no scale factor exists.
var ErrDegenerate = errors.New("degenerate bounding box")

// ErrBadTarget is returned when the target length is not a finite
// positive number.
var ErrBadTarget = errors.New("target length must be finite and positive")

// Editor is the host application API consumed by the normalizer. All
// operators act on the active object.
type Editor interface {
	// SelectedObjects returns the current selection in host order.
	SelectedObjects() []*scene.Object
	SetActive(obj *scene.Object) error
	ApplyTransform(flags scene.TransformFlags) error
	SetMode(m scene.Mode) error
	SelectAll(action scene.SelectAction) error
	SnapCursorToSelected() error
	SetOrigin(typ scene.OriginType, center scene.CenterMode) error
}

var _ Editor = (*scene.Scene)(nil)

package d3

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an object transform decomposed into location, rotation
// and scale. A local point v maps to world space as
//  Location + Rotation(Scale ⊙ v)
// The zero value has zero scale and is singular; use Identity.
type Transform struct {
	Location r3.Vec
	// Rotation is a unit quaternion. The zero value of r3.Rotation
	// is interpreted as the identity rotation, like gonum does.
	Rotation r3.Rotation
	Scale    r3.Vec
}

// Identity returns the identity Transform.
func Identity() Transform {
	return Transform{Rotation: IdentityRotation(), Scale: Elem(1)}
}

// Apply maps a local point to world space.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Add(t.Location, Rotate(t.Rotation, MulElem(t.Scale, v)))
}

// Unapply maps a world point to local space. It is the inverse of Apply.
// The result is not finite if a scale component is zero.
func (t Transform) Unapply(w r3.Vec) r3.Vec {
	return DivElem(Rotate(InvRotation(t.Rotation), r3.Sub(w, t.Location)), t.Scale)
}

// Singular reports whether t can not be inverted.
func (t Transform) Singular() bool {
	return HasZero(t.Scale)
}

// IsIdentity reports whether t is the identity transform within tol.
func (t Transform) IsIdentity(tol float64) bool {
	return EqualWithin(t.Location, r3.Vec{}, tol) &&
		EqualWithin(t.Scale, Elem(1), tol) &&
		IsIdentityRotation(t.Rotation, tol)
}

// IdentityRotation returns the unit quaternion that does not rotate.
func IdentityRotation() r3.Rotation {
	return r3.Rotation{Real: 1}
}

// normRotation maps the zero quaternion to the identity so products stay valid.
func normRotation(r r3.Rotation) quat.Number {
	if r == (r3.Rotation{}) {
		return quat.Number{Real: 1}
	}
	return quat.Number(r)
}

// Rotate rotates v by r.
func Rotate(r r3.Rotation, v r3.Vec) r3.Vec {
	if IsIdentityRotation(r, 0) {
		return v
	}
	return r.Rotate(v)
}

// InvRotation returns the rotation that undoes r.
func InvRotation(r r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(normRotation(r)))
}

// MulRotation returns the rotation that applies b first and then a.
func MulRotation(a, b r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(normRotation(a), normRotation(b)))
}

// IsIdentityRotation reports whether r rotates no point by more than tol.
// Both q and -q encode the same rotation.
func IsIdentityRotation(r r3.Rotation, tol float64) bool {
	q := normRotation(r)
	return math.Abs(math.Abs(q.Real)-1) <= tol &&
		math.Abs(q.Imag) <= tol && math.Abs(q.Jmag) <= tol && math.Abs(q.Kmag) <= tol
}

// EulerXYZ returns the rotation for Euler angles in radians applied in
// X, Y, Z order about the fixed world axes.
func EulerXYZ(angles r3.Vec) r3.Rotation {
	rx := r3.NewRotation(angles.X, r3.Vec{X: 1})
	ry := r3.NewRotation(angles.Y, r3.Vec{Y: 1})
	rz := r3.NewRotation(angles.Z, r3.Vec{Z: 1})
	return MulRotation(rz, MulRotation(ry, rx))
}

// EulerXYZDegrees is EulerXYZ with angles in degrees.
func EulerXYZDegrees(deg r3.Vec) r3.Rotation {
	return EulerXYZ(r3.Scale(math.Pi/180, deg))
}

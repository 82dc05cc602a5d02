package d3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func TestTransformApplyUnapply(t *testing.T) {
	tf := Transform{
		Location: r3.Vec{X: 1, Y: -2, Z: 3},
		Rotation: EulerXYZDegrees(r3.Vec{X: 30, Y: -45, Z: 120}),
		Scale:    r3.Vec{X: 2, Y: 0.5, Z: -3},
	}
	points := Set{
		{},
		{X: 1},
		{X: -0.25, Y: 7, Z: 1e-3},
	}
	for _, p := range points {
		w := tf.Apply(p)
		got := tf.Unapply(w)
		assert.True(t, EqualWithin(p, got, 1e-9), "roundtrip of %v got %v", p, got)
	}
}

func TestEulerXYZ(t *testing.T) {
	// 90 degrees about Z takes X onto Y.
	r := EulerXYZDegrees(r3.Vec{Z: 90})
	got := Rotate(r, r3.Vec{X: 1})
	require.True(t, EqualWithin(got, r3.Vec{Y: 1}, 1e-12), "got %v", got)

	// X is applied before Z.
	r = EulerXYZDegrees(r3.Vec{X: 90, Z: 90})
	got = Rotate(r, r3.Vec{Y: 1})
	// X: Y->Z, then Z leaves Z unchanged.
	require.True(t, EqualWithin(got, r3.Vec{Z: 1}, 1e-12), "got %v", got)
}

func TestIdentity(t *testing.T) {
	id := Identity()
	assert.True(t, id.IsIdentity(0))
	assert.False(t, id.Singular())
	assert.True(t, (Transform{}).Singular())

	p := r3.Vec{X: 3, Y: 4, Z: 5}
	assert.Equal(t, p, id.Apply(p))

	// Zero quaternion behaves as identity.
	assert.Equal(t, p, Rotate(r3.Rotation{}, p))
	assert.True(t, IsIdentityRotation(r3.Rotation{}, 0))
	assert.True(t, IsIdentityRotation(r3.Rotation{Real: -1}, 0))
	assert.True(t, IsIdentityRotation(MulRotation(r3.Rotation{}, IdentityRotation()), 0))
}

func TestInvRotation(t *testing.T) {
	r := EulerXYZDegrees(r3.Vec{X: 10, Y: 20, Z: 30})
	assert.True(t, IsIdentityRotation(MulRotation(r, InvRotation(r)), tol))
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	got := Rotate(InvRotation(r), Rotate(r, p))
	assert.True(t, EqualWithin(p, got, 1e-12))
}

func TestBox(t *testing.T) {
	b := EmptyBox()
	assert.True(t, b.Empty())
	assert.Equal(t, r3.Vec{}, b.Size())

	b = b.Include(r3.Vec{X: 1, Y: 1, Z: 1})
	assert.False(t, b.Empty())
	assert.Equal(t, r3.Vec{}, b.Size())

	b = BoxOf(Set{{X: -0.15}, {X: 0.15, Y: 0.1, Z: 0.2}, {Y: -0.0}})
	assert.True(t, EqualWithin(b.Size(), r3.Vec{X: 0.3, Y: 0.1, Z: 0.2}, tol))
	assert.True(t, EqualWithin(b.Center(), r3.Vec{Y: 0.05, Z: 0.1}, tol))
	assert.True(t, b.Equals(NewBox(b.Center(), b.Size()), tol))
}

func TestSet(t *testing.T) {
	s := Set{{X: 1}, {X: 3, Y: 2}, {Z: -1}}
	assert.Equal(t, r3.Vec{X: 0, Y: 0, Z: -1}, s.Min())
	assert.Equal(t, r3.Vec{X: 3, Y: 2, Z: 0}, s.Max())
	assert.True(t, EqualWithin(s.Mean(), r3.Vec{X: 4. / 3, Y: 2. / 3, Z: -1. / 3}, tol))
	assert.Equal(t, r3.Vec{}, Set(nil).Mean())
	assert.Equal(t, 3.0, Max(r3.Vec{X: 3, Y: 2}))
	assert.False(t, IsFinite(r3.Vec{Y: math.NaN()}))
	assert.False(t, IsFinite(r3.Vec{Z: math.Inf(-1)}))
}

package penfix_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/soypat/penfix"
	"github.com/soypat/penfix/internal/d3"
	"github.com/soypat/penfix/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBatchSkipsNonMesh(t *testing.T) {
	pen := boxObject("pen", r3.Vec{}, r3.Vec{X: 0.3, Y: 0.1, Z: 0.2})
	cam := scene.NewObject("camera", scene.KindCamera)
	cam.Location = r3.Vec{X: 7, Y: -7, Z: 5}
	cam.Rotation = d3.EulerXYZDegrees(r3.Vec{X: 63, Z: 46})
	cam.Scale = r3.Vec{X: 2, Y: 2, Z: 2}
	light := scene.NewObject("light", scene.KindLight)
	camBefore := cam.Clone()
	lightBefore := light.Clone()

	ed := newScripted(newScene(cam, pen, light))
	report, err := penfix.Batch{}.Run(ed)
	require.NoError(t, err)

	assert.Equal(t, camBefore, cam)
	assert.Equal(t, lightBefore, light)
	require.Len(t, report.Results, 3)
	assert.Equal(t, penfix.StatusSkipped, report.Results[0].Status)
	assert.Equal(t, penfix.StatusDone, report.Results[1].Status)
	assert.Equal(t, penfix.StatusSkipped, report.Results[2].Status)
	assert.InDelta(t, 0.5, report.Results[1].Factor, tol)
	assert.True(t, d3.EqualWithin(r3.Vec{X: 0.15, Y: 0.05, Z: 0.1}, report.Results[1].Dimensions, tol))
	assert.Equal(t, 1, report.Count(penfix.StatusDone))
	assert.Equal(t, 2, report.Count(penfix.StatusSkipped))
	// No operator ran on a non-mesh object.
	for _, call := range ed.calls {
		assert.Contains(t, call, "/pen")
	}
}

func TestBatchFailFast(t *testing.T) {
	a := penObject("a", 1)
	bad := scene.NewMeshObject("bad", scene.NewMesh([]r3.Vec{{Z: 1}}, nil))
	c := penObject("c", 1)
	cBefore := c.Clone()

	ed := newScripted(newScene(a, bad, c))
	report, err := penfix.Batch{Policy: penfix.FailFast}.Run(ed)
	require.ErrorIs(t, err, penfix.ErrDegenerate)
	assert.Contains(t, err.Error(), `"bad"`)

	require.Len(t, report.Results, 2, "batch stops at the failing object")
	assert.Equal(t, penfix.StatusDone, report.Results[0].Status)
	assert.Equal(t, penfix.StatusFailed, report.Results[1].Status)
	assert.InDelta(t, penfix.DefaultTargetLength, d3.Max(a.Dimensions()), tol, "processed object stays modified")
	assert.Equal(t, cBefore, c, "unprocessed object untouched")
}

func TestBatchBestEffort(t *testing.T) {
	a := penObject("a", 1)
	bad := scene.NewMeshObject("bad", scene.NewMesh([]r3.Vec{{Z: 1}}, nil))
	linked := penObject("linked", 1)
	linked.Linked = true
	c := penObject("c", 3)

	ed := newScripted(newScene(a, bad, linked, c))
	report, err := penfix.Batch{Policy: penfix.BestEffort}.Run(ed)
	require.Error(t, err)
	assert.ErrorIs(t, err, penfix.ErrDegenerate)
	assert.ErrorIs(t, err, scene.ErrLinked)

	require.Len(t, report.Results, 4)
	assert.Equal(t, 2, report.Count(penfix.StatusDone))
	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Same(t, bad, failed[0].Object)
	assert.Same(t, linked, failed[1].Object)
	assert.Zero(t, failed[0].Factor)
	for _, obj := range []*scene.Object{a, c} {
		assert.InDelta(t, penfix.DefaultTargetLength, d3.Max(obj.Dimensions()), tol, obj.Name)
	}
	assert.Equal(t, scene.ModeObject, ed.Mode())
}

func TestBatchBestEffortRecoversFromEditModeFailure(t *testing.T) {
	a := penObject("a", 1)
	b := penObject("b", 1)
	ed := newScripted(newScene(a, b))
	errHost := errors.New("host refused snap")
	ed.fail["snap/a"] = errHost

	report, err := penfix.Batch{Policy: penfix.BestEffort}.Run(ed)
	require.ErrorIs(t, err, errHost)
	assert.Equal(t, penfix.StatusFailed, report.Results[0].Status)
	// a was left in edit mode by the failure; b must still be processed.
	assert.Equal(t, penfix.StatusDone, report.Results[1].Status)
	assert.InDelta(t, penfix.DefaultTargetLength, d3.Max(b.Dimensions()), tol)
}

func TestBatchPanic(t *testing.T) {
	newEditor := func() *scriptedEditor {
		ed := newScripted(newScene(penObject("a", 1), penObject("b", 1)))
		ed.panicOn = "origin/a"
		return ed
	}
	assert.Panics(t, func() {
		penfix.Batch{Policy: penfix.FailFast}.Run(newEditor())
	})

	report, err := penfix.Batch{Policy: penfix.BestEffort}.Run(newEditor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scripted panic")
	assert.Equal(t, penfix.StatusFailed, report.Results[0].Status)
	assert.Equal(t, penfix.StatusDone, report.Results[1].Status)
}

func TestBatchEmptySelection(t *testing.T) {
	report, err := penfix.Batch{}.Run(newScripted(scene.New()))
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestBatchLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	bad := scene.NewMeshObject("bad", scene.NewMesh(nil, nil))
	ed := newScripted(newScene(scene.NewObject("cam", scene.KindCamera), penObject("pen", 1), bad))

	_, err := penfix.Batch{Policy: penfix.BestEffort, Log: logger}.Run(ed)
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, "skip")
	assert.Contains(t, out, "fixed")
	assert.Contains(t, out, "normalize failed")
	assert.Contains(t, out, "bad")
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []penfix.Policy{penfix.FailFast, penfix.BestEffort} {
		got, err := penfix.ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := penfix.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, penfix.FailFast, got)
	_, err = penfix.ParsePolicy("retry")
	assert.Error(t, err)
}

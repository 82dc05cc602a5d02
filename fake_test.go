package penfix_test

import (
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// scriptedEditor forwards to a real scene, records every operator call
// and injects failures keyed by operator and active object name.
type scriptedEditor struct {
	*scene.Scene
	calls []string
	// fail maps "op/object" to the error the operator returns.
	fail map[string]error
	// panicOn is an "op/object" key that panics instead.
	panicOn string
	// snaps holds the cursor after each snap, keyed by object name.
	snaps map[string]r3.Vec
}

func newScripted(s *scene.Scene) *scriptedEditor {
	return &scriptedEditor{
		Scene: s,
		fail:  make(map[string]error),
		snaps: make(map[string]r3.Vec),
	}
}

func (e *scriptedEditor) hook(op string) error {
	name := ""
	if a := e.Active(); a != nil {
		name = a.Name
	}
	key := op + "/" + name
	e.calls = append(e.calls, key)
	if key == e.panicOn {
		panic("scripted panic in " + key)
	}
	return e.fail[key]
}

func (e *scriptedEditor) SetActive(obj *scene.Object) error {
	if err := e.Scene.SetActive(obj); err != nil {
		return err
	}
	return e.hook("active")
}

func (e *scriptedEditor) ApplyTransform(flags scene.TransformFlags) error {
	if err := e.hook("apply"); err != nil {
		return err
	}
	return e.Scene.ApplyTransform(flags)
}

func (e *scriptedEditor) SetMode(m scene.Mode) error {
	if err := e.hook("mode-" + m.String()); err != nil {
		return err
	}
	return e.Scene.SetMode(m)
}

func (e *scriptedEditor) SelectAll(action scene.SelectAction) error {
	if err := e.hook("select"); err != nil {
		return err
	}
	return e.Scene.SelectAll(action)
}

func (e *scriptedEditor) SnapCursorToSelected() error {
	if err := e.hook("snap"); err != nil {
		return err
	}
	err := e.Scene.SnapCursorToSelected()
	if err == nil {
		e.snaps[e.Active().Name] = e.Cursor()
	}
	return err
}

func (e *scriptedEditor) SetOrigin(typ scene.OriginType, center scene.CenterMode) error {
	if err := e.hook("origin"); err != nil {
		return err
	}
	return e.Scene.SetOrigin(typ, center)
}

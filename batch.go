package penfix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/soypat/penfix/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Policy decides what a batch does when an object fails.
type Policy uint8

const (
	// FailFast aborts the batch on the first failure. Objects processed
	// before the failure stay modified.
	FailFast Policy = iota
	// BestEffort records each failure and continues with the next object.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case BestEffort:
		return "best-effort"
	}
	return "unknown policy"
}

// ParsePolicy parses the result of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "fail-fast", "":
		return FailFast, nil
	case "best-effort":
		return BestEffort, nil
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}

// Status is the outcome of processing one selected object.
type Status uint8

const (
	StatusDone Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown status"
}

// Result records what happened to one selected object.
type Result struct {
	Object *scene.Object
	Status Status
	// Factor is the scale factor applied. Zero unless Status is StatusDone.
	Factor float64
	// Dimensions after processing.
	Dimensions r3.Vec
	Err        error
}

// Report lists the results of a batch in processing order. Objects
// not reached because of a fail-fast abort have no result.
type Report struct {
	Results []Result
}

// Count returns the number of results with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the results that failed.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Batch runs a Normalizer over every selected mesh object.
type Batch struct {
	Normalizer Normalizer
	Policy     Policy
	// Log receives per-object progress. May be nil.
	Log *log.Logger
}

// Run normalizes the selected mesh objects of ed in selection order.
// Objects of other kinds are skipped and left untouched.
//
// With FailFast the first error stops the batch and is returned along
// with the results so far. With BestEffort every failure, including
// panics, is recorded and the returned error joins all of them.
func (b Batch) Run(ed Editor) (Report, error) {
	var (
		report Report
		errs   []error
	)
	for _, obj := range ed.SelectedObjects() {
		if obj.Kind != scene.KindMesh {
			b.debug("skip", "object", obj.Name, "kind", obj.Kind)
			report.Results = append(report.Results, Result{Object: obj, Status: StatusSkipped})
			continue
		}
		var (
			factor float64
			err    error
		)
		if b.Policy == BestEffort {
			factor, err = b.recoverNormalize(ed, obj)
		} else {
			factor, err = b.Normalizer.Normalize(ed, obj)
		}
		res := Result{Object: obj, Factor: factor, Dimensions: obj.Dimensions()}
		if err != nil {
			res.Status = StatusFailed
			res.Factor = 0
			res.Err = err
			report.Results = append(report.Results, res)
			if b.Log != nil {
				b.Log.Warn("normalize failed", "object", obj.Name, "err", err)
			}
			if b.Policy != BestEffort {
				return report, fmt.Errorf("normalize %q: %w", obj.Name, err)
			}
			errs = append(errs, fmt.Errorf("normalize %q: %w", obj.Name, err))
			// Leave the editor ready for the next object.
			_ = ed.SetMode(scene.ModeObject)
			continue
		}
		res.Status = StatusDone
		report.Results = append(report.Results, res)
		b.debug("fixed", "object", obj.Name, "factor", factor, "dims", res.Dimensions)
	}
	return report, errors.Join(errs...)
}

func (b Batch) recoverNormalize(ed Editor, obj *scene.Object) (factor float64, err error) {
	defer func() {
		if a := recover(); a != nil {
			factor = 0
			err = fmt.Errorf("panic: %v", a)
		}
	}()
	return b.Normalizer.Normalize(ed, obj)
}

func (b Batch) debug(msg string, keyvals ...interface{}) {
	if b.Log != nil {
		b.Log.Debug(msg, keyvals...)
	}
}

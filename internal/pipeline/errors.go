package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a step of the conversion pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageExtract  Stage = "extract"
	StageClassify Stage = "classify"
	StageWrite    Stage = "write"
)

// ErrNoSource is returned when Convert is called without a token source.
var ErrNoSource = errors.New("no token source")

// StageError reports which stage of a run failed. Outputs completed before
// the failure are left in place and must be treated as unreliable.
type StageError struct {
	Err   error
	Stage Stage
	Path  string // Artifact being written, if any
	Page  int    // 1-based page, 0 when not page specific
}

func (e *StageError) Error() string {
	switch {
	case e.Page > 0:
		return fmt.Sprintf("%s failed on page %d: %v", e.Stage, e.Page, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage that produced err, if err came from the pipeline.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

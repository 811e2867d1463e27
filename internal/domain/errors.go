package domain

import (
	"errors"
	"fmt"
)

// ErrPlanNotFound signals that no plan exists yet; the caller should run
// propose first.
var ErrPlanNotFound = errors.New("no migration plan found (run `twmigrate propose` first)")

// ErrCheckpointNotFound signals that no checkpoint exists for this plan.
var ErrCheckpointNotFound = errors.New("no migration checkpoint found")

// SchemaError reports a plan file this build cannot read: wrong version
// or malformed JSON.
type SchemaError struct {
	Path    string
	Version int
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plan %s is malformed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("plan %s has unsupported version %d (want %d)", e.Path, e.Version, PlanVersion)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IntegrityError reports a checkpoint bound to a different plan than the
// one currently on disk. The checkpoint must be discarded.
type IntegrityError struct {
	CheckpointHash string
	PlanHash       string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("checkpoint is bound to plan %s but current plan is %s; discard the checkpoint and re-run without --continue",
		e.CheckpointHash, e.PlanHash)
}

// TargetLocationError reports that a transformation could not find its
// target text. This is the expected failure mode when source has drifted
// since the plan was generated; it fails the step, never the run.
type TargetLocationError struct {
	File   string
	Line   int
	Target string
}

func (e *TargetLocationError) Error() string {
	return fmt.Sprintf("could not locate %q at %s line %d (source may have changed since the plan was created)",
		e.Target, e.File, e.Line)
}

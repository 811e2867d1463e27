package domain

import "time"

// MigrationCheckpoint records which steps of a specific plan have been
// processed. It is only meaningful while PlanHash matches the hash of the
// plan currently on disk; any mismatch invalidates it.
type MigrationCheckpoint struct {
	PlanPath       string    `json:"planPath"`
	PlanHash       string    `json:"planHash"`
	CompletedSteps []string  `json:"completedSteps"`
	FailedSteps    []string  `json:"failedSteps"`
	SkippedSteps   []string  `json:"skippedSteps"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// NewCheckpoint returns an empty checkpoint bound to the given plan.
func NewCheckpoint(planPath, planHash string) *MigrationCheckpoint {
	return &MigrationCheckpoint{
		PlanPath:       planPath,
		PlanHash:       planHash,
		CompletedSteps: []string{},
		FailedSteps:    []string{},
		SkippedSteps:   []string{},
	}
}

// BoundTo reports whether the checkpoint was recorded against the given
// plan hash.
func (c *MigrationCheckpoint) BoundTo(planHash string) bool {
	return c.PlanHash == planHash
}

// IsCompleted reports whether the step already completed in an earlier run.
func (c *MigrationCheckpoint) IsCompleted(stepID string) bool {
	return containsString(c.CompletedSteps, stepID)
}

// MarkCompleted records a step as applied, removing it from the failed
// and skipped sets if a retry succeeded.
func (c *MigrationCheckpoint) MarkCompleted(stepID string) {
	c.FailedSteps = removeString(c.FailedSteps, stepID)
	c.SkippedSteps = removeString(c.SkippedSteps, stepID)
	c.CompletedSteps = appendUnique(c.CompletedSteps, stepID)
}

// MarkFailed records a step as failed.
func (c *MigrationCheckpoint) MarkFailed(stepID string) {
	c.CompletedSteps = removeString(c.CompletedSteps, stepID)
	c.FailedSteps = appendUnique(c.FailedSteps, stepID)
}

// MarkSkipped records a step as skipped.
func (c *MigrationCheckpoint) MarkSkipped(stepID string) {
	if containsString(c.CompletedSteps, stepID) {
		return
	}
	c.SkippedSteps = appendUnique(c.SkippedSteps, stepID)
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func appendUnique(set []string, s string) []string {
	if containsString(set, s) {
		return set
	}
	return append(set, s)
}

func removeString(set []string, s string) []string {
	out := set[:0]
	for _, v := range set {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

package domain

// Terminal statuses for one executed step. Pending appears only in
// preview runs, where nothing is written.
const (
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// DiffStat counts characters removed and added by one step's edit.
type DiffStat struct {
	Removed int `json:"removed"`
	Added   int `json:"added"`
}

// StepResult is the outcome of one executed step. Once written to a
// report the status is terminal.
type StepResult struct {
	StepID string    `json:"stepId"`
	Status string    `json:"status"`
	File   string    `json:"file"`
	Action string    `json:"action"`
	Error  string    `json:"error,omitempty"`
	Diff   *DiffStat `json:"diff,omitempty"`
}

// MigrationReport is the aggregate outcome of one migrate invocation.
type MigrationReport struct {
	RunID        string       `json:"runId"`
	PlanHash     string       `json:"planHash"`
	Applied      bool         `json:"applied"`
	Total        int          `json:"total"`
	AppliedCount int          `json:"appliedCount"`
	SkippedCount int          `json:"skippedCount"`
	FailedCount  int          `json:"failedCount"`
	PendingCount int          `json:"pendingCount"`
	Results      []StepResult        `json:"results"`
	FilesChanged []string            `json:"filesChanged,omitempty"`
	DiffByFile   map[string]DiffStat `json:"diffByFile,omitempty"`
	Diagnostics  []string            `json:"diagnostics,omitempty"`
	NextSteps    []string            `json:"nextSteps,omitempty"`
}

// Tally recomputes the aggregate counts and per-file diff totals from
// the per-step results.
func (r *MigrationReport) Tally() {
	r.Total = len(r.Results)
	r.AppliedCount, r.SkippedCount, r.FailedCount, r.PendingCount = 0, 0, 0, 0
	r.DiffByFile = nil
	for _, res := range r.Results {
		switch res.Status {
		case StatusApplied:
			r.AppliedCount++
		case StatusSkipped:
			r.SkippedCount++
		case StatusFailed:
			r.FailedCount++
		case StatusPending:
			r.PendingCount++
		}
		if res.Diff != nil {
			if r.DiffByFile == nil {
				r.DiffByFile = make(map[string]DiffStat)
			}
			stat := r.DiffByFile[res.File]
			stat.Removed += res.Diff.Removed
			stat.Added += res.Diff.Added
			r.DiffByFile[res.File] = stat
		}
	}
}

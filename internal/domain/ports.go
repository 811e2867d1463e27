package domain

import "github.com/twmigrate/twmigrate/internal/domain/transform"

// PlanStore persists and reloads the migration plan artifact.
type PlanStore interface {
	SavePlan(plan *MigrationPlan) error
	// LoadPlan returns the plan and the content hash of its serialized
	// bytes, used for checkpoint binding.
	LoadPlan() (*MigrationPlan, string, error)
	PlanPath() string
}

// CheckpointStore persists resumability state for the current plan.
type CheckpointStore interface {
	// LoadCheckpoint returns (nil, nil) when no checkpoint exists.
	LoadCheckpoint() (*MigrationCheckpoint, error)
	SaveCheckpoint(checkpoint *MigrationCheckpoint) error
	DiscardCheckpoint() error
	CheckpointPath() string
}

// SourceFiles is the atomic file I/O collaborator for mutated sources.
type SourceFiles interface {
	Read(path string) ([]byte, error)
	// WriteAtomic writes via temp file + rename, preserving permissions.
	WriteAtomic(path string, data []byte) error
	// Backup copies the on-disk file to "<path>.bak".
	Backup(path string) error
}

// StylesheetWriter appends the run's batched side effects to the shared
// stylesheet.
type StylesheetWriter interface {
	AppendBatch(tokens []transform.TokenDecl, utilities []transform.UtilityDecl) error
}

// IndexRebuilder refreshes the downstream token/pattern index. Rebuild
// failures are non-fatal to a migration run.
type IndexRebuilder interface {
	Rebuild() error
}

// Answer is a response to an interactive step confirmation.
type Answer int

const (
	AnswerYes Answer = iota
	AnswerNo
	AnswerAll
	AnswerQuit
)

// Prompter is an interactive confirmation session scoped to one run; the
// orchestrator closes it on every exit path.
type Prompter interface {
	Confirm(step MigrationStep) (Answer, error)
	Close() error
}

// StagedFileLister reports files staged in the project's git index.
type StagedFileLister interface {
	StagedFiles(projectPath string) ([]string, error)
}

package application

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/twmigrate/twmigrate/internal/domain"
	"github.com/twmigrate/twmigrate/internal/domain/transform"
)

// MigrateService is the execution orchestrator: it drives scheduled
// steps strictly sequentially against an in-memory per-file buffer
// cache, defers all writes to the end of the run, and records progress
// in a checkpoint bound to the plan's content hash.
type MigrateService struct {
	plans       domain.PlanStore
	checkpoints domain.CheckpointStore
	files       domain.SourceFiles
	stylesheet  domain.StylesheetWriter
	indexer     domain.IndexRebuilder
	prompter    domain.Prompter
	projectPath string
}

// NewMigrateService creates a MigrateService. indexer may be nil when no
// downstream index exists; prompter may be nil for non-interactive runs.
func NewMigrateService(
	plans domain.PlanStore,
	checkpoints domain.CheckpointStore,
	files domain.SourceFiles,
	stylesheet domain.StylesheetWriter,
	indexer domain.IndexRebuilder,
	prompter domain.Prompter,
	projectPath string,
) *MigrateService {
	return &MigrateService{
		plans:       plans,
		checkpoints: checkpoints,
		files:       files,
		stylesheet:  stylesheet,
		indexer:     indexer,
		prompter:    prompter,
		projectPath: projectPath,
	}
}

// MigrateOptions controls one migrate run. Apply is the single
// authoritative mutation flag; callers reconcile any legacy dry-run
// spelling before it reaches this service.
type MigrateOptions struct {
	Apply       bool
	Continue    bool
	Interactive bool
	Backup      bool
	IncludeIDs  []string
	SkipIDs     []string
	File        string
}

// fileBuffer caches one file's content for the duration of a run. Every
// step targeting the same file mutates this buffer, never a fresh read.
type fileBuffer struct {
	display  string
	original string
	content  string
	backedUp bool
	stepIDs  []string
}

// Run executes the scheduled subset of the current plan.
func (s *MigrateService) Run(opts MigrateOptions) (*domain.MigrationReport, error) {
	if s.prompter != nil {
		defer s.prompter.Close()
	}

	plan, planHash, err := s.plans.LoadPlan()
	if err != nil {
		return nil, err
	}

	checkpoint, err := s.loadCheckpoint(planHash, opts)
	if err != nil {
		return nil, err
	}

	var completed func(string) bool
	if opts.Continue {
		completed = checkpoint.IsCompleted
	}
	scheduled, diagnostics := domain.ScheduleSteps(plan.Steps, domain.ScheduleOptions{
		IncludeIDs: opts.IncludeIDs,
		SkipIDs:    opts.SkipIDs,
		File:       opts.File,
		Completed:  completed,
	})

	report := &domain.MigrationReport{
		RunID:       uuid.NewString(),
		PlanHash:    planHash,
		Applied:     opts.Apply,
		Diagnostics: diagnostics,
	}

	run := &runState{
		buffers:    make(map[string]*fileBuffer),
		failed:     make(map[string]bool),
		skipped:    make(map[string]bool),
		checkpoint: checkpoint,
	}
	// Prior failures block dependents on resumed runs too.
	if opts.Continue {
		for _, id := range checkpoint.FailedSteps {
			run.failed[id] = true
		}
	}

	s.executeSteps(scheduled, opts, run, report)

	if opts.Apply {
		if err := s.commit(run, report); err != nil {
			return report, err
		}
	}

	report.Tally()
	if report.FailedCount > 0 {
		report.NextSteps = append(report.NextSteps,
			"Retry failed steps with `twmigrate migrate --continue --apply`.",
			"Re-run the analysis to confirm which violations remain.")
	}
	return report, nil
}

type runState struct {
	buffers    map[string]*fileBuffer
	failed     map[string]bool
	skipped    map[string]bool
	checkpoint *domain.MigrationCheckpoint
	tokens     []transform.TokenDecl
	utilities  []transform.UtilityDecl
}

func (s *MigrateService) loadCheckpoint(planHash string, opts MigrateOptions) (*domain.MigrationCheckpoint, error) {
	if opts.Continue {
		checkpoint, err := s.checkpoints.LoadCheckpoint()
		if err != nil {
			return nil, err
		}
		if checkpoint != nil {
			if !checkpoint.BoundTo(planHash) {
				return nil, &domain.IntegrityError{CheckpointHash: checkpoint.PlanHash, PlanHash: planHash}
			}
			return checkpoint, nil
		}
	}
	return domain.NewCheckpoint(s.plans.PlanPath(), planHash), nil
}

func (s *MigrateService) executeSteps(scheduled []domain.MigrationStep, opts MigrateOptions, run *runState, report *domain.MigrationReport) {
	applyAll := !opts.Interactive || s.prompter == nil

steps:
	for _, step := range scheduled {
		if blocked, reason := blockedDependency(step, run); blocked {
			s.recordSkip(step, reason, run, report)
			continue
		}

		if !applyAll {
			answer, err := s.prompter.Confirm(step)
			if err != nil {
				report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("confirmation failed: %v", err))
				break steps
			}
			switch answer {
			case domain.AnswerNo:
				s.recordSkip(step, "Skipped by user", run, report)
				continue
			case domain.AnswerQuit:
				break steps
			case domain.AnswerAll:
				applyAll = true
			}
		}

		s.executeStep(step, opts, run, report)
	}
}

func blockedDependency(step domain.MigrationStep, run *runState) (bool, string) {
	for _, dep := range step.DependsOn {
		if run.failed[dep] {
			return true, fmt.Sprintf("Dependency %s failed", dep)
		}
		if run.skipped[dep] {
			return true, fmt.Sprintf("Dependency %s was skipped", dep)
		}
	}
	return false, ""
}

func (s *MigrateService) executeStep(step domain.MigrationStep, opts MigrateOptions, run *runState, report *domain.MigrationReport) {
	buf, err := s.buffer(step.File, run)
	if err != nil {
		s.recordFailure(step, fmt.Sprintf("reading %s: %v", step.File, err), run, report)
		return
	}

	result, ok := dispatch(step, buf.content)
	if !ok {
		locErr := &domain.TargetLocationError{File: step.File, Line: step.Line, Target: step.Preview.Before}
		s.recordFailure(step, locErr.Error(), run, report)
		return
	}

	if opts.Apply && opts.Backup && !buf.backedUp {
		if err := s.files.Backup(s.resolvePath(step.File)); err != nil {
			report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("backup of %s failed: %v", step.File, err))
		}
	}
	buf.backedUp = true

	buf.content = result.Content
	buf.stepIDs = append(buf.stepIDs, step.ID)
	if result.Token != nil {
		run.tokens = append(run.tokens, *result.Token)
	}
	if result.Utility != nil {
		run.utilities = append(run.utilities, *result.Utility)
	}

	status := domain.StatusPending
	if opts.Apply {
		status = domain.StatusApplied
		run.checkpoint.MarkCompleted(step.ID)
	}
	report.Results = append(report.Results, domain.StepResult{
		StepID: step.ID,
		Status: status,
		File:   step.File,
		Action: step.Action.Describe(),
		Diff:   &domain.DiffStat{Removed: result.Removed, Added: result.Added},
	})
}

// dispatch routes a step to its transformation. The switch is
// exhaustive over the FixAction variants.
func dispatch(step domain.MigrationStep, content string) (transform.Result, bool) {
	switch a := step.Action.(type) {
	case domain.ReplaceAction:
		return transform.Replace(content, step.Line, step.Column, a.From, a.To)
	case domain.ExtractAction:
		return transform.Extract(content, step.Line, a.Pattern, a.UtilityName)
	case domain.TokenizeAction:
		return transform.Tokenize(content, step.Line, a.Value, a.TokenName)
	case domain.RemoveAction:
		return transform.Remove(content, step.Line, a.ClassName)
	default:
		return transform.Result{}, false
	}
}

// buffer returns the cached content for a file, reading it once per run.
func (s *MigrateService) buffer(file string, run *runState) (*fileBuffer, error) {
	abs := s.resolvePath(file)
	if buf, ok := run.buffers[abs]; ok {
		return buf, nil
	}
	data, err := s.files.Read(abs)
	if err != nil {
		return nil, err
	}
	buf := &fileBuffer{display: file, original: string(data), content: string(data)}
	run.buffers[abs] = buf
	return buf, nil
}

func (s *MigrateService) resolvePath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	abs, err := filepath.Abs(filepath.Join(s.projectPath, file))
	if err != nil {
		return filepath.Join(s.projectPath, file)
	}
	return abs
}

func (s *MigrateService) recordSkip(step domain.MigrationStep, reason string, run *runState, report *domain.MigrationReport) {
	run.skipped[step.ID] = true
	run.checkpoint.MarkSkipped(step.ID)
	report.Results = append(report.Results, domain.StepResult{
		StepID: step.ID,
		Status: domain.StatusSkipped,
		File:   step.File,
		Action: step.Action.Describe(),
		Error:  reason,
	})
}

func (s *MigrateService) recordFailure(step domain.MigrationStep, message string, run *runState, report *domain.MigrationReport) {
	run.failed[step.ID] = true
	run.checkpoint.MarkFailed(step.ID)
	report.Results = append(report.Results, domain.StepResult{
		StepID: step.ID,
		Status: domain.StatusFailed,
		File:   step.File,
		Action: step.Action.Describe(),
		Error:  message,
	})
}

// commit flushes changed buffers, appends batched stylesheet side
// effects, triggers the downstream index rebuild, and persists the
// checkpoint. A failed buffer write retroactively fails that file's
// steps; other files still commit.
func (s *MigrateService) commit(run *runState, report *domain.MigrationReport) error {
	paths := make([]string, 0, len(run.buffers))
	for abs := range run.buffers {
		paths = append(paths, abs)
	}
	sort.Strings(paths)

	for _, abs := range paths {
		buf := run.buffers[abs]
		if buf.content == buf.original {
			continue
		}
		if err := s.files.WriteAtomic(abs, []byte(buf.content)); err != nil {
			s.failBuffer(buf, err, run, report)
			continue
		}
		report.FilesChanged = append(report.FilesChanged, buf.display)
	}

	if len(run.tokens) > 0 || len(run.utilities) > 0 {
		if err := s.stylesheet.AppendBatch(run.tokens, run.utilities); err != nil {
			report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("appending stylesheet side effects failed: %v", err))
		}
	}

	if len(report.FilesChanged) > 0 && s.indexer != nil {
		if err := s.indexer.Rebuild(); err != nil {
			report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("index rebuild failed: %v", err))
		}
	}

	run.checkpoint.LastUpdated = time.Now().UTC()
	if err := s.checkpoints.SaveCheckpoint(run.checkpoint); err != nil {
		return fmt.Errorf("persisting checkpoint: %w", err)
	}
	return nil
}

func (s *MigrateService) failBuffer(buf *fileBuffer, writeErr error, run *runState, report *domain.MigrationReport) {
	for _, id := range buf.stepIDs {
		run.checkpoint.MarkFailed(id)
		for i := range report.Results {
			if report.Results[i].StepID == id {
				report.Results[i].Status = domain.StatusFailed
				report.Results[i].Error = fmt.Sprintf("writing %s: %v", buf.display, writeErr)
				report.Results[i].Diff = nil
			}
		}
	}
}

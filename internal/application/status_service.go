package application

import "github.com/twmigrate/twmigrate/internal/domain"

// StatusService reports where a migration stands without mutating
// anything.
type StatusService struct {
	plans       domain.PlanStore
	checkpoints domain.CheckpointStore
}

// NewStatusService creates a StatusService.
func NewStatusService(plans domain.PlanStore, checkpoints domain.CheckpointStore) *StatusService {
	return &StatusService{plans: plans, checkpoints: checkpoints}
}

// MigrationStatus summarizes the current plan and checkpoint.
type MigrationStatus struct {
	PlanPath        string          `json:"planPath"`
	PlanHash        string          `json:"planHash"`
	Strategy        domain.Strategy `json:"strategy"`
	TotalSteps      int             `json:"totalSteps"`
	Completed       int             `json:"completed"`
	Failed          int             `json:"failed"`
	Skipped         int             `json:"skipped"`
	Remaining       int             `json:"remaining"`
	HasCheckpoint   bool            `json:"hasCheckpoint"`
	CheckpointValid bool            `json:"checkpointValid"`
}

// Status loads the plan and checkpoint and computes remaining work. A
// checkpoint bound to a different plan is reported as invalid rather
// than an error; only migrate --continue treats that as fatal.
func (s *StatusService) Status() (*MigrationStatus, error) {
	plan, planHash, err := s.plans.LoadPlan()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{
		PlanPath:   s.plans.PlanPath(),
		PlanHash:   planHash,
		Strategy:   plan.Strategy,
		TotalSteps: len(plan.Steps),
		Remaining:  len(plan.Steps),
	}

	checkpoint, err := s.checkpoints.LoadCheckpoint()
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return status, nil
	}

	status.HasCheckpoint = true
	status.CheckpointValid = checkpoint.BoundTo(planHash)
	if !status.CheckpointValid {
		return status, nil
	}

	status.Completed = len(checkpoint.CompletedSteps)
	status.Failed = len(checkpoint.FailedSteps)
	status.Skipped = len(checkpoint.SkippedSteps)
	status.Remaining = status.TotalSteps - status.Completed
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	return status, nil
}

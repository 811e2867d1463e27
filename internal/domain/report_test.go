package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twmigrate/twmigrate/internal/domain"
)

func TestReportTally(t *testing.T) {
	report := &domain.MigrationReport{
		Results: []domain.StepResult{
			{StepID: "step-001", Status: domain.StatusApplied, File: "src/App.tsx", Diff: &domain.DiffStat{Removed: 11, Added: 14}},
			{StepID: "step-002", Status: domain.StatusApplied, File: "src/App.tsx", Diff: &domain.DiffStat{Removed: 13, Added: 26}},
			{StepID: "step-003", Status: domain.StatusApplied, File: "src/Nav.tsx", Diff: &domain.DiffStat{Removed: 5, Added: 0}},
			{StepID: "step-004", Status: domain.StatusFailed, File: "src/Nav.tsx"},
			{StepID: "step-005", Status: domain.StatusSkipped, File: "src/Nav.tsx"},
		},
	}

	report.Tally()

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 3, report.AppliedCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, 0, report.PendingCount)

	// per-file totals sum every step that produced a diff
	assert.Equal(t, domain.DiffStat{Removed: 24, Added: 40}, report.DiffByFile["src/App.tsx"])
	assert.Equal(t, domain.DiffStat{Removed: 5, Added: 0}, report.DiffByFile["src/Nav.tsx"])
}

func TestReportTally_NoDiffs(t *testing.T) {
	report := &domain.MigrationReport{
		Results: []domain.StepResult{
			{StepID: "step-001", Status: domain.StatusPending},
		},
	}

	report.Tally()

	assert.Equal(t, 1, report.PendingCount)
	assert.Nil(t, report.DiffByFile)
}

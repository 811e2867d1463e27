package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twmigrate/twmigrate/internal/domain"
)

func stepIDs(steps []domain.MigrationStep) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func TestScheduleSteps_DependencyPrecedesDependent(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001", DependsOn: []string{"step-003"}},
		{ID: "step-002"},
		{ID: "step-003"},
	}

	scheduled, diags := domain.ScheduleSteps(steps, domain.ScheduleOptions{})
	require.Empty(t, diags)
	assert.Equal(t, []string{"step-003", "step-001", "step-002"}, stepIDs(scheduled))
}

func TestScheduleSteps_FilteredDependencyIsSatisfied(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001", DependsOn: []string{"step-002"}},
		{ID: "step-002"},
	}

	scheduled, diags := domain.ScheduleSteps(steps, domain.ScheduleOptions{
		SkipIDs: []string{"step-002"},
	})
	require.Empty(t, diags)
	assert.Equal(t, []string{"step-001"}, stepIDs(scheduled))
}

func TestScheduleSteps_IncludeFilter(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001"},
		{ID: "step-002"},
		{ID: "step-003"},
	}

	scheduled, _ := domain.ScheduleSteps(steps, domain.ScheduleOptions{
		IncludeIDs: []string{"step-002"},
	})
	assert.Equal(t, []string{"step-002"}, stepIDs(scheduled))
}

func TestScheduleSteps_FileFilterMatchesSuffix(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001", File: "src/components/Button.tsx"},
		{ID: "step-002", File: "src/components/ButtonGroup.tsx"},
		{ID: "step-003", File: "Button.tsx"},
	}

	scheduled, _ := domain.ScheduleSteps(steps, domain.ScheduleOptions{File: "Button.tsx"})
	assert.Equal(t, []string{"step-001", "step-003"}, stepIDs(scheduled))
}

func TestScheduleSteps_CompletedStepsAreDropped(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001"},
		{ID: "step-002"},
	}
	done := map[string]bool{"step-001": true}

	scheduled, _ := domain.ScheduleSteps(steps, domain.ScheduleOptions{
		Completed: func(id string) bool { return done[id] },
	})
	assert.Equal(t, []string{"step-002"}, stepIDs(scheduled))
}

func TestScheduleSteps_CycleIsBrokenWithDiagnostic(t *testing.T) {
	steps := []domain.MigrationStep{
		{ID: "step-001", DependsOn: []string{"step-002"}},
		{ID: "step-002", DependsOn: []string{"step-001"}},
	}

	scheduled, diags := domain.ScheduleSteps(steps, domain.ScheduleOptions{})
	// every step still runs exactly once
	assert.ElementsMatch(t, []string{"step-001", "step-002"}, stepIDs(scheduled))
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "dependency cycle")
}

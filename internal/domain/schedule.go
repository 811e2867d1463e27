package domain

import (
	"fmt"
	"strings"
)

// ScheduleOptions narrows a plan's steps to the working set for one run.
type ScheduleOptions struct {
	// IncludeIDs keeps only the listed step ids when non-empty.
	IncludeIDs []string
	// SkipIDs drops the listed step ids.
	SkipIDs []string
	// File keeps only steps for the given file: exact path match or a
	// suffix match against "/<file>".
	File string
	// Completed drops steps already recorded by a checkpoint.
	Completed func(stepID string) bool
}

// ScheduleSteps filters a plan's steps and orders the survivors so that
// every declared dependency precedes its dependent. Dependencies that
// were filtered out of the working set are treated as satisfied. A cycle
// is broken at the point of re-entry rather than deadlocking; each break
// is reported as a diagnostic because it almost certainly means the plan
// builder produced a malformed graph.
func ScheduleSteps(steps []MigrationStep, opts ScheduleOptions) ([]MigrationStep, []string) {
	working := make(map[string]MigrationStep)
	order := make([]string, 0, len(steps))
	for _, s := range steps {
		if !admitsStep(s, opts) {
			continue
		}
		working[s.ID] = s
		order = append(order, s.ID)
	}

	var (
		scheduled   = make([]MigrationStep, 0, len(working))
		visited     = make(map[string]bool)
		visiting    = make(map[string]bool)
		diagnostics []string
	)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		if visiting[id] {
			diagnostics = append(diagnostics,
				fmt.Sprintf("dependency cycle broken at %s; check how the plan was generated", id))
			return
		}
		visiting[id] = true
		for _, dep := range working[id].DependsOn {
			if _, ok := working[dep]; ok {
				visit(dep)
			}
		}
		visiting[id] = false
		visited[id] = true
		scheduled = append(scheduled, working[id])
	}

	for _, id := range order {
		visit(id)
	}
	return scheduled, diagnostics
}

func admitsStep(s MigrationStep, opts ScheduleOptions) bool {
	if len(opts.IncludeIDs) > 0 && !containsString(opts.IncludeIDs, s.ID) {
		return false
	}
	if containsString(opts.SkipIDs, s.ID) {
		return false
	}
	if opts.File != "" && s.File != opts.File && !strings.HasSuffix(s.File, "/"+opts.File) {
		return false
	}
	if opts.Completed != nil && opts.Completed(s.ID) {
		return false
	}
	return true
}

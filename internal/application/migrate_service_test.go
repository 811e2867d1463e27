package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/fsio"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/stylesheet"
	"github.com/twmigrate/twmigrate/internal/application"
	"github.com/twmigrate/twmigrate/internal/domain"
)

const appSource = `<div className="bg-blue-500 p-4">
  <span className="text-[#ff6600] font-bold">Hi</span>
  <span className="text-[#ff6600]">Bye</span>
</div>
`

// appViolations covers the three action shapes the orchestrator routes:
// a palette replace, a token definition, and a deduped token reference
// that depends on the definition.
func appViolations() []domain.Violation {
	return []domain.Violation{
		{
			RuleID:    "tailwind/no-raw-palette",
			RuleKey:   "tailwind/no-raw-palette",
			Severity:  domain.SeverityError,
			FilePath:  "src/App.tsx",
			Line:      1,
			Column:    17,
			ClassName: "bg-blue-500",
		},
		{
			RuleID:    "tailwind/no-arbitrary-color",
			RuleKey:   "tailwind/no-arbitrary-color",
			Severity:  domain.SeverityWarn,
			FilePath:  "src/App.tsx",
			Line:      2,
			ClassName: "text-[#ff6600]",
			Context:   "brandAccent",
		},
		{
			RuleID:    "tailwind/no-arbitrary-color",
			RuleKey:   "tailwind/no-arbitrary-color",
			Severity:  domain.SeverityWarn,
			FilePath:  "src/App.tsx",
			Line:      3,
			ClassName: "text-[#ff6600]",
			Context:   "brandAccent",
		},
	}
}

type migrateFixture struct {
	dir    string
	store  *state.Store
	source string
}

func newMigrateFixture(t *testing.T) *migrateFixture {
	t.Helper()
	dir := t.TempDir()

	source := filepath.Join(dir, "src", "App.tsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	require.NoError(t, os.WriteFile(source, []byte(appSource), 0o644))

	store := state.New(dir, "")
	plan, err := application.BuildPlan(appViolations(), application.ProposeOptions{
		Strategy: domain.StrategyBalanced,
	})
	require.NoError(t, err)
	require.Len(t, plan.Steps, 3)
	require.NoError(t, store.SavePlan(plan))

	return &migrateFixture{dir: dir, store: store, source: source}
}

func (f *migrateFixture) service(prompter domain.Prompter) *application.MigrateService {
	return application.NewMigrateService(
		f.store,
		f.store,
		fsio.New(),
		stylesheet.New(filepath.Join(f.dir, "app.css")),
		nil,
		prompter,
		f.dir,
	)
}

func (f *migrateFixture) sourceContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.source)
	require.NoError(t, err)
	return string(data)
}

func TestMigrate_DryRunWritesNothing(t *testing.T) {
	f := newMigrateFixture(t)

	report, err := f.service(nil).Run(application.MigrateOptions{})
	require.NoError(t, err)

	assert.False(t, report.Applied)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.PendingCount)
	assert.Equal(t, appSource, f.sourceContent(t))

	checkpoint, err := f.store.LoadCheckpoint()
	require.NoError(t, err)
	assert.Nil(t, checkpoint)

	_, err = os.Stat(filepath.Join(f.dir, "app.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestMigrate_ApplyRewritesSourceAndStylesheet(t *testing.T) {
	f := newMigrateFixture(t)

	report, err := f.service(nil).Run(application.MigrateOptions{Apply: true, Backup: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.AppliedCount)
	assert.Equal(t, []string{"src/App.tsx"}, report.FilesChanged)

	require.Contains(t, report.DiffByFile, "src/App.tsx")
	assert.Greater(t, report.DiffByFile["src/App.tsx"].Removed, 0)
	assert.Greater(t, report.DiffByFile["src/App.tsx"].Added, 0)

	content := f.sourceContent(t)
	assert.Contains(t, content, "bg-(--primary)")
	assert.Contains(t, content, `text-(--color-brand-accent) font-bold`)
	assert.NotContains(t, content, "#ff6600")

	css, err := os.ReadFile(filepath.Join(f.dir, "app.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "@theme {")
	assert.Contains(t, string(css), "--color-brand-accent: #ff6600;")

	// one backup of the pre-run content
	bak, err := os.ReadFile(f.source + ".bak")
	require.NoError(t, err)
	assert.Equal(t, appSource, string(bak))

	checkpoint, err := f.store.LoadCheckpoint()
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.ElementsMatch(t, []string{"step-001", "step-002", "step-003"}, checkpoint.CompletedSteps)
}

func TestMigrate_ApplyIsIdempotent(t *testing.T) {
	f := newMigrateFixture(t)
	svc := f.service(nil)

	_, err := svc.Run(application.MigrateOptions{Apply: true})
	require.NoError(t, err)
	first := f.sourceContent(t)

	// second full run: every target is already migrated, so steps fail to
	// locate their targets (step-003 is blocked by its failed dependency)
	// and the file stays put
	report, err := svc.Run(application.MigrateOptions{Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.FailedCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, 0, report.AppliedCount)
	assert.Equal(t, first, f.sourceContent(t))
}

func TestMigrate_DriftFailsOnlyTheDriftedStep(t *testing.T) {
	f := newMigrateFixture(t)

	// the file changed since the plan was created: step-001's target is gone
	drifted := `<div className="bg-sky-300 p-4">
  <span className="text-[#ff6600] font-bold">Hi</span>
  <span className="text-[#ff6600]">Bye</span>
</div>
`
	require.NoError(t, os.WriteFile(f.source, []byte(drifted), 0o644))

	report, err := f.service(nil).Run(application.MigrateOptions{Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, 2, report.AppliedCount)

	var failed domain.StepResult
	for _, r := range report.Results {
		if r.Status == domain.StatusFailed {
			failed = r
		}
	}
	assert.Equal(t, "step-001", failed.StepID)
	assert.Contains(t, failed.Error, "could not locate")
	assert.Contains(t, failed.Error, "line 1")

	// sibling steps on the same file still landed
	content := f.sourceContent(t)
	assert.Contains(t, content, "bg-sky-300")
	assert.Contains(t, content, "text-(--color-brand-accent)")

	checkpoint, err := f.store.LoadCheckpoint()
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, []string{"step-001"}, checkpoint.FailedSteps)
	assert.ElementsMatch(t, []string{"step-002", "step-003"}, checkpoint.CompletedSteps)
}

func TestMigrate_FailedDependencyBlocksDependent(t *testing.T) {
	f := newMigrateFixture(t)

	// break step-002's target; step-003 depends on it
	broken := `<div className="bg-blue-500 p-4">
  <span className="text-[#ee5500] font-bold">Hi</span>
  <span className="text-[#ff6600]">Bye</span>
</div>
`
	require.NoError(t, os.WriteFile(f.source, []byte(broken), 0o644))

	report, err := f.service(nil).Run(application.MigrateOptions{Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.AppliedCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, 1, report.SkippedCount)

	for _, r := range report.Results {
		if r.StepID == "step-003" {
			assert.Equal(t, domain.StatusSkipped, r.Status)
			assert.Contains(t, r.Error, "Dependency step-002 failed")
		}
	}
}

func TestMigrate_ResumeSkipsCompletedSteps(t *testing.T) {
	f := newMigrateFixture(t)
	svc := f.service(nil)

	report, err := svc.Run(application.MigrateOptions{
		Apply:      true,
		IncludeIDs: []string{"step-001"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.AppliedCount)

	resumed, err := svc.Run(application.MigrateOptions{Apply: true, Continue: true})
	require.NoError(t, err)
	assert.Equal(t, 2, resumed.Total)
	assert.Equal(t, 2, resumed.AppliedCount)

	checkpoint, err := f.store.LoadCheckpoint()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"step-001", "step-002", "step-003"}, checkpoint.CompletedSteps)

	content := f.sourceContent(t)
	assert.Contains(t, content, "bg-(--primary)")
	assert.NotContains(t, content, "#ff6600")
}

func TestMigrate_ContinueRejectsStaleCheckpoint(t *testing.T) {
	f := newMigrateFixture(t)
	svc := f.service(nil)

	_, err := svc.Run(application.MigrateOptions{Apply: true, IncludeIDs: []string{"step-001"}})
	require.NoError(t, err)

	// a new propose run replaces the plan; the old checkpoint no longer binds
	plan, err := application.BuildPlan(appViolations()[:1], application.ProposeOptions{
		Strategy: domain.StrategyBalanced,
	})
	require.NoError(t, err)
	require.NoError(t, f.store.SavePlan(plan))

	_, err = svc.Run(application.MigrateOptions{Apply: true, Continue: true})
	var integrity *domain.IntegrityError
	require.ErrorAs(t, err, &integrity)
}

type scriptedPrompter struct {
	answers []domain.Answer
	asked   []string
	closed  bool
}

func (p *scriptedPrompter) Confirm(step domain.MigrationStep) (domain.Answer, error) {
	p.asked = append(p.asked, step.ID)
	if len(p.answers) == 0 {
		return domain.AnswerQuit, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Close() error {
	p.closed = true
	return nil
}

func TestMigrate_InteractiveQuitPreservesProgress(t *testing.T) {
	f := newMigrateFixture(t)
	prompter := &scriptedPrompter{answers: []domain.Answer{domain.AnswerYes, domain.AnswerQuit}}

	report, err := f.service(prompter).Run(application.MigrateOptions{
		Apply:       true,
		Interactive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"step-001", "step-002"}, prompter.asked)
	assert.True(t, prompter.closed)
	assert.Equal(t, 1, report.AppliedCount)
	assert.Equal(t, 1, report.Total)

	checkpoint, err := f.store.LoadCheckpoint()
	require.NoError(t, err)
	require.NotNil(t, checkpoint)
	assert.Equal(t, []string{"step-001"}, checkpoint.CompletedSteps)

	content := f.sourceContent(t)
	assert.Contains(t, content, "bg-(--primary)")
	assert.Contains(t, content, "#ff6600")
}

func TestMigrate_InteractiveNoSkipsStep(t *testing.T) {
	f := newMigrateFixture(t)
	prompter := &scriptedPrompter{answers: []domain.Answer{
		domain.AnswerYes, domain.AnswerNo, domain.AnswerYes,
	}}

	report, err := f.service(prompter).Run(application.MigrateOptions{
		Apply:       true,
		Interactive: true,
	})
	require.NoError(t, err)

	// step-003 depends on the declined step-002, so it is blocked before
	// any prompt
	assert.Equal(t, []string{"step-001", "step-002"}, prompter.asked)
	assert.Equal(t, 1, report.AppliedCount)
	assert.Equal(t, 2, report.SkippedCount)
}

func TestMigrate_InteractiveAllStopsPrompting(t *testing.T) {
	f := newMigrateFixture(t)
	prompter := &scriptedPrompter{answers: []domain.Answer{domain.AnswerAll}}

	report, err := f.service(prompter).Run(application.MigrateOptions{
		Apply:       true,
		Interactive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"step-001"}, prompter.asked)
	assert.Equal(t, 3, report.AppliedCount)
}

func TestMigrate_NoPlan(t *testing.T) {
	dir := t.TempDir()
	store := state.New(dir, "")
	svc := application.NewMigrateService(store, store, fsio.New(), stylesheet.New(filepath.Join(dir, "app.css")), nil, nil, dir)

	_, err := svc.Run(application.MigrateOptions{})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

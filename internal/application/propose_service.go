package application

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/twmigrate/twmigrate/internal/domain"
	"github.com/twmigrate/twmigrate/internal/domain/transform"
)

// ProposeService is the plan builder: it turns a violation stream into a
// persisted, dependency-ordered migration plan.
type ProposeService struct {
	plans  domain.PlanStore
	staged domain.StagedFileLister
}

// NewProposeService creates a ProposeService. staged may be nil when
// staged-file filtering is unavailable (not a git repository).
func NewProposeService(plans domain.PlanStore, staged domain.StagedFileLister) *ProposeService {
	return &ProposeService{plans: plans, staged: staged}
}

// ProposeOptions controls one propose run.
type ProposeOptions struct {
	Strategy   domain.Strategy
	Include    []string
	Exclude    []string
	MaxChanges int
	// Preview skips persisting the plan.
	Preview bool
	// StagedOnly keeps only violations in files staged in git.
	StagedOnly  bool
	ProjectPath string
}

// Propose builds a plan from the violations and persists it unless the
// caller asked for a preview.
func (s *ProposeService) Propose(violations []domain.Violation, opts ProposeOptions) (*domain.MigrationPlan, error) {
	if opts.StagedOnly {
		if s.staged == nil {
			return nil, fmt.Errorf("staged-file filtering requires a git repository")
		}
		stagedFiles, err := s.staged.StagedFiles(opts.ProjectPath)
		if err != nil {
			return nil, fmt.Errorf("listing staged files: %w", err)
		}
		violations = filterStaged(violations, stagedFiles)
	}

	plan, err := BuildPlan(violations, opts)
	if err != nil {
		return nil, err
	}

	if !opts.Preview {
		if err := s.plans.SavePlan(plan); err != nil {
			return nil, fmt.Errorf("persisting plan: %w", err)
		}
	}
	return plan, nil
}

// BuildPlan runs the planning pipeline: rule filters, per-file cap,
// action resolution, strategy gate, contiguous re-indexing, dependency
// edges, summary.
func BuildPlan(violations []domain.Violation, opts ProposeOptions) (*domain.MigrationPlan, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = domain.StrategyBalanced
	}
	gate, err := domain.GateFor(strategy)
	if err != nil {
		return nil, err
	}

	filtered := filterRules(violations, opts.Include, opts.Exclude)
	capped := capPerFile(filtered, opts.MaxChanges)

	// Resolve and gate. Ids are assigned only after the gate so the
	// surviving steps are contiguous; dependency edges are computed
	// after that, never against provisional ids.
	var steps []domain.MigrationStep
	for _, v := range capped {
		res, ok := domain.ResolveAction(v)
		if !ok {
			continue
		}
		if !gate.Admits(res.Confidence, v.Severity) {
			continue
		}
		steps = append(steps, domain.MigrationStep{
			File:       v.FilePath,
			Line:       v.Line,
			Column:     v.Column,
			RuleID:     v.RuleID,
			Severity:   v.Severity,
			Action:     res.Action,
			Confidence: res.Confidence,
			Preview:    res.Action.Preview(),
		})
	}
	dedupeTokens(steps)
	for i := range steps {
		steps[i].ID = domain.StepID(i + 1)
	}
	linkDependencies(steps)

	plan := &domain.MigrationPlan{
		Version:   domain.PlanVersion,
		CreatedAt: time.Now().UTC(),
		Strategy:  strategy,
		Config: domain.PlanConfig{
			Include:    opts.Include,
			Exclude:    opts.Exclude,
			MaxChanges: opts.MaxChanges,
		},
		Steps:   steps,
		Summary: summarize(violations, steps),
	}
	return plan, nil
}

func filterRules(violations []domain.Violation, include, exclude []string) []domain.Violation {
	out := make([]domain.Violation, 0, len(violations))
	for _, v := range violations {
		if len(include) > 0 && !matchesRule(v.RuleKey, include) {
			continue
		}
		if matchesRule(v.RuleKey, exclude) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesRule(ruleKey string, keys []string) bool {
	for _, k := range keys {
		if ruleKey == k || domain.ShortRuleKey(ruleKey) == k {
			return true
		}
	}
	return false
}

// capPerFile keeps at most maxChanges violations per file, highest
// severity first, preserving file order and within-severity order.
func capPerFile(violations []domain.Violation, maxChanges int) []domain.Violation {
	if maxChanges <= 0 {
		return violations
	}

	byFile := make(map[string][]domain.Violation)
	var fileOrder []string
	for _, v := range violations {
		if _, ok := byFile[v.FilePath]; !ok {
			fileOrder = append(fileOrder, v.FilePath)
		}
		byFile[v.FilePath] = append(byFile[v.FilePath], v)
	}

	var out []domain.Violation
	for _, file := range fileOrder {
		group := byFile[file]
		sort.SliceStable(group, func(i, j int) bool {
			return domain.SeverityRank(group[i].Severity) < domain.SeverityRank(group[j].Severity)
		})
		if len(group) > maxChanges {
			group = group[:maxChanges]
		}
		out = append(out, group...)
	}
	return out
}

// dedupeTokens keeps the first Tokenize step per token name as the
// definer and turns later occurrences of the same token into plain
// replaces that reference it. Those replaces then pick up a dependency
// edge on the definer in linkDependencies.
func dedupeTokens(steps []domain.MigrationStep) {
	defined := make(map[string]bool)
	for i := range steps {
		a, ok := steps[i].Action.(domain.TokenizeAction)
		if !ok {
			continue
		}
		if !defined[a.TokenName] {
			defined[a.TokenName] = true
			continue
		}
		steps[i].Action = domain.ReplaceAction{
			From: a.Value,
			To:   transform.TokenRef(a.Value, a.TokenName),
		}
		steps[i].Preview = steps[i].Action.Preview()
	}
}

// linkDependencies records an edge from every Replace step whose target
// text references a token to the Tokenize step defining that token.
func linkDependencies(steps []domain.MigrationStep) {
	definers := make(map[string]string)
	for _, s := range steps {
		if a, ok := s.Action.(domain.TokenizeAction); ok {
			definers[a.TokenName] = s.ID
		}
	}
	if len(definers) == 0 {
		return
	}

	for i := range steps {
		a, ok := steps[i].Action.(domain.ReplaceAction)
		if !ok {
			continue
		}
		var deps []string
		for token, id := range definers {
			if id != steps[i].ID && strings.Contains(a.To, token) {
				deps = append(deps, id)
			}
		}
		sort.Strings(deps)
		steps[i].DependsOn = deps
	}
}

func summarize(all []domain.Violation, steps []domain.MigrationStep) domain.PlanSummary {
	summary := domain.PlanSummary{
		TotalViolations:       len(all),
		AddressableViolations: len(steps),
		ByRule:                make(map[string]int),
		BySeverity:            make(map[string]int),
	}
	files := make(map[string]bool)
	for _, s := range steps {
		files[s.File] = true
		summary.ByRule[domain.ShortRuleKey(s.RuleID)]++
		summary.BySeverity[s.Severity]++
	}
	summary.FilesAffected = len(files)
	return summary
}

func filterStaged(violations []domain.Violation, stagedFiles []string) []domain.Violation {
	staged := make(map[string]bool, len(stagedFiles))
	for _, f := range stagedFiles {
		staged[f] = true
	}
	out := make([]domain.Violation, 0, len(violations))
	for _, v := range violations {
		if staged[v.FilePath] || stagedSuffixMatch(stagedFiles, v.FilePath) {
			out = append(out, v)
		}
	}
	return out
}

// stagedSuffixMatch tolerates violations reporting project-absolute
// paths while git reports repo-relative ones.
func stagedSuffixMatch(stagedFiles []string, path string) bool {
	for _, f := range stagedFiles {
		if strings.HasSuffix(path, "/"+f) {
			return true
		}
	}
	return false
}

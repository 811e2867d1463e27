package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// PlanVersion is the only plan schema version this build understands.
const PlanVersion = 1

// Strategy names the confidence/severity gate applied when turning
// violations into steps.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
)

// StrategyGate is the concrete filter behind a strategy name.
type StrategyGate struct {
	MinConfidence     float64
	AllowedSeverities []string
}

var strategyTable = map[Strategy]StrategyGate{
	StrategyConservative: {MinConfidence: 0.90, AllowedSeverities: []string{SeverityError}},
	StrategyBalanced:     {MinConfidence: 0.70, AllowedSeverities: []string{SeverityError, SeverityWarn}},
	StrategyAggressive:   {MinConfidence: 0.50, AllowedSeverities: []string{SeverityError, SeverityWarn, SeverityInfo}},
}

// GateFor returns the gate for a strategy name.
func GateFor(s Strategy) (StrategyGate, error) {
	gate, ok := strategyTable[s]
	if !ok {
		return StrategyGate{}, fmt.Errorf("unknown strategy %q (valid: conservative, balanced, aggressive)", s)
	}
	return gate, nil
}

// Admits reports whether a step with the given confidence and severity
// passes this gate.
func (g StrategyGate) Admits(confidence float64, severity string) bool {
	if confidence < g.MinConfidence {
		return false
	}
	for _, s := range g.AllowedSeverities {
		if s == severity {
			return true
		}
	}
	return false
}

// PlanConfig records the filters the plan was built with.
type PlanConfig struct {
	Include    []string `json:"include,omitempty"`
	Exclude    []string `json:"exclude,omitempty"`
	MaxChanges int      `json:"maxChanges,omitempty"`
}

// Preview holds the before/after texts shown for one step.
type Preview struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// MigrationStep is one planned, independently trackable source edit.
type MigrationStep struct {
	ID         string    `json:"id"`
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Column     int       `json:"column"`
	RuleID     string    `json:"ruleId"`
	Severity   string    `json:"severity"`
	Action     FixAction `json:"-"`
	Confidence float64   `json:"confidence"`
	Preview    Preview   `json:"preview"`
	DependsOn  []string  `json:"dependsOn,omitempty"`
}

// PlanSummary aggregates what the plan covers.
type PlanSummary struct {
	TotalViolations       int            `json:"totalViolations"`
	AddressableViolations int            `json:"addressableViolations"`
	FilesAffected         int            `json:"filesAffected"`
	ByRule                map[string]int `json:"byRule"`
	BySeverity            map[string]int `json:"bySeverity"`
}

// MigrationPlan is the persisted unit of work. It is immutable once
// written; a new propose run replaces it wholesale.
type MigrationPlan struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	Strategy  Strategy        `json:"strategy"`
	Config    PlanConfig      `json:"config"`
	Steps     []MigrationStep `json:"steps"`
	Summary   PlanSummary     `json:"summary"`
}

// Step returns the step with the given id, if present.
func (p *MigrationPlan) Step(id string) (MigrationStep, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return MigrationStep{}, false
}

// StepID formats a 1-based step index as "step-NNN".
func StepID(n int) string {
	return fmt.Sprintf("step-%03d", n)
}

// HashPlan computes the content hash binding checkpoints to a plan:
// SHA-256 over the exact serialized bytes, truncated and prefixed. It
// identifies a byte-level serialization, not semantic equivalence.
func HashPlan(serialized []byte) string {
	sum := sha256.Sum256(serialized)
	return "sha256:" + hex.EncodeToString(sum[:])[:16]
}

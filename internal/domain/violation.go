package domain

import "strings"

// Severity levels reported by the lint engine.
const (
	SeverityError = "error"
	SeverityWarn  = "warn"
	SeverityInfo  = "info"
)

// SeverityRank orders severities for sorting: error < warn < info.
// Unknown severities sort last.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityError:
		return 0
	case SeverityWarn:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// Violation is one finding from the lint engine. Violations arrive
// pre-extracted; twmigrate never parses source syntax itself.
type Violation struct {
	RuleID    string `json:"ruleId"`
	RuleKey   string `json:"ruleKey"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	FilePath  string `json:"filePath"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	ClassName string `json:"className,omitempty"`
	Note      string `json:"note,omitempty"`
	Context   string `json:"context,omitempty"`
}

// ShortRuleKey strips a scope prefix ("tailwind/no-raw-palette" →
// "no-raw-palette") for summary grouping.
func ShortRuleKey(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

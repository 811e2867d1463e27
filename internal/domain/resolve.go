package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/twmigrate/twmigrate/internal/domain/transform"
)

// Base confidence per action kind. Penalties below are subtracted, then
// the result is clamped to [0,1]. These values are a contract: plans must
// stay comparable across runs, so they never vary per input.
const (
	baseReplaceWithToken = 0.95
	baseReplacePlain     = 0.85
	baseTokenize         = 0.70
	baseExtract          = 0.65
	baseRemove           = 0.90

	penaltyConditional = 0.20
	penaltyCompound    = 0.10
)

// Resolution is a typed fix action plus the confidence the pipeline has
// in applying it automatically.
type Resolution struct {
	Action     FixAction
	Confidence float64
}

// ResolveAction maps one violation to at most one fix action. Rules with
// no safe auto-fix (missing-comment, complexity, non-literal-classname,
// parse-error) resolve to nothing; they still count toward plan totals.
func ResolveAction(v Violation) (Resolution, bool) {
	action := resolveKind(v)
	if action == nil {
		return Resolution{}, false
	}

	confidence := baseConfidence(action)
	if strings.ContainsAny(v.ClassName, "?:") {
		confidence -= penaltyConditional
	}
	if len(strings.Fields(v.ClassName)) > 3 {
		confidence -= penaltyCompound
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Resolution{Action: action, Confidence: confidence}, true
}

func resolveKind(v Violation) FixAction {
	switch normalizeRuleKey(v.RuleKey) {
	case "raw-palette":
		return resolvePaletteReplace(v.ClassName)
	case "arbitrary-color":
		if v.ClassName == "" {
			return nil
		}
		return TokenizeAction{Value: v.ClassName, TokenName: suggestTokenName(v)}
	case "arbitrary-value", "numeric-spacing":
		return resolveSpacingReplace(v.ClassName)
	case "repeated-pattern":
		if v.ClassName == "" {
			return nil
		}
		return ExtractAction{Pattern: v.ClassName, UtilityName: suggestUtilityName(v)}
	case "duplicate-class":
		if v.ClassName == "" {
			return nil
		}
		return RemoveAction{ClassName: v.ClassName}
	default:
		// missing-comment, complexity, non-literal-classname, parse-error
		// and anything unrecognized have no safe auto-fix.
		return nil
	}
}

func baseConfidence(action FixAction) float64 {
	switch a := action.(type) {
	case ReplaceAction:
		if strings.Contains(a.To, "(--") {
			return baseReplaceWithToken
		}
		return baseReplacePlain
	case ExtractAction:
		return baseExtract
	case TokenizeAction:
		return baseTokenize
	case RemoveAction:
		return baseRemove
	default:
		return 0
	}
}

// normalizeRuleKey strips the scope prefix and the "no-" convention so
// "tailwind/no-raw-palette" and "raw-palette" hit the same table entry.
func normalizeRuleKey(key string) string {
	return strings.TrimPrefix(ShortRuleKey(key), "no-")
}

// semanticTokens guesses a semantic token for a raw palette color name.
var semanticTokens = map[string]string{
	"blue":    "--primary",
	"indigo":  "--primary",
	"red":     "--danger",
	"rose":    "--danger",
	"green":   "--success",
	"emerald": "--success",
	"yellow":  "--warning",
	"amber":   "--warning",
	"orange":  "--warning",
	"teal":    "--info",
	"cyan":    "--info",
	"sky":     "--info",
	"purple":  "--accent",
	"violet":  "--accent",
	"pink":    "--accent",
	"fuchsia": "--accent",
	"gray":    "--muted",
	"slate":   "--muted",
	"zinc":    "--muted",
	"neutral": "--muted",
	"stone":   "--muted",
}

// resolvePaletteReplace maps e.g. "bg-blue-500" to "bg-(--primary)".
// Unparseable classes and unknown color names get no action.
func resolvePaletteReplace(className string) FixAction {
	parts := strings.Split(className, "-")
	if len(parts) < 3 {
		return nil
	}
	token, ok := semanticTokens[parts[len(parts)-2]]
	if !ok {
		return nil
	}
	prefix := strings.Join(parts[:len(parts)-2], "-")
	return ReplaceAction{From: className, To: prefix + "-(" + token + ")"}
}

// resolveSpacingReplace maps an arbitrary spacing value to the nearest
// step on the 4px spacing scale, e.g. "p-[13px]" → "p-3".
func resolveSpacingReplace(className string) FixAction {
	segment, rest, found := strings.Cut(className, "-")
	if !found || !strings.HasPrefix(rest, "[") {
		return nil
	}
	literal := transform.TokenLiteral(className)

	var px float64
	switch {
	case strings.HasSuffix(literal, "px"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(literal, "px"), 64)
		if err != nil {
			return nil
		}
		px = n
	case strings.HasSuffix(literal, "rem"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(literal, "rem"), 64)
		if err != nil {
			return nil
		}
		px = n * 16
	default:
		return nil
	}

	steps := int(px/4 + 0.5)
	return ReplaceAction{From: className, To: fmt.Sprintf("%s-%d", segment, steps)}
}

// suggestTokenName derives a token name for an arbitrary color: the
// violation's context tag when the lint engine supplied one, otherwise
// the sanitized literal itself.
func suggestTokenName(v Violation) string {
	if v.Context != "" {
		return "--color-" + kebab(v.Context)
	}
	literal := strings.TrimPrefix(transform.TokenLiteral(v.ClassName), "#")
	return "--color-" + sanitizeName(literal)
}

// suggestUtilityName derives a utility name for a repeated pattern from
// the context tag when present, else from the pattern's leading classes.
func suggestUtilityName(v Violation) string {
	if v.Context != "" {
		return kebab(v.Context)
	}
	fields := strings.Fields(v.ClassName)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return sanitizeName(strings.Join(fields, "-"))
}

// kebab turns an identifier-shaped tag like "brandPrimary" into
// "brand-primary".
func kebab(identifier string) string {
	words := camelcase.Split(identifier)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = sanitizeName(w)
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, "-")
}

func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

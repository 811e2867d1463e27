// Package transform holds the four pure text transformations the migration
// pipeline applies to source files. Each function operates on one file's
// full content and one target line; each reports ok=false instead of an
// error when the target text cannot be located, since drifted source is
// the expected failure mode, not an exceptional one.
package transform

import "strings"

// TokenDecl is a design-token declaration emitted as a side effect of a
// Tokenize edit, destined for an @theme block.
type TokenDecl struct {
	Name    string `json:"name"`
	Literal string `json:"literal"`
}

// UtilityDecl is a utility declaration emitted as a side effect of an
// Extract edit, destined for an @utility block.
type UtilityDecl struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// Result is an edited buffer plus its side-effect descriptor.
type Result struct {
	Content string
	Removed int
	Added   int
	Token   *TokenDecl
	Utility *UtilityDecl
}

// replaceWindow is how far (in characters) a target may drift from its
// declared column before Replace falls back to a whole-line search.
const replaceWindow = 10

// TokenRef builds the token-reference class that replaces a raw value:
// the value's leading utility segment plus a parenthesized token name,
// e.g. ("bg-[#1a2b3c]", "--color-brand") → "bg-(--color-brand)".
func TokenRef(value, tokenName string) string {
	segment, _, found := strings.Cut(value, "-")
	if !found || segment == "" {
		return "(" + tokenName + ")"
	}
	return segment + "-(" + tokenName + ")"
}

// TokenLiteral extracts the literal behind an arbitrary-value class:
// the bracketed part when present ("bg-[#1a2b3c]" → "#1a2b3c"), the
// whole value otherwise.
func TokenLiteral(value string) string {
	open := strings.Index(value, "[")
	close := strings.LastIndex(value, "]")
	if open >= 0 && close > open {
		return value[open+1 : close]
	}
	return value
}

// splitLines returns content's lines and the 0-based index for a 1-based
// line number, or ok=false when the line does not exist.
func splitLines(content string, line int) ([]string, int, bool) {
	lines := strings.Split(content, "\n")
	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return nil, 0, false
	}
	return lines, idx, true
}

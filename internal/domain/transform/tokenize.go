package transform

import "strings"

// Tokenize replaces an arbitrary value on the target line with a
// token-reference class and emits the token declaration backing it. The
// declaration's literal is extracted from bracketed arbitrary-value
// syntax when present.
func Tokenize(content string, line int, value, tokenName string) (Result, bool) {
	lines, idx, ok := splitLines(content, line)
	if !ok || value == "" {
		return Result{}, false
	}
	text := lines[idx]

	at := strings.Index(text, value)
	if at < 0 {
		return Result{}, false
	}

	ref := TokenRef(value, tokenName)
	lines[idx] = text[:at] + ref + text[at+len(value):]
	return Result{
		Content: strings.Join(lines, "\n"),
		Removed: len(value),
		Added:   len(ref),
		Token:   &TokenDecl{Name: tokenName, Literal: TokenLiteral(value)},
	}, true
}

package transform

import "strings"

// Extract replaces a verbatim class pattern on the target line with a
// utility name and emits the @utility declaration that defines it.
func Extract(content string, line int, pattern, utilityName string) (Result, bool) {
	lines, idx, ok := splitLines(content, line)
	if !ok || pattern == "" {
		return Result{}, false
	}
	text := lines[idx]

	at := strings.Index(text, pattern)
	if at < 0 {
		return Result{}, false
	}

	lines[idx] = text[:at] + utilityName + text[at+len(pattern):]
	return Result{
		Content: strings.Join(lines, "\n"),
		Removed: len(pattern),
		Added:   len(utilityName),
		Utility: &UtilityDecl{Name: utilityName, Pattern: pattern},
	}, true
}

package transform

import "strings"

// Remove deletes a class from the target line together with one adjacent
// whitespace separator, trailing preferred.
func Remove(content string, line int, className string) (Result, bool) {
	lines, idx, ok := splitLines(content, line)
	if !ok || className == "" {
		return Result{}, false
	}
	text := lines[idx]

	at := strings.Index(text, className)
	if at < 0 {
		return Result{}, false
	}
	end := at + len(className)

	removed := len(className)
	switch {
	case end < len(text) && text[end] == ' ':
		end++
		removed++
	case at > 0 && text[at-1] == ' ':
		at--
		removed++
	}

	lines[idx] = text[:at] + text[end:]
	return Result{
		Content: strings.Join(lines, "\n"),
		Removed: removed,
		Added:   0,
	}, true
}

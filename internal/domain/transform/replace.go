package transform

import "strings"

// Replace splices to in place of from on the target line. The search
// starts in a small window around the declared column, tolerating drift;
// if the target is not there it falls back to a whole-line search.
func Replace(content string, line, column int, from, to string) (Result, bool) {
	lines, idx, ok := splitLines(content, line)
	if !ok || from == "" {
		return Result{}, false
	}
	text := lines[idx]

	at := locate(text, column, from)
	if at < 0 {
		return Result{}, false
	}

	lines[idx] = text[:at] + to + text[at+len(from):]
	return Result{
		Content: strings.Join(lines, "\n"),
		Removed: len(from),
		Added:   len(to),
	}, true
}

// locate finds from near the 1-based column, then anywhere on the line.
func locate(text string, column int, from string) int {
	if column > 0 {
		start := column - 1 - replaceWindow
		if start < 0 {
			start = 0
		}
		end := column - 1 + replaceWindow + len(from)
		if end > len(text) {
			end = len(text)
		}
		if start < end {
			if i := strings.Index(text[start:end], from); i >= 0 {
				return start + i
			}
		}
	}
	return strings.Index(text, from)
}

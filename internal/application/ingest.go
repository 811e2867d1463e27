package application

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/twmigrate/twmigrate/internal/domain"
)

// ParseViolations reads a violation stream produced by the lint engine:
// either a single JSON array or one JSON object per line. The stream's
// order is preserved; it feeds straight into plan building.
func ParseViolations(r io.Reader) ([]domain.Violation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading violation stream: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var violations []domain.Violation
		if err := json.Unmarshal(trimmed, &violations); err != nil {
			return nil, fmt.Errorf("parsing violation stream: %w", err)
		}
		return violations, nil
	}

	var violations []domain.Violation
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var v domain.Violation
		if err := json.Unmarshal(text, &v); err != nil {
			return nil, fmt.Errorf("parsing violation stream line %d: %w", line, err)
		}
		violations = append(violations, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading violation stream: %w", err)
	}
	return violations, nil
}

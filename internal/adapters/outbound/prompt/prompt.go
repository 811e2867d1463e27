// Package prompt implements the interactive confirmation session used
// when migrating with --interactive. One session is acquired per run and
// closed on every exit path, including early quits.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twmigrate/twmigrate/internal/domain"
)

var (
	stepStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706"))
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	beforeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	afterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3F3F46"))
)

// Session implements domain.Prompter over a reader/writer pair.
type Session struct {
	in     *bufio.Reader
	out    io.Writer
	closer io.Closer
}

// NewSession creates a prompt session. closer may be nil when the caller
// owns the stream lifetimes (e.g. stdin/stdout).
func NewSession(in io.Reader, out io.Writer, closer io.Closer) *Session {
	return &Session{in: bufio.NewReader(in), out: out, closer: closer}
}

// Confirm shows the step's before/after preview and blocks for an
// answer. Unrecognized input re-prompts.
func (s *Session) Confirm(step domain.MigrationStep) (domain.Answer, error) {
	fmt.Fprintf(s.out, "\n%s %s\n", stepStyle.Render(step.ID), fileStyle.Render(fmt.Sprintf("%s:%d", step.File, step.Line)))
	fmt.Fprintf(s.out, "  %s %s\n", beforeStyle.Render("-"), beforeStyle.Render(step.Preview.Before))
	if step.Preview.After != "" {
		fmt.Fprintf(s.out, "  %s %s\n", afterStyle.Render("+"), afterStyle.Render(step.Preview.After))
	}

	for {
		fmt.Fprintf(s.out, "Apply? %s ", hintStyle.Render("[y]es [n]o [a]ll [q]uit"))
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				// Closed input behaves like quit: stop scheduling,
				// keep everything already applied.
				return domain.AnswerQuit, nil
			}
			return domain.AnswerQuit, fmt.Errorf("reading confirmation: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return domain.AnswerYes, nil
		case "n", "no":
			return domain.AnswerNo, nil
		case "a", "all":
			return domain.AnswerAll, nil
		case "q", "quit":
			return domain.AnswerQuit, nil
		}
		fmt.Fprintln(s.out, "Please answer yes, no, all, or quit.")
	}
}

// Close releases the session's input stream, if it owns one.
func (s *Session) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Package stylesheet appends the token and utility declarations a
// migration run emits to the shared stylesheet file.
package stylesheet

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/fsio"
	"github.com/twmigrate/twmigrate/internal/domain/transform"
)

// Appender implements domain.StylesheetWriter for one stylesheet file.
type Appender struct {
	path  string
	files *fsio.Files
}

// New creates an Appender for the given stylesheet path.
func New(path string) *Appender {
	return &Appender{path: path, files: fsio.New()}
}

// Path returns the stylesheet file this appender writes to.
func (a *Appender) Path() string { return a.path }

// AppendBatch writes one @theme block for the run's tokens and one
// @utility block per extracted pattern, in a single atomic write.
// Declarations whose name is already present in the file are skipped;
// inside the batch pipeline a duplicate means an earlier run already
// emitted the declaration, not an authoring conflict.
func (a *Appender) AppendBatch(tokens []transform.TokenDecl, utilities []transform.UtilityDecl) error {
	existing, err := a.read()
	if err != nil {
		return err
	}

	var b strings.Builder

	newTokens := make([]transform.TokenDecl, 0, len(tokens))
	seen := make(map[string]bool)
	for _, t := range tokens {
		if seen[t.Name] || hasToken(existing, t.Name) {
			continue
		}
		seen[t.Name] = true
		newTokens = append(newTokens, t)
	}
	if len(newTokens) > 0 {
		b.WriteString("\n@theme {\n")
		for _, t := range newTokens {
			fmt.Fprintf(&b, "  %s: %s;\n", t.Name, t.Literal)
		}
		b.WriteString("}\n")
	}

	seenUtil := make(map[string]bool)
	for _, u := range utilities {
		if seenUtil[u.Name] || hasUtility(existing, u.Name) {
			continue
		}
		seenUtil[u.Name] = true
		fmt.Fprintf(&b, "\n@utility %s {\n  @apply %s;\n}\n", u.Name, u.Pattern)
	}

	if b.Len() == 0 {
		return nil
	}
	return a.files.WriteAtomic(a.path, []byte(existing+b.String()))
}

// Promote appends a single named utility outside the batch pipeline. A
// utility of the same name already in the stylesheet is a hard error.
func (a *Appender) Promote(name, pattern string) error {
	existing, err := a.read()
	if err != nil {
		return err
	}
	if hasUtility(existing, name) {
		return fmt.Errorf("utility %q already exists in %s", name, a.path)
	}
	block := fmt.Sprintf("\n@utility %s {\n  @apply %s;\n}\n", name, pattern)
	return a.files.WriteAtomic(a.path, []byte(existing+block))
}

func (a *Appender) read() (string, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading stylesheet %s: %w", a.path, err)
	}
	return string(data), nil
}

func hasUtility(content, name string) bool {
	return strings.Contains(content, "@utility "+name+" ") ||
		strings.Contains(content, "@utility "+name+"{")
}

func hasToken(content, name string) bool {
	return strings.Contains(content, name+":")
}

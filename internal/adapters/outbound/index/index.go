// Package index maintains the token/pattern index database consumed by
// the lint engine's freshness checks. A migration run rebuilds it best
// effort after mutating files; rebuild failures never fail the run.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// indexSchema is the SQL schema for the token/pattern index database.
const indexSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS tokens (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    indexed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS utilities (
    name TEXT PRIMARY KEY,
    pattern TEXT NOT NULL,
    indexed_at TEXT NOT NULL
);
`

const schemaVersion = 1

// Rebuilder implements domain.IndexRebuilder over a sqlite database,
// repopulated from the shared stylesheet.
type Rebuilder struct {
	dbPath         string
	stylesheetPath string
}

// New creates a Rebuilder writing to dbPath and reading declarations
// from stylesheetPath.
func New(dbPath, stylesheetPath string) *Rebuilder {
	return &Rebuilder{dbPath: dbPath, stylesheetPath: stylesheetPath}
}

// Rebuild reparses the stylesheet and replaces the index contents.
func (r *Rebuilder) Rebuild() error {
	tokens, utilities, err := parseStylesheet(r.stylesheetPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.dbPath), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(indexSchema); err != nil {
		return fmt.Errorf("applying index schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning index rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tokens`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM utilities`); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for name, value := range tokens {
		if _, err := tx.Exec(`INSERT INTO tokens (name, value, indexed_at) VALUES (?, ?, ?)`, name, value, now); err != nil {
			return fmt.Errorf("indexing token %s: %w", name, err)
		}
	}
	for name, pattern := range utilities {
		if _, err := tx.Exec(`INSERT INTO utilities (name, pattern, indexed_at) VALUES (?, ?, ?)`, name, pattern, now); err != nil {
			return fmt.Errorf("indexing utility %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// parseStylesheet pulls token declarations out of @theme blocks and
// utility definitions out of @utility blocks. Line-oriented on purpose:
// the stylesheet side effects this tool emits are line-shaped, and the
// index only needs names.
func parseStylesheet(path string) (map[string]string, map[string]string, error) {
	tokens := make(map[string]string)
	utilities := make(map[string]string)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, utilities, nil
		}
		return nil, nil, fmt.Errorf("reading stylesheet %s: %w", path, err)
	}

	var (
		inTheme     bool
		currentUtil string
	)
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "@theme"):
			inTheme = true
		case strings.HasPrefix(trimmed, "@utility "):
			rest := strings.TrimPrefix(trimmed, "@utility ")
			currentUtil = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
		case trimmed == "}":
			inTheme = false
			currentUtil = ""
		case inTheme && strings.HasPrefix(trimmed, "--"):
			name, value, found := strings.Cut(trimmed, ":")
			if found {
				tokens[strings.TrimSpace(name)] = strings.TrimSuffix(strings.TrimSpace(value), ";")
			}
		case currentUtil != "" && strings.HasPrefix(trimmed, "@apply "):
			pattern := strings.TrimSuffix(strings.TrimPrefix(trimmed, "@apply "), ";")
			utilities[currentUtil] = strings.TrimSpace(pattern)
		}
	}
	return tokens, utilities, nil
}

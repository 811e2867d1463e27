package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".twmigrate.yaml"), []byte(content), 0o644))
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyBalanced, cfg.Strategy)
	assert.Equal(t, "app.css", cfg.Stylesheet)
	assert.True(t, cfg.BackupEnabled())
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `strategy: aggressive
include:
  - no-raw-palette
exclude:
  - no-duplicate-class
max_changes: 25
backup: false
stylesheet: styles/global.css
state_dir: .cache/twmigrate
`)

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyAggressive, cfg.Strategy)
	assert.Equal(t, []string{"no-raw-palette"}, cfg.Include)
	assert.Equal(t, []string{"no-duplicate-class"}, cfg.Exclude)
	assert.Equal(t, 25, cfg.MaxChanges)
	assert.False(t, cfg.BackupEnabled())
	assert.Equal(t, "styles/global.css", cfg.Stylesheet)
	assert.Equal(t, ".cache/twmigrate", cfg.StateDir)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "strategy: conservative\n")

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyConservative, cfg.Strategy)
	assert.Equal(t, "app.css", cfg.Stylesheet)
	assert.Equal(t, ".twmigrate/state", cfg.StateDir)
}

func TestLoad_InvalidStrategy(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "strategy: reckless\n")

	_, err := config.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reckless")
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "strategy: [unbalanced\n")

	_, err := config.New().Load(dir)
	assert.Error(t, err)
}

package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposePlan(t *testing.T) (dir string) {
	t.Helper()
	dir, violations := setupProject(t)
	_, err := runCommand(t, nil, "propose", dir, "--from", violations)
	require.NoError(t, err)
	return dir
}

func TestMigrateCommand_DefaultIsPreview(t *testing.T) {
	dir := proposePlan(t)

	out, err := runCommand(t, nil, "migrate", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"pending"`)

	// nothing written
	assert.Equal(t, projectSource, readFile(t, filepath.Join(dir, "src", "App.tsx")))
	_, statErr := os.Stat(filepath.Join(dir, "app.css"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMigrateCommand_Apply(t *testing.T) {
	dir := proposePlan(t)

	out, err := runCommand(t, nil, "migrate", dir, "--apply", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"applied"`)

	content := readFile(t, filepath.Join(dir, "src", "App.tsx"))
	assert.Contains(t, content, "bg-(--primary)")
	assert.Contains(t, content, "text-(--color-brand-accent)")

	css := readFile(t, filepath.Join(dir, "app.css"))
	assert.Contains(t, css, "--color-brand-accent: #ff6600;")

	// default behavior keeps a backup and rebuilds the index
	_, err = os.Stat(filepath.Join(dir, "src", "App.tsx.bak"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".twmigrate", "index.db"))
	assert.NoError(t, err)
}

func TestMigrateCommand_NoBackup(t *testing.T) {
	dir := proposePlan(t)

	_, err := runCommand(t, nil, "migrate", dir, "--apply", "--no-backup")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "src", "App.tsx.bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestMigrateCommand_LegacyDryRunFlag(t *testing.T) {
	dir := proposePlan(t)

	_, err := runCommand(t, nil, "migrate", dir, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, projectSource, readFile(t, filepath.Join(dir, "src", "App.tsx")))

	// --dry-run=false is the legacy spelling of --apply
	_, err = runCommand(t, nil, "migrate", dir, "--dry-run=false")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "src", "App.tsx")), "bg-(--primary)")
}

func TestMigrateCommand_ConflictingFlags(t *testing.T) {
	dir := proposePlan(t)

	_, err := runCommand(t, nil, "migrate", dir, "--apply", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict")
}

func TestMigrateCommand_StepFilter(t *testing.T) {
	dir := proposePlan(t)

	_, err := runCommand(t, nil, "migrate", dir, "--apply", "--steps", "step-001")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(dir, "src", "App.tsx"))
	assert.Contains(t, content, "bg-(--primary)")
	assert.Contains(t, content, "#ff6600")
}

func TestMigrateCommand_NoPlan(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, nil, "migrate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no migration plan")
}

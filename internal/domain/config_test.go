package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twmigrate/twmigrate/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.StrategyBalanced, cfg.Strategy)
	assert.Equal(t, "app.css", cfg.Stylesheet)
	assert.Equal(t, ".twmigrate/state", cfg.StateDir)
	assert.True(t, cfg.BackupEnabled())
}

func TestBackupEnabled_ExplicitFalse(t *testing.T) {
	off := false
	cfg := domain.ProjectConfig{Backup: &off}
	assert.False(t, cfg.BackupEnabled())
}

func TestConfigValidate(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Strategy = "reckless"
	assert.Error(t, cfg.Validate())

	cfg = domain.DefaultConfig()
	cfg.MaxChanges = -1
	assert.Error(t, cfg.Validate())

	cfg = domain.DefaultConfig()
	cfg.Include = []string{""}
	assert.Error(t, cfg.Validate())
}

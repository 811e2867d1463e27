package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/twmigrate/twmigrate/internal/domain"
)

const fileName = ".twmigrate.yaml"

// YAMLLoader implements the project config port by reading .twmigrate.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .twmigrate.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	// Unset fields fall back to the defaults they were initialized with.
	if cfg.Strategy == "" {
		cfg.Strategy = domain.StrategyBalanced
	}
	if cfg.Stylesheet == "" {
		cfg.Stylesheet = domain.DefaultStylesheet
	}
	if cfg.StateDir == "" {
		cfg.StateDir = domain.DefaultStateDir
	}

	return cfg, nil
}

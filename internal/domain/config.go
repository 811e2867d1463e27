package domain

import "fmt"

// Default locations, relative to the project root.
const (
	DefaultStateDir   = ".twmigrate/state"
	DefaultIndexPath  = ".twmigrate/index.db"
	DefaultStylesheet = "app.css"
)

// ProjectConfig holds project-level configuration loaded from
// .twmigrate.yaml.
type ProjectConfig struct {
	Strategy   Strategy `yaml:"strategy"    json:"strategy,omitempty"`
	Include    []string `yaml:"include"     json:"include,omitempty"`
	Exclude    []string `yaml:"exclude"     json:"exclude,omitempty"`
	MaxChanges int      `yaml:"max_changes" json:"max_changes,omitempty"`
	// Backup is a pointer to distinguish "not specified" (default on)
	// from an explicit false.
	Backup     *bool  `yaml:"backup"      json:"backup,omitempty"`
	Stylesheet string `yaml:"stylesheet"  json:"stylesheet,omitempty"`
	StateDir   string `yaml:"state_dir"   json:"state_dir,omitempty"`
}

// DefaultConfig returns the configuration used when no .twmigrate.yaml
// exists.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Strategy:   StrategyBalanced,
		Stylesheet: DefaultStylesheet,
		StateDir:   DefaultStateDir,
	}
}

// BackupEnabled reports whether mutated files get a .bak copy.
func (c ProjectConfig) BackupEnabled() bool {
	return c.Backup == nil || *c.Backup
}

// Validate checks the config for invalid values and returns a
// descriptive error.
func (c ProjectConfig) Validate() error {
	if c.Strategy != "" {
		if _, err := GateFor(c.Strategy); err != nil {
			return err
		}
	}
	if c.MaxChanges < 0 {
		return fmt.Errorf("max_changes must be >= 0 (got %d)", c.MaxChanges)
	}
	for _, key := range c.Include {
		if key == "" {
			return fmt.Errorf("include entries must not be empty")
		}
	}
	for _, key := range c.Exclude {
		if key == "" {
			return fmt.Errorf("exclude entries must not be empty")
		}
	}
	return nil
}

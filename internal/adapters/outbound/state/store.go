// Package state persists the migration plan and checkpoint as versioned
// JSON files under the project's state directory.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/fsio"
	"github.com/twmigrate/twmigrate/internal/domain"
)

const (
	planFileName       = "migration-plan.json"
	checkpointFileName = "migration-checkpoint.json"
)

// Store is a file-based implementation of domain.PlanStore and
// domain.CheckpointStore.
type Store struct {
	dir   string
	files *fsio.Files
}

// New creates a store rooted at projectPath. stateDir overrides the
// default ".twmigrate/state" subdirectory when non-empty.
func New(projectPath, stateDir string) *Store {
	if stateDir == "" {
		stateDir = domain.DefaultStateDir
	}
	return &Store{dir: filepath.Join(projectPath, stateDir), files: fsio.New()}
}

// PlanPath returns where the plan artifact lives.
func (s *Store) PlanPath() string { return filepath.Join(s.dir, planFileName) }

// CheckpointPath returns where the checkpoint artifact lives.
func (s *Store) CheckpointPath() string { return filepath.Join(s.dir, checkpointFileName) }

// SavePlan atomically writes the plan artifact.
func (s *Store) SavePlan(plan *domain.MigrationPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	return s.files.WriteAtomic(s.PlanPath(), data)
}

// LoadPlan reads and validates the plan artifact, returning the plan and
// the content hash of its serialized bytes.
func (s *Store) LoadPlan() (*domain.MigrationPlan, string, error) {
	path := s.PlanPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", domain.ErrPlanNotFound
		}
		return nil, "", err
	}

	var plan domain.MigrationPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, "", &domain.SchemaError{Path: path, Err: err}
	}
	if plan.Version != domain.PlanVersion {
		return nil, "", &domain.SchemaError{Path: path, Version: plan.Version}
	}

	return &plan, domain.HashPlan(data), nil
}

// LoadCheckpoint reads the checkpoint artifact. A missing checkpoint is
// not an error; it returns (nil, nil).
func (s *Store) LoadCheckpoint() (*domain.MigrationCheckpoint, error) {
	data, err := os.ReadFile(s.CheckpointPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var checkpoint domain.MigrationCheckpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.CheckpointPath(), err)
	}
	return &checkpoint, nil
}

// SaveCheckpoint atomically writes the checkpoint artifact.
func (s *Store) SaveCheckpoint(checkpoint *domain.MigrationCheckpoint) error {
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}
	return s.files.WriteAtomic(s.CheckpointPath(), data)
}

// DiscardCheckpoint removes the checkpoint artifact if present.
func (s *Store) DiscardCheckpoint() error {
	if err := os.Remove(s.CheckpointPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

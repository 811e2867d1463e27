// Package fsio is the atomic file I/O collaborator: temp-file-then-rename
// writes with permission preservation, plus best-effort backup copies.
package fsio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Files implements domain.SourceFiles against the real filesystem.
type Files struct{}

// New creates a Files adapter.
func New() *Files { return &Files{} }

// Read returns the file's current on-disk content.
func (f *Files) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteAtomic writes data to path via a temp file in the same directory
// and a rename, so readers never observe a partial write. An existing
// file's permissions are preserved; new files get 0644.
func (f *Files) WriteAtomic(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}
	return nil
}

// Backup copies the on-disk file to "<path>.bak", preserving its mode.
func (f *Files) Backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s for backup: %w", path, err)
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path+".bak", data, mode); err != nil {
		return fmt.Errorf("writing backup of %s: %w", path, err)
	}
	return nil
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cursor-stats/models"
	"cursor-stats/utils"
)

// FileSaver writes rendered exports to disk. Each file is replaced
// atomically so readers never observe a partial export.
type FileSaver struct {
	logger *utils.Logger
}

// NewFileSaver creates a FileSaver with the given logger.
func NewFileSaver(logger *utils.Logger) *FileSaver {
	return &FileSaver{logger: logger}
}

// Save writes data to path through a temporary sibling file and a rename.
// Intermediate directories are created automatically.
func (s *FileSaver) Save(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("save: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save: create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: close %q: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: chmod %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: rename into %q: %w", path, err)
	}
	return nil
}

// SaveExports writes the CSV text of every export into dir and returns the
// paths written. Exports without rows are skipped. A failure on one file
// does not stop the others; all failures are joined into the returned error.
func (s *FileSaver) SaveExports(dir string, files []models.ExportFile) ([]string, error) {
	var (
		written []string
		errs    []error
	)

	for _, f := range files {
		if f.Text == "" {
			s.logger.Warn("[storage] No %s rows to export, skipping %s", f.Label, f.FileName)
			continue
		}

		path := filepath.Join(dir, f.FileName)
		if err := s.Save(path, []byte(f.Text)); err != nil {
			s.logger.Error("[storage] Writing %s failed: %v", path, err)
			errs = append(errs, err)
			continue
		}

		s.logger.Info("[storage] Wrote %d %s rows to %s", len(f.Records), f.Label, path)
		written = append(written, path)
	}

	return written, errors.Join(errs...)
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/vehiscan/odometer-api/internal/domain/analysis"
)

// LocalStore keeps accepted uploads under a single directory for the duration
// of one request. Files are named "<unix-millis>-<original-name>" and removed
// by the caller once the analysis finishes.
type LocalStore struct {
	dir string
}

func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save implements analysis.UploadStore.
func (s *LocalStore) Save(r io.Reader, originalName string, now time.Time) (string, error) {
	name := fmt.Sprintf("%d-%s", now.UnixMilli(), domain.SanitizeFilename(filepath.Base(originalName)))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

// Remove implements analysis.UploadStore. Paths outside the uploads directory
// are refused, the store only deletes what it wrote.
func (s *LocalStore) Remove(path string) error {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to remove %s: outside uploads dir", path)
	}
	return os.Remove(path)
}

package store

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "go-htr-bench/internal/errors"
)

// ReferenceStore reads ground-truth transcriptions. One markdown file
// per page, named after the image stem.
type ReferenceStore struct {
	dir string
}

// NewReferenceStore creates a store over the reference directory.
func NewReferenceStore(dir string) *ReferenceStore {
	return &ReferenceStore{dir: dir}
}

// Path returns the reference path for an image id.
func (s *ReferenceStore) Path(imageID string) string {
	stem := strings.TrimSuffix(imageID, filepath.Ext(imageID))
	return filepath.Join(s.dir, stem+".md")
}

// Load returns the reference text for an image. A missing file is a
// MissingReference error; callers exclude the page from aggregation
// rather than failing the run.
func (s *ReferenceStore) Load(imageID string) (string, error) {
	path := s.Path(imageID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NewMissingReferenceError(imageID, path)
		}
		return "", apperrors.NewStorageError("failed to read reference", path, err)
	}
	return string(data), nil
}

// Exists reports whether a reference transcription exists for an image.
func (s *ReferenceStore) Exists(imageID string) bool {
	_, err := os.Stat(s.Path(imageID))
	return err == nil
}

// Save writes a reference transcription, creating the directory if
// needed. Used by the reference seeding command.
func (s *ReferenceStore) Save(imageID, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperrors.NewStorageError("failed to create reference directory", s.dir, err)
	}
	path := s.Path(imageID)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return apperrors.NewStorageError("failed to write reference", path, err)
	}
	return nil
}

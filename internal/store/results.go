// Package store persists benchmark artifacts on disk: one JSON result
// file per (image, model) pair and one reference transcription per page.
// File naming is the resume contract: a run skips any pair whose result
// file already exists.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// ResultStore reads and writes per-pair result records.
type ResultStore struct {
	dir string
}

// NewResultStore creates a store rooted at dir, creating it if needed.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("failed to create results directory", dir, err)
	}
	return &ResultStore{dir: dir}, nil
}

// safeModelName flattens a model id into a filename fragment.
func safeModelName(modelID string) string {
	s := strings.ReplaceAll(modelID, "/", "_")
	return strings.ReplaceAll(s, ":", "_")
}

// fileName returns the result file name for an (image, model) pair.
func fileName(imageID, modelID string) string {
	stem := strings.TrimSuffix(imageID, filepath.Ext(imageID))
	return stem + "_" + safeModelName(modelID) + ".json"
}

// Path returns the absolute result path for a pair.
func (s *ResultStore) Path(imageID, modelID string) string {
	return filepath.Join(s.dir, fileName(imageID, modelID))
}

// Exists reports whether a result is already persisted for the pair.
func (s *ResultStore) Exists(imageID, modelID string) bool {
	_, err := os.Stat(s.Path(imageID, modelID))
	return err == nil
}

// Save writes a record atomically: to a temp file first, then renamed
// into place so a crashed run never leaves a half-written result.
func (s *ResultStore) Save(record *models.ResultRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to marshal result", record.Image, err)
	}

	path := s.Path(record.Image, record.Model)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.NewStorageError("failed to write result", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return apperrors.NewStorageError("failed to finalize result", path, err)
	}
	return nil
}

// Load reads one record back.
func (s *ResultStore) Load(imageID, modelID string) (*models.ResultRecord, error) {
	return s.loadPath(s.Path(imageID, modelID))
}

func (s *ResultStore) loadPath(path string) (*models.ResultRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read result", path, err)
	}
	var record models.ResultRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.NewStorageError("malformed result file", path, err)
	}
	return &record, nil
}

// List loads every persisted record, sorted by file name. Unreadable or
// malformed files are skipped so one bad file never sinks a report.
func (s *ResultStore) List() ([]*models.ResultRecord, []string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to read results directory", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var records []*models.ResultRecord
	var skipped []string
	for _, name := range names {
		record, err := s.loadPath(filepath.Join(s.dir, name))
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

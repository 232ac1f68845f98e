// Package corpus enumerates and loads the manuscript page images a
// benchmark run operates on. Pages can live on the local filesystem or
// in an Azure blob container; both sources present the same interface.
package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// Source enumerates available page images and loads their bytes.
type Source interface {
	// List returns the ids of all page images, sorted lexicographically.
	List(ctx context.Context) ([]string, error)
	// Load returns the asset for one image id.
	Load(ctx context.Context, id string) (models.ImageAsset, error)
}

// imageExtensions are the page formats a source recognizes.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsImageFile reports whether a file name has a recognized page extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// localSource reads pages from a directory on disk.
type localSource struct {
	dir string
}

// NewLocalSource creates a source over a local image directory.
func NewLocalSource(dir string) Source {
	return &localSource{dir: dir}
}

func (s *localSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read image directory", s.dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *localSource) Load(ctx context.Context, id string) (models.ImageAsset, error) {
	path := filepath.Join(s.dir, id)
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.ImageAsset{}, apperrors.NewStorageError("failed to read image", path, err)
	}
	return models.ImageAsset{ID: id, Path: path, Raw: raw}, nil
}

// Stem returns a file name without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Package viewer produces the JSON data files the browsing UI consumes
// and serves them together with the page images over HTTP.
package viewer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"go-htr-bench/internal/catalog"
	"go-htr-bench/internal/corpus"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// Export writes the three viewer data files into dir:
// images_list.json, models_list.json and wer_data.json.
func Export(ctx context.Context, dir string, source corpus.Source, scored []models.ScoredRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStorageError("failed to create viewer directory", dir, err)
	}

	images, err := source.List(ctx)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "images_list.json"), images); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(dir, "models_list.json"), ModelCatalog(scored)); err != nil {
		return err
	}

	return writeJSON(filepath.Join(dir, "wer_data.json"), WERData(scored))
}

// ModelCatalog builds the model list from scored records: one entry per
// model, libre models first, then alphabetical by display name.
func ModelCatalog(scored []models.ScoredRecord) []models.CatalogEntry {
	seen := make(map[string]bool)
	entries := make([]models.CatalogEntry, 0)
	for _, sr := range scored {
		if seen[sr.ModelID] {
			continue
		}
		seen[sr.ModelID] = true
		entries = append(entries, models.CatalogEntry{
			ID:   sr.ModelID,
			Name: catalog.DisplayName(sr.ModelID),
			Type: catalog.LicenseType(sr.ModelID),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		li := entries[i].Type == catalog.TypeLibre
		lj := entries[j].Type == catalog.TypeLibre
		if li != lj {
			return li
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// WERData pivots scored records into the nested image stem to model id
// to WER map the viewer badges read. Pages on the exclusion list carry
// the sentinel; pairs whose reference is missing are omitted entirely.
func WERData(scored []models.ScoredRecord) map[string]map[string]float64 {
	data := make(map[string]map[string]float64)
	for _, sr := range scored {
		if sr.MissingRef {
			continue
		}
		stem := corpus.Stem(sr.ImageID)
		row, ok := data[stem]
		if !ok {
			row = make(map[string]float64)
			data[stem] = row
		}
		row[sr.ModelID] = sr.WER
	}
	return data
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to marshal viewer data", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewStorageError("failed to write viewer data", path, err)
	}
	return nil
}

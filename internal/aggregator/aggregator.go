// Package aggregator turns persisted result records into per-model
// statistics and per-page matrices. Pages without a reference
// transcription are excluded from WER aggregation but still counted for
// cost, so spend is never under-reported.
package aggregator

import (
	"sort"

	"go-htr-bench/internal/corpus"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/internal/logger"
	"go-htr-bench/internal/scorer"
	"go-htr-bench/pkg/models"
)

// ReferenceLoader resolves the ground-truth text for an image id.
type ReferenceLoader interface {
	Load(imageID string) (string, error)
}

// Score computes WER and CER for every record against its reference.
// Records whose reference is missing, and records for pages on the
// exclusion list, are marked excluded with the sentinel rates.
// Exclusions match on the image stem so "page_004" covers both .png
// and .jpg.
func Score(records []*models.ResultRecord, refs ReferenceLoader, excluded []string) ([]models.ScoredRecord, error) {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[corpus.Stem(e)] = true
	}

	scored := make([]models.ScoredRecord, 0, len(records))
	for _, record := range records {
		sr := models.ScoredRecord{
			ImageID:    record.Image,
			ModelID:    record.Model,
			Editeur:    record.Editeur,
			ModeleType: record.ModeleType,
			Cost:       record.ModelInfo.TotalCost,
		}

		if skip[corpus.Stem(record.Image)] {
			sr.WER = models.ExcludedWER
			sr.CER = models.ExcludedWER
			sr.Excluded = true
			scored = append(scored, sr)
			continue
		}

		reference, err := refs.Load(record.Image)
		switch {
		case err == nil:
			sr.WER = scorer.WER(reference, record.Result)
			sr.CER = scorer.CER(reference, record.Result)
		case apperrors.IsType(err, apperrors.ErrorTypeMissingReference):
			sr.WER = models.ExcludedWER
			sr.CER = models.ExcludedWER
			sr.Excluded = true
			sr.MissingRef = true
			logger.WithField("image", record.Image).Debug("No reference transcription, page excluded from scoring")
		default:
			return nil, err
		}

		scored = append(scored, sr)
	}
	return scored, nil
}

// Median returns the median of a WER series: the middle value for odd
// lengths, the mean of the two middle values for even lengths, and zero
// for an empty series.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Stats groups scored records by model and computes per-model summary
// statistics, sorted by median WER ascending. Models whose pages are all
// excluded report the sentinel for every WER statistic.
func Stats(scored []models.ScoredRecord) []models.ModelStats {
	type group struct {
		stats models.ModelStats
		wers  []float64
		cers  []float64
	}

	groups := make(map[string]*group)
	var order []string
	for _, sr := range scored {
		g, ok := groups[sr.ModelID]
		if !ok {
			g = &group{stats: models.ModelStats{
				Model:      sr.ModelID,
				Editeur:    sr.Editeur,
				ModeleType: sr.ModeleType,
			}}
			groups[sr.ModelID] = g
			order = append(order, sr.ModelID)
		}
		g.stats.NImages++
		g.stats.TotalCost += sr.Cost
		if !sr.Excluded {
			g.wers = append(g.wers, sr.WER)
			g.cers = append(g.cers, sr.CER)
		}
	}

	stats := make([]models.ModelStats, 0, len(groups))
	for _, id := range order {
		g := groups[id]
		s := g.stats
		if s.NImages > 0 {
			s.MeanCost = s.TotalCost / float64(s.NImages)
		}
		if len(g.wers) == 0 {
			s.WERMin = models.ExcludedWER
			s.WERMed = models.ExcludedWER
			s.WERMax = models.ExcludedWER
			s.CERMed = models.ExcludedWER
		} else {
			sorted := append([]float64(nil), g.wers...)
			sort.Float64s(sorted)
			s.WERMin = sorted[0]
			s.WERMax = sorted[len(sorted)-1]
			s.WERMed = Median(g.wers)
			s.CERMed = Median(g.cers)
		}
		stats = append(stats, s)
	}

	// Fully excluded models sink to the bottom.
	sort.SliceStable(stats, func(i, j int) bool {
		mi, mj := stats[i].WERMed, stats[j].WERMed
		if (mi == models.ExcludedWER) != (mj == models.ExcludedWER) {
			return mj == models.ExcludedWER
		}
		return mi < mj
	})
	return stats
}

// Matrix pivots scored records into per-page rows. The outer map is
// image id to model id to scored record; Images and Models list the
// sorted axes so renderers iterate deterministically.
type Matrix struct {
	Images []string
	Models []string
	Cells  map[string]map[string]models.ScoredRecord
}

// Pivot builds the page-by-model matrix from scored records.
func Pivot(scored []models.ScoredRecord) *Matrix {
	m := &Matrix{Cells: make(map[string]map[string]models.ScoredRecord)}
	imageSeen := make(map[string]bool)
	modelSeen := make(map[string]bool)

	for _, sr := range scored {
		if !imageSeen[sr.ImageID] {
			imageSeen[sr.ImageID] = true
			m.Images = append(m.Images, sr.ImageID)
		}
		if !modelSeen[sr.ModelID] {
			modelSeen[sr.ModelID] = true
			m.Models = append(m.Models, sr.ModelID)
		}
		row, ok := m.Cells[sr.ImageID]
		if !ok {
			row = make(map[string]models.ScoredRecord)
			m.Cells[sr.ImageID] = row
		}
		row[sr.ModelID] = sr
	}

	sort.Strings(m.Images)
	sort.Strings(m.Models)
	return m
}

// Package runner schedules a benchmark run: the cross product of corpus
// pages and configured models, dispatched over a bounded worker pool.
// Pairs with a persisted result are skipped, which is what makes an
// interrupted run resumable.
package runner

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-htr-bench/internal/corpus"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/internal/logger"
	"go-htr-bench/internal/metrics"
	"go-htr-bench/internal/store"
	"go-htr-bench/pkg/models"
)

// Transcriber is the dispatch surface the runner drives.
type Transcriber interface {
	Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error)
	ValidateModels(modelIDs []string) error
}

// Runner executes one benchmark run.
type Runner struct {
	source     corpus.Source
	dispatcher Transcriber
	results    *store.ResultStore
	metrics    *metrics.Metrics
	models     []string
	workers    int
}

// New creates a runner over the given corpus, dispatcher and result store.
func New(source corpus.Source, dispatcher Transcriber, results *store.ResultStore,
	m *metrics.Metrics, modelIDs []string, workers int) *Runner {
	return &Runner{
		source:     source,
		dispatcher: dispatcher,
		results:    results,
		metrics:    m,
		models:     modelIDs,
		workers:    workers,
	}
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID      string
	Dispatched int
	Skipped    int
	Failed     int
}

// Run executes the full image-model cross product. Pair failures are
// logged and counted but never abort the run; a failed pair simply has
// no persisted result and will be retried on the next run.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	if err := r.dispatcher.ValidateModels(r.models); err != nil {
		return nil, err
	}

	images, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperrors.NewValidationError("image corpus is empty", nil)
	}

	modelIDs := append([]string(nil), r.models...)
	sort.Strings(modelIDs)

	runID := uuid.New().String()
	logger.WithFields(logrus.Fields{
		"run_id":  runID,
		"images":  len(images),
		"models":  len(modelIDs),
		"workers": r.workers,
	}).Info("Starting benchmark run")

	var dispatched, skipped, failed atomic.Int64

	pool := newWorkerPool(r.workers)
	pool.Start()

	// Submission order is deterministic: pages first, models within a
	// page. Completion order depends on worker timing only.
	for _, image := range images {
		for _, modelID := range modelIDs {
			if r.results.Exists(image, modelID) {
				skipped.Add(1)
				r.metrics.Skip()
				continue
			}

			image, modelID := image, modelID
			pool.Submit(func() {
				if err := r.runPair(ctx, image, modelID); err != nil {
					failed.Add(1)
					r.metrics.Failure(modelID, errorType(err))
					logger.WithError(err).WithFields(logrus.Fields{
						"run_id": runID,
						"image":  image,
						"model":  modelID,
					}).Error("Pair failed")
					return
				}
				dispatched.Add(1)
			})
		}
	}

	pool.Wait()
	pool.Close()

	outcome := &Outcome{
		RunID:      runID,
		Dispatched: int(dispatched.Load()),
		Skipped:    int(skipped.Load()),
		Failed:     int(failed.Load()),
	}
	logger.WithFields(logrus.Fields{
		"run_id":     outcome.RunID,
		"dispatched": outcome.Dispatched,
		"skipped":    outcome.Skipped,
		"failed":     outcome.Failed,
	}).Info("Benchmark run finished")
	return outcome, nil
}

// runPair loads one page, dispatches it to one model and persists the
// result record.
func (r *Runner) runPair(ctx context.Context, imageID, modelID string) error {
	asset, err := r.source.Load(ctx, imageID)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := r.dispatcher.Transcribe(ctx, asset, modelID)
	if err != nil {
		return err
	}
	latency := time.Since(start).Seconds()

	record := &models.ResultRecord{
		Model:      result.ModelID,
		Editeur:    result.Editeur,
		ModeleType: result.ModeleType,
		Image:      imageID,
		Result:     result.RawText,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		ModelInfo: models.ModelInfo{
			ID:        result.ModelID,
			Pricing:   result.Pricing,
			TotalCost: result.Cost,
		},
		Usage:   result.Usage,
		Latency: latency,
	}
	if err := r.results.Save(record); err != nil {
		return err
	}

	r.metrics.Dispatch(modelID, result.Cost, latency)
	logger.WithFields(logrus.Fields{
		"image":      imageID,
		"model":      modelID,
		"latency_s":  latency,
		"total_cost": result.Cost,
	}).Info("Pair completed")
	return nil
}

// errorType extracts the taxonomy label for metrics.
func errorType(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return "unknown"
}

// Command bench runs the manuscript transcription benchmark and its
// reporting stages.
//
// Usage:
//
//	bench run          dispatch the image x model cross product
//	bench summary      generate the ranked summary table
//	bench matrix       generate the per-page WER matrix (md + html)
//	bench viewer-data  export the JSON files the viewer reads
//	bench copy-refs    seed reference transcriptions from one model's results
//	bench serve        serve the viewer UI
//
// Every subcommand accepts -config pointing at a YAML file; the
// HTRBENCH_ environment prefix overrides individual keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go-htr-bench/internal/aggregator"
	"go-htr-bench/internal/config"
	"go-htr-bench/internal/container"
	"go-htr-bench/internal/logger"
	"go-htr-bench/internal/report"
	"go-htr-bench/internal/viewer"
	"go-htr-bench/pkg/models"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML config file")
	refModel := flags.String("model", "openai/o1", "model whose results seed the references (copy-refs)")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	c, err := container.New(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		os.Exit(1)
	}

	switch command {
	case "run":
		err = runBenchmark(c)
	case "summary":
		err = generateSummary(c)
	case "matrix":
		err = generateMatrix(c)
	case "viewer-data":
		err = exportViewerData(c)
	case "copy-refs":
		err = copyReferences(c, *refModel)
	case "serve":
		err = serve(c)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bench <run|summary|matrix|viewer-data|copy-refs|serve> [-config FILE] [-model ID]")
}

func runBenchmark(c *container.Container) error {
	outcome, err := c.Runner().Run(context.Background())
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"run_id":     outcome.RunID,
		"dispatched": outcome.Dispatched,
		"skipped":    outcome.Skipped,
		"failed":     outcome.Failed,
	}).Info("Run complete")
	return nil
}

// scoreResults loads every persisted record and scores it against the
// reference transcriptions, applying the configured exclusion list.
func scoreResults(c *container.Container) ([]models.ScoredRecord, error) {
	records, skipped, err := c.Results().List()
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		logger.WithField("files", skipped).Warn("Skipped malformed result files")
	}
	return aggregator.Score(records, c.References(), c.Config().ExcludedImages)
}

func writeReport(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func generateSummary(c *container.Container) error {
	scored, err := scoreResults(c)
	if err != nil {
		return err
	}

	stats := aggregator.Stats(scored)
	out := report.Summary(stats, time.Now())

	path := filepath.Join(c.Config().ReportsDir, "resultats_summary.md")
	if err := writeReport(path, out); err != nil {
		return err
	}
	logger.WithField("path", path).Info("Summary report generated")
	return nil
}

func generateMatrix(c *container.Container) error {
	scored, err := scoreResults(c)
	if err != nil {
		return err
	}

	matrix := aggregator.Pivot(scored)
	descriptions := c.Config().PageDescriptions
	now := time.Now()

	mdPath := filepath.Join(c.Config().ReportsDir, "performance_par_page.md")
	if err := writeReport(mdPath, report.MatrixMarkdown(matrix, descriptions, now)); err != nil {
		return err
	}
	htmlPath := filepath.Join(c.Config().ReportsDir, "performance_par_page.html")
	if err := writeReport(htmlPath, report.MatrixHTML(matrix, descriptions, now)); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"markdown": mdPath,
		"html":     htmlPath,
	}).Info("Matrix reports generated")
	return nil
}

func exportViewerData(c *container.Container) error {
	scored, err := scoreResults(c)
	if err != nil {
		return err
	}
	if err := viewer.Export(context.Background(), c.Config().ViewerDir, c.Source(), scored); err != nil {
		return err
	}
	logger.WithField("dir", c.Config().ViewerDir).Info("Viewer data exported")
	return nil
}

func copyReferences(c *container.Container, modelID string) error {
	records, skipped, err := c.Results().List()
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		logger.WithField("files", skipped).Warn("Skipped malformed result files")
	}

	copied := 0
	for _, record := range records {
		if record.ModelInfo.ID != modelID {
			continue
		}
		if err := c.References().Save(record.Image, record.Result); err != nil {
			return err
		}
		copied++
	}
	logger.WithFields(logrus.Fields{
		"model":  modelID,
		"copied": copied,
	}).Info("Reference transcriptions seeded")
	return nil
}

func serve(c *container.Container) error {
	server := &http.Server{
		Addr:         c.Config().ViewerAddr,
		Handler:      c.Handler(),
		ReadTimeout:  c.Config().RequestTimeout,
		WriteTimeout: c.Config().RequestTimeout,
	}

	go func() {
		logger.WithField("address", c.Config().ViewerAddr).Info("Starting viewer server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down viewer server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}

// Package container builds the application dependency graph from a
// loaded configuration.
package container

import (
	"net/http"

	"go-htr-bench/internal/config"
	"go-htr-bench/internal/corpus"
	"go-htr-bench/internal/logger"
	"go-htr-bench/internal/metrics"
	"go-htr-bench/internal/pricing"
	"go-htr-bench/internal/provider"
	"go-htr-bench/internal/runner"
	"go-htr-bench/internal/store"
	"go-htr-bench/internal/viewer"
)

// Container holds all application dependencies.
type Container struct {
	config     *config.Config
	source     corpus.Source
	results    *store.ResultStore
	references *store.ReferenceStore
	dispatcher *provider.Dispatcher
	metrics    *metrics.Metrics
	runner     *runner.Runner
	handler    http.Handler
}

// New creates the dependency injection container.
func New(cfg *config.Config) (*Container, error) {
	logger.SetLevel(cfg.LogLevel)

	// Corpus source: Azure when credentials are configured, local
	// directory otherwise.
	var source corpus.Source
	if cfg.Azure.AccountName != "" {
		azureSource, err := corpus.NewAzureSource(cfg.Azure.AccountName, cfg.Azure.AccountKey, cfg.Azure.Container)
		if err != nil {
			return nil, err
		}
		source = azureSource
	} else {
		source = corpus.NewLocalSource(cfg.ImagesDir)
	}

	results, err := store.NewResultStore(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}
	references := store.NewReferenceStore(cfg.ReferenceDir)

	cache := pricing.NewCache(cfg.OpenRouter.BaseURL, cfg.OpenRouter.APIKey,
		cfg.OpenRouter.Referer, cfg.OpenRouter.Title, nil)
	primary := provider.NewOpenRouterClient(cfg.OpenRouter.BaseURL, cfg.OpenRouter.APIKey,
		cfg.OpenRouter.Referer, cfg.OpenRouter.Title, cfg.SystemPrompt, cache, cfg.RequestTimeout)

	var secondary provider.Provider
	if cfg.Transkribus.Token != "" {
		secondary = provider.NewTranskribusClient(cfg.Transkribus.BaseURL, cfg.Transkribus.Token, cfg.RequestTimeout)
	}
	var local provider.Provider
	if cfg.Tesseract.Enabled {
		local = provider.NewTesseractClient(cfg.Tesseract.Languages)
	}

	dispatcher := provider.NewDispatcher(primary, secondary, local)
	m := metrics.New(nil)
	r := runner.New(source, dispatcher, results, m, cfg.Models, cfg.Workers)

	handler := viewer.NewHandler(viewer.ServerConfig{
		ViewerDir: cfg.ViewerDir,
		ImagesDir: cfg.ImagesDir,
	})

	return &Container{
		config:     cfg,
		source:     source,
		results:    results,
		references: references,
		dispatcher: dispatcher,
		metrics:    m,
		runner:     r,
		handler:    handler,
	}, nil
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config { return c.config }

// Source returns the image corpus source.
func (c *Container) Source() corpus.Source { return c.source }

// Results returns the result store.
func (c *Container) Results() *store.ResultStore { return c.results }

// References returns the reference transcription store.
func (c *Container) References() *store.ReferenceStore { return c.references }

// Runner returns the benchmark runner.
func (c *Container) Runner() *runner.Runner { return c.runner }

// Handler returns the viewer HTTP handler.
func (c *Container) Handler() http.Handler { return c.handler }

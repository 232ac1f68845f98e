package config

import (
	"fmt"
	"time"
)

// Config contains everything the benchmark needs: corpus locations,
// provider credentials and the dispatch parameters.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ImagesDir holds the manuscript corpus (png/jpg/jpeg).
	ImagesDir string `koanf:"images_dir"`

	// ResultsDir receives one JSON result record per image x model pair.
	ResultsDir string `koanf:"results_dir"`

	// ReferenceDir holds one ground-truth .md file per image.
	ReferenceDir string `koanf:"reference_dir"`

	// ReportsDir receives the generated summary and matrix reports.
	ReportsDir string `koanf:"reports_dir"`

	// ViewerDir holds the static viewer assets and the exported JSON data.
	ViewerDir string `koanf:"viewer_dir"`

	// Workers bounds the dispatch worker pool.
	Workers int `koanf:"workers"`

	// Models lists the model ids to benchmark.
	Models []string `koanf:"models"`

	// ExcludedImages lists image stems kept in the corpus but omitted
	// from WER scoring (e.g. a blank page).
	ExcludedImages []string `koanf:"excluded_images"`

	// SystemPrompt is sent to chat-style providers ahead of each image.
	SystemPrompt string `koanf:"system_prompt"`

	// PageDescriptions maps image ids to the descriptions shown in the
	// per-page matrix. Pages without an entry get a generic label.
	PageDescriptions map[string]string `koanf:"page_descriptions"`

	// ViewerAddr configures the viewer HTTP listen address.
	ViewerAddr string `koanf:"viewer_addr"`

	// RequestTimeout bounds a single provider call.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	OpenRouter  OpenRouterConfig  `koanf:"openrouter"`
	Transkribus TranskribusConfig `koanf:"transkribus"`
	Tesseract   TesseractConfig   `koanf:"tesseract"`
	Azure       AzureConfig       `koanf:"azure"`
}

// OpenRouterConfig configures the primary (metered) provider.
type OpenRouterConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Referer string `koanf:"referer"`
	Title   string `koanf:"title"`
}

// TranskribusConfig configures the secondary (credit-based) provider.
type TranskribusConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
}

// TesseractConfig configures the local recognition engine.
type TesseractConfig struct {
	Enabled   bool     `koanf:"enabled"`
	Languages []string `koanf:"languages"`
}

// AzureConfig configures the optional blob-hosted corpus mirror.
// When AccountName is empty the local images directory is used.
type AzureConfig struct {
	AccountName string `koanf:"account_name"`
	AccountKey  string `koanf:"account_key"`
	Container   string `koanf:"container"`
}

// DefaultSystemPrompt instructs vision models to transcribe 18th-century
// French manuscripts verbatim, flag unreadable words with [XXX] and return
// markdown only. Providers receive it unless the config overrides it.
const DefaultSystemPrompt = `Tu es un expert en HTR (Handwritten Text Recognition) spécialisé dans les manuscrits français du XVIIIe siècle.

Voici tes instructions précises :

1. Examine attentivement l'image du manuscrit qui te sera présentée
2. Transcris le texte exactement comme il apparaît, en respectant :
   - L'orthographe d'origine
   - La ponctuation
   - Les majuscules et minuscules
   - Les sauts de ligne

3. Règles de transcription :
   - Si un mot est illisible ou incertain, remplace-le par [XXX]
   - Conserve les ratures visibles avec ~~texte barré~~
   - Maintiens les abréviations d'origine
   - Respecte la mise en page originale

4. Format de réponse :
   - Utilise uniquement le format markdown
   - Ne fournis aucun commentaire ou analyse
   - Transcris uniquement le contenu du document

Ta tâche est de produire une transcription fidèle et précise, sans interprétation ni modernisation du texte. Ne renvoie que la transcription, sans aucun commentaire ou analyse.`

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		ImagesDir:      "images",
		ResultsDir:     "resultats",
		ReferenceDir:   "transcriptions_de_reference",
		ReportsDir:     "rapports",
		ViewerDir:      "viewer",
		Workers:        4,
		SystemPrompt:   DefaultSystemPrompt,
		ViewerAddr:     ":8000",
		RequestTimeout: 5 * time.Minute,
		OpenRouter: OpenRouterConfig{
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Transkribus: TranskribusConfig{
			BaseURL: "https://transkribus.eu/TrpServer/rest",
		},
		Tesseract: TesseractConfig{
			Languages: []string{"fra"},
		},
	}
}

func (c *Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.ImagesDir == "" || c.ResultsDir == "" || c.ReferenceDir == "" {
		return fmt.Errorf("images_dir, results_dir and reference_dir must not be empty")
	}
	return nil
}

package provider

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"go-htr-bench/internal/catalog"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// TesseractClient runs recognition locally through the Tesseract engine.
// Local runs cost nothing and never touch the network.
type TesseractClient struct {
	languages []string
}

// NewTesseractClient creates the local engine client. The language list
// maps to installed traineddata files (for example "fra").
func NewTesseractClient(languages []string) *TesseractClient {
	if len(languages) == 0 {
		languages = []string{"fra"}
	}
	return &TesseractClient{languages: languages}
}

// Transcribe runs the engine over the raw image bytes. A fresh engine
// instance per call keeps the client safe for concurrent use.
func (c *TesseractClient) Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewProviderError("cancelled before recognition", modelID, "", err)
	}

	engine := gosseract.NewClient()
	defer engine.Close()

	if err := engine.SetLanguage(c.languages...); err != nil {
		return nil, apperrors.NewProviderError("failed to set languages", modelID, "", err)
	}
	if err := engine.SetImageFromBytes(asset.Raw); err != nil {
		return nil, apperrors.NewProviderError("failed to load image", modelID, "", err)
	}

	text, err := engine.Text()
	if err != nil {
		return nil, apperrors.NewProviderError("recognition failed", modelID, "", err)
	}

	return &models.QueryResult{
		ModelID:    modelID,
		RawText:    strings.TrimSpace(text),
		Usage:      models.Usage{},
		Cost:       0,
		Editeur:    "Tesseract",
		ModeleType: catalog.TypeLibre,
	}, nil
}

// Package provider dispatches manuscript images to recognition backends
// and reshapes every native response into the provider-agnostic
// QueryResult so downstream stages never see provider specifics.
package provider

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"go-htr-bench/pkg/models"
)

// Provider is one recognition backend.
type Provider interface {
	// Transcribe sends the image to the backend and returns the
	// normalized result, including the metered cost (zero for
	// credit-based and local backends).
	Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error)
}

// Namespace prefixes reserved for non-primary providers. Everything else
// routes to the primary gateway.
const (
	transkribusPrefix = "transkribus/"
	tesseractPrefix   = "tesseract/"
)

// IsTranskribusModel reports whether the model id routes to the
// secondary provider.
func IsTranskribusModel(modelID string) bool {
	return strings.HasPrefix(modelID, transkribusPrefix)
}

// IsTesseractModel reports whether the model id routes to the local
// recognition engine.
func IsTesseractModel(modelID string) bool {
	return strings.HasPrefix(modelID, tesseractPrefix)
}

// validOpenRouterModels is the allow-list for the primary gateway.
// Unknown ids fail fast before any network call.
var validOpenRouterModels = map[string]bool{
	"google/gemini-2.0-flash-001":               true,
	"qwen/qwen-vl-plus:free":                    true,
	"qwen/qwen2.5-vl-72b-instruct:free":         true,
	"google/gemini-2.0-flash-thinking-exp:free": true,
	"google/gemini-2.0-flash-exp:free":          true,
	"qwen/qvq-72b-preview":                      true,
	"openai/o1":                                 true,
	"x-ai/grok-2-vision-1212":                   true,
	"amazon/nova-lite-v1":                       true,
	"openai/gpt-4o-2024-11-20":                  true,
	"mistralai/pixtral-large-2411":              true,
	"x-ai/grok-vision-beta":                     true,
	"anthropic/claude-3.5-sonnet":               true,
	"meta-llama/llama-3.2-90b-vision-instruct":  true,
	"qwen/qwen-2-vl-72b-instruct":               true,
	"mistralai/pixtral-12b":                     true,
	"qwen/qwen-2-vl-7b-instruct":                true,
	"openai/gpt-4o-mini":                        true,
	"openai/gpt-4-vision":                       true,
	"openai/gpt-4.5-preview":                    true,
	"anthropic/claude-3.7-sonnet":               true,
}

// validTranskribusModels is the allow-list for the secondary provider.
var validTranskribusModels = map[string]bool{
	"transkribus/CITlab_HTR+":         true,
	"transkribus/PyLaia":              true,
	"transkribus/French_18th_Century": true,
}

// newHTTPClient builds the shared HTTP client for provider calls.
// Transport tuning mirrors what worked for long image uploads: modest
// connection pooling, generous header timeouts.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"go-htr-bench/internal/catalog"
	"go-htr-bench/internal/encoder"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/internal/logger"
	"go-htr-bench/internal/pricing"
	"go-htr-bench/pkg/models"
)

// instructionText is prepended for model families that need an explicit
// prompt next to the image.
const instructionText = "Please transcribe the text in this historical French manuscript image. " +
	"Transcribe exactly what you see, preserving original spelling, punctuation, and line breaks."

// OpenRouterClient is the primary, pricing-metered provider: a
// multimodal gateway speaking the chat-completions shape.
type OpenRouterClient struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	referer      string
	title        string
	systemPrompt string
	pricing      *pricing.Cache
}

// NewOpenRouterClient creates the primary provider client. The pricing
// cache is owned by the caller and refreshed before every call.
func NewOpenRouterClient(baseURL, apiKey, referer, title, systemPrompt string,
	cache *pricing.Cache, timeout time.Duration) *OpenRouterClient {
	return &OpenRouterClient{
		client:       newHTTPClient(timeout),
		baseURL:      baseURL,
		apiKey:       apiKey,
		referer:      referer,
		title:        title,
		systemPrompt: systemPrompt,
		pricing:      cache,
	}
}

type chatContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Transcribe encodes the image under the model family's policy, sends
// the chat request and computes the metered cost from current pricing.
func (c *OpenRouterClient) Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error) {
	// Refresh pricing before every call; stale data is acceptable.
	if err := c.pricing.Refresh(ctx); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"model":         modelID,
			"cached_models": c.pricing.Len(),
		}).Warn("Pricing refresh failed, using cached table")
	}

	policy := SelectPolicy(modelID)
	payload, err := encoder.Encode(asset, policy)
	if err != nil {
		return nil, err
	}

	// Compliance double-check for the strictest byte ceiling.
	if isClaudeFamily(modelID) && len(payload.Data) > claudeSafetyThreshold {
		logger.WithFields(logrus.Fields{
			"image": asset.ID,
			"size":  len(payload.Data),
		}).Warn("Payload above safety threshold, forcing stricter re-encode")
		payload, err = encoder.Encode(asset, claudeRetryPolicy)
		if err != nil {
			return nil, err
		}
	}

	if payload.WasResized {
		logger.WithFields(logrus.Fields{
			"image":         asset.ID,
			"model":         modelID,
			"max_bytes":     policy.MaxBytes,
			"max_dimension": policy.MaxDimension,
		}).Info("Image was resized to fit provider limits")
	}

	body, err := json.Marshal(c.buildRequest(modelID, payload))
	if err != nil {
		return nil, apperrors.NewProviderError("failed to marshal request", modelID, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewProviderError("failed to build request", modelID, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError("request failed", modelID, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError("failed to read response", modelID, "", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError(
			fmt.Sprintf("unexpected status %d", resp.StatusCode), modelID, string(raw), nil)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewProviderError("malformed response", modelID, string(raw), err)
	}
	if len(parsed.Choices) == 0 {
		return nil, apperrors.NewProviderError("response missing choices", modelID, string(raw), nil)
	}

	// Missing usage defaults to zero rather than failing the call.
	var usage models.Usage
	if parsed.Usage != nil {
		usage = models.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
		}
	}

	price, _ := c.pricing.Get(modelID)
	info := catalog.Editor(modelID)

	return &models.QueryResult{
		ModelID:    modelID,
		RawText:    parsed.Choices[0].Message.Content,
		Usage:      usage,
		Pricing:    [2]float64{price.Prompt, price.Completion},
		Cost:       pricing.Cost(usage, price),
		Editeur:    info.Editeur,
		ModeleType: info.ModeleType,
	}, nil
}

func (c *OpenRouterClient) buildRequest(modelID string, payload *encoder.Payload) chatRequest {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload.Data)

	imagePart := chatContent{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: dataURL}

	var parts []chatContent
	if needsInstructionText(modelID) {
		parts = append(parts, chatContent{Type: "text", Text: instructionText})
	}
	parts = append(parts, imagePart)

	messages := make([]chatMessage, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: parts})

	return chatRequest{
		Model:       modelID,
		Messages:    messages,
		Temperature: 0.1,
	}
}

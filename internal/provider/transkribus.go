package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go-htr-bench/internal/catalog"
	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/internal/logger"
	"go-htr-bench/pkg/models"
)

// TranskribusClient is the secondary, credit-based provider. Calls are
// authenticated with a session obtained from a bearer token exchange and
// always report zero metered cost.
type TranskribusClient struct {
	client  *http.Client
	baseURL string
	token   string

	mu        sync.Mutex
	sessionID string
}

// NewTranskribusClient creates the secondary provider client.
func NewTranskribusClient(baseURL, token string, timeout time.Duration) *TranskribusClient {
	return &TranskribusClient{
		client:  newHTTPClient(timeout),
		baseURL: baseURL,
		token:   token,
	}
}

// login exchanges the configured token for a session id. The session is
// cached and reused until a call fails authentication.
func (c *TranskribusClient) login(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != "" {
		return c.sessionID, nil
	}

	form := url.Values{"token": {c.token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewProviderError("failed to build login request", "transkribus", "", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewProviderError("login request failed", "transkribus", "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewProviderError("failed to read login response", "transkribus", "", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(
			fmt.Sprintf("login returned status %d", resp.StatusCode), "transkribus", string(raw), nil)
	}

	var parsed struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.NewProviderError("malformed login response", "transkribus", string(raw), err)
	}
	if parsed.SessionID == "" {
		return "", apperrors.NewProviderError("login response missing sessionId", "transkribus", string(raw), nil)
	}

	c.sessionID = parsed.SessionID
	logger.Debug("Transkribus session established")
	return c.sessionID, nil
}

// Transcribe uploads the image as multipart form data and returns the
// recognized text. Transkribus bills in credits, so the metered cost is
// always zero.
func (c *TranskribusClient) Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error) {
	session, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	htrModel := strings.TrimPrefix(modelID, transkribusPrefix)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", asset.ID)
	if err != nil {
		return nil, apperrors.NewProviderError("failed to build multipart body", modelID, "", err)
	}
	if _, err := part.Write(asset.Raw); err != nil {
		return nil, apperrors.NewProviderError("failed to write image part", modelID, "", err)
	}
	if err := writer.WriteField("modelId", htrModel); err != nil {
		return nil, apperrors.NewProviderError("failed to write model field", modelID, "", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewProviderError("failed to finalize multipart body", modelID, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/recognition/text", &body)
	if err != nil {
		return nil, apperrors.NewProviderError("failed to build request", modelID, "", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Cookie", "JSESSIONID="+session)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderError("request failed", modelID, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewProviderError("failed to read response", modelID, "", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// Session expired; drop it so the next call re-authenticates.
		c.mu.Lock()
		c.sessionID = ""
		c.mu.Unlock()
		return nil, apperrors.NewProviderError("session expired", modelID, string(raw), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError(
			fmt.Sprintf("unexpected status %d", resp.StatusCode), modelID, string(raw), nil)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewProviderError("malformed response", modelID, string(raw), err)
	}

	return &models.QueryResult{
		ModelID:    modelID,
		RawText:    parsed.Text,
		Usage:      models.Usage{},
		Cost:       0,
		Editeur:    "Transkribus",
		ModeleType: catalog.TypeProprietaire,
	}, nil
}

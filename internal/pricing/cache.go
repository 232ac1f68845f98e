// Package pricing maintains the model pricing table fetched from the
// primary provider. The table is refreshed before every dispatch; a
// failed refresh silently degrades to the last good table so pricing
// hiccups never block transcription.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	apperrors "go-htr-bench/internal/errors"
)

// Price holds per-token unit prices for one model.
type Price struct {
	Prompt     float64
	Completion float64
}

// Cache is an explicit pricing cache with refresh-per-call lifecycle and
// fallback-to-stale semantics. Concurrent stale reads are acceptable; the
// table is guarded by a RWMutex and swapped wholesale on refresh.
type Cache struct {
	client  *http.Client
	baseURL string
	apiKey  string
	referer string
	title   string

	mu    sync.RWMutex
	table map[string]Price
}

// NewCache creates a pricing cache. The table starts empty; unknown
// models price at zero until the first successful refresh.
func NewCache(baseURL, apiKey, referer, title string, client *http.Client) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		referer: referer,
		title:   title,
		table:   make(map[string]Price),
	}
}

type modelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Pricing struct {
			Prompt     string `json:"prompt"`
			Completion string `json:"completion"`
		} `json:"pricing"`
	} `json:"data"`
}

// Refresh fetches the current price list. On any failure the previous
// table is kept and a pricing error is returned; callers log it and
// carry on with stale data.
func (c *Cache) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return apperrors.NewPricingError("failed to build pricing request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewPricingError("pricing fetch failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewPricingError("failed to read pricing response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewPricingError(
			fmt.Sprintf("pricing endpoint returned status %d", resp.StatusCode), nil)
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apperrors.NewPricingError("malformed pricing response", err)
	}

	table := make(map[string]Price, len(parsed.Data))
	for _, model := range parsed.Data {
		prompt, err1 := strconv.ParseFloat(model.Pricing.Prompt, 64)
		completion, err2 := strconv.ParseFloat(model.Pricing.Completion, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		table[model.ID] = Price{Prompt: prompt, Completion: completion}
	}

	c.mu.Lock()
	c.table = table
	c.mu.Unlock()
	return nil
}

// Get returns the cached price for a model. The zero Price is returned
// for unknown models, mirroring the "missing usage defaults to zero"
// policy on the cost side.
func (c *Cache) Get(modelID string) (Price, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	price, ok := c.table[modelID]
	return price, ok
}

// Len reports the number of models in the current table.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}

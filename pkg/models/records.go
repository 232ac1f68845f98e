package models

// Usage holds the token counts reported by a provider for a single call.
// Missing fields default to zero rather than failing the call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// ModelInfo describes the model that produced a result, together with the
// pricing that was in effect when the call was made.
// Pricing is stored as [prompt_unit_price, completion_unit_price].
type ModelInfo struct {
	ID        string     `json:"id"`
	Pricing   [2]float64 `json:"pricing"`
	TotalCost float64    `json:"total_cost"`
}

// ResultRecord is the durable per-(image, model) result contract.
// One JSON file per pair; field names and nesting are read by the
// aggregator, the report generators and the viewer data exporter and
// must not change.
type ResultRecord struct {
	Model      string    `json:"model"`
	Editeur    string    `json:"editeur"`
	ModeleType string    `json:"modele_type"`
	Image      string    `json:"image"`
	Result     string    `json:"result"`
	Timestamp  string    `json:"timestamp"`
	ModelInfo  ModelInfo `json:"model_info"`
	Usage      Usage     `json:"usage"`
	Latency    float64   `json:"latency"`
}

// QueryResult is the provider-agnostic shape a dispatch call resolves to.
// Every provider adapter reshapes its native response into this struct so
// downstream stages never see provider-specific payloads.
type QueryResult struct {
	ModelID    string
	RawText    string
	Usage      Usage
	Pricing    [2]float64
	Cost       float64
	Editeur    string
	ModeleType string
}

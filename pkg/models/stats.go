package models

// ExcludedWER is the sentinel stored in place of a WER value for images
// that stay in the corpus but are deliberately left out of scoring
// (e.g. a blank page). It must never contribute to WER statistics.
const ExcludedWER = -1.0

// ScoredRecord is one scored (image, model) pair, produced after error
// rate computation and consumed by the aggregator and viewer exports.
// MissingRef distinguishes pages without a ground-truth file from pages
// on the deliberate exclusion list; both carry the sentinel rates.
type ScoredRecord struct {
	ImageID    string  `json:"image_id"`
	ModelID    string  `json:"model_id"`
	Editeur    string  `json:"editeur"`
	ModeleType string  `json:"modele_type"`
	WER        float64 `json:"wer"`
	CER        float64 `json:"cer"`
	Excluded   bool    `json:"excluded"`
	MissingRef bool    `json:"missing_ref"`
	Cost       float64 `json:"cost"`
}

// ModelStats holds the per-model summary recomputed in full on every
// report generation. Invariant: WERMin <= WERMed <= WERMax whenever the
// WER set is non-empty.
type ModelStats struct {
	Model      string  `json:"model"`
	Editeur    string  `json:"editeur"`
	ModeleType string  `json:"modele_type"`
	NImages    int     `json:"n_images"`
	TotalCost  float64 `json:"total_cost"`
	MeanCost   float64 `json:"mean_cost"`
	WERMin     float64 `json:"wer_min"`
	WERMed     float64 `json:"wer_med"`
	WERMax     float64 `json:"wer_max"`
	CERMed     float64 `json:"cer_med"`
}

// CatalogEntry is one model in the viewer's model catalog export.
type CatalogEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

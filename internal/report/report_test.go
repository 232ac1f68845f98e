package report

import (
	"strings"
	"testing"
	"time"

	"go-htr-bench/internal/aggregator"
	"go-htr-bench/pkg/models"
)

var reportTime = time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

func TestSummaryFormatting(t *testing.T) {
	stats := []models.ModelStats{
		{
			Model: "openai/gpt-4o-mini", Editeur: "OpenAI", ModeleType: "propriétaire",
			NImages: 12, TotalCost: 0.024681, MeanCost: 0.002057,
			WERMin: 0.123, WERMed: 0.25, WERMax: 0.9876, CERMed: 0.1,
		},
		{
			Model: "qwen/qwen-vl-plus:free", Editeur: "Alibaba", ModeleType: "libre",
			NImages: 12, TotalCost: 0, MeanCost: 0,
			WERMin: 0.4, WERMed: 0.55, WERMax: 1.2, CERMed: 0.305,
		},
	}

	out := Summary(stats, reportTime)

	if !strings.Contains(out, "Généré le 31/08/2026 10:30:00") {
		t.Error("expected generation timestamp in header")
	}
	if !strings.Contains(out, "| Modèle | Éditeur | Type de modèle |") {
		t.Error("expected French column headers")
	}
	if !strings.Contains(out, "| WER max | CER médian |") {
		t.Error("expected CER column header")
	}
	// Costs at 6 decimals, error rates at 3.
	if !strings.Contains(out, "| 12 | 0.024681 | 0.002057 | 0.123 | 0.250 | 0.988 | 0.100 |") {
		t.Errorf("unexpected first row formatting:\n%s", out)
	}
	if !strings.Contains(out, "| 12 | 0.000000 | 0.000000 | 0.400 | 0.550 | 1.200 | 0.305 |") {
		t.Errorf("unexpected second row formatting:\n%s", out)
	}
	// Row order follows the input order.
	if strings.Index(out, "gpt-4o-mini") > strings.Index(out, "qwen-vl-plus") {
		t.Error("expected rows in input order")
	}
	if !strings.Contains(out, "Word Error Rate") {
		t.Error("expected explanatory paragraph")
	}
}

func TestSummaryExcludedSentinel(t *testing.T) {
	stats := []models.ModelStats{
		{
			Model: "transkribus/PyLaia", Editeur: "Transkribus", ModeleType: "propriétaire",
			NImages: 3, WERMin: models.ExcludedWER, WERMed: models.ExcludedWER,
			WERMax: models.ExcludedWER, CERMed: models.ExcludedWER,
		},
	}
	out := Summary(stats, reportTime)
	if !strings.Contains(out, "| Excluded | Excluded | Excluded | Excluded |") {
		t.Errorf("expected sentinel rendered as Excluded:\n%s", out)
	}
}

func testMatrix() *aggregator.Matrix {
	return aggregator.Pivot([]models.ScoredRecord{
		{ImageID: "page_001.png", ModelID: "model/a", WER: 0.123},
		{ImageID: "page_001.png", ModelID: "model/b", WER: 0.789},
		{ImageID: "page_002.png", ModelID: "model/a", WER: 1.5},
		{ImageID: "page_003.png", ModelID: "model/a", WER: models.ExcludedWER, Excluded: true},
	})
}

func TestMatrixMarkdown(t *testing.T) {
	out := MatrixMarkdown(testMatrix(), map[string]string{"page_001.png": "Lettre manuscrite"}, reportTime)

	if !strings.Contains(out, "| page_001.png | Lettre manuscrite | 0.123 | 0.789 |") {
		t.Errorf("unexpected scored row:\n%s", out)
	}
	// Unknown description falls back to the default.
	if !strings.Contains(out, "| page_002.png | Document d'archives historiques | 1.500 | N/A |") {
		t.Errorf("unexpected N/A row:\n%s", out)
	}
	if !strings.Contains(out, "| page_003.png | Document d'archives historiques | Excluded | N/A |") {
		t.Errorf("unexpected excluded row:\n%s", out)
	}
	// Mean skips excluded pages: (0.123 + 1.5) / 2.
	if !strings.Contains(out, "| Moyenne | | 0.811 | 0.789 |") {
		t.Errorf("unexpected mean row:\n%s", out)
	}
}

func TestMatrixHTMLColors(t *testing.T) {
	out := MatrixHTML(testMatrix(), nil, reportTime)

	checks := []struct {
		name     string
		fragment string
	}{
		{"Good cell is green", `style="background-color: #c6efce; color: #006100">0.123<`},
		{"Warning cell is yellow", `style="background-color: #ffeb9c; color: #9c5700">0.789<`},
		{"Bad cell is red", `style="background-color: #ffc7ce; color: #9c0006">1.500<`},
		{"Excluded cell is grey", `style="background-color: #e8e8e8; color: #888888">Excluded<`},
		{"Missing cell is neutral", `style="background-color: #f8f8f8; color: #888888">N/A<`},
	}
	for _, c := range checks {
		if !strings.Contains(out, c.fragment) {
			t.Errorf("%s: fragment %q not found", c.name, c.fragment)
		}
	}

	if !strings.Contains(out, "<title>Performance des modèles HTR par page</title>") {
		t.Error("expected page title")
	}
}

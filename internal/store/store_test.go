package store

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

func testRecord(image, model string) *models.ResultRecord {
	return &models.ResultRecord{
		Model:      model,
		Editeur:    "OpenAI",
		ModeleType: "propriétaire",
		Image:      image,
		Result:     "Le chat noir",
		Timestamp:  "2026-08-31T10:00:00Z",
		ModelInfo: models.ModelInfo{
			ID:        model,
			Pricing:   [2]float64{0.000003, 0.000015},
			TotalCost: 0.0105,
		},
		Usage:   models.Usage{PromptTokens: 1000, CompletionTokens: 500},
		Latency: 2.34,
	}
}

func TestResultStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewResultStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewResultStore failed: %v", err)
	}

	record := testRecord("page_001.png", "openai/gpt-4o-mini")
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("page_001.png", "openai/gpt-4o-mini")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Result != record.Result || loaded.ModelInfo.TotalCost != record.ModelInfo.TotalCost {
		t.Errorf("round trip mismatch: got %+v", loaded)
	}
	if loaded.Usage != record.Usage {
		t.Errorf("usage mismatch: got %+v", loaded.Usage)
	}
}

func TestResultStoreFileNaming(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResultStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Slashes and colons in model ids flatten to underscores.
	if err := store.Save(testRecord("page_001.png", "qwen/qwen-vl-plus:free")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	expected := filepath.Join(dir, "page_001_qwen_qwen-vl-plus_free.json")
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("expected result file at %s: %v", expected, err)
	}
}

func TestResultStoreExists(t *testing.T) {
	store, err := NewResultStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if store.Exists("page_001.png", "openai/o1") {
		t.Error("expected Exists to be false before save")
	}
	if err := store.Save(testRecord("page_001.png", "openai/o1")); err != nil {
		t.Fatal(err)
	}
	if !store.Exists("page_001.png", "openai/o1") {
		t.Error("expected Exists to be true after save")
	}
}

func TestResultStoreListSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResultStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(testRecord("page_001.png", "openai/o1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(testRecord("page_002.png", "openai/o1")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, skipped, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
	if len(skipped) != 1 || skipped[0] != "broken.json" {
		t.Errorf("expected broken.json skipped, got %v", skipped)
	}
}

func TestReferenceStoreLoad(t *testing.T) {
	dir := t.TempDir()
	refs := NewReferenceStore(dir)

	if err := refs.Save("page_001.png", "Monsieur le Comte de Provence"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page_001.md")); err != nil {
		t.Errorf("expected reference file: %v", err)
	}

	text, err := refs.Load("page_001.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if text != "Monsieur le Comte de Provence" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestReferenceStoreMissingReference(t *testing.T) {
	refs := NewReferenceStore(t.TempDir())
	_, err := refs.Load("page_999.png")
	if !apperrors.IsType(err, apperrors.ErrorTypeMissingReference) {
		t.Errorf("expected missing reference error, got %v", err)
	}
	if refs.Exists("page_999.png") {
		t.Error("expected Exists to be false")
	}
}

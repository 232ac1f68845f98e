package corpus

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "go-htr-bench/internal/errors"
)

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLocalSourceListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page_003.jpg", []byte("c"))
	writeFile(t, dir, "page_001.png", []byte("a"))
	writeFile(t, dir, "page_002.jpeg", []byte("b"))
	writeFile(t, dir, "notes.txt", []byte("ignored"))
	writeFile(t, dir, "README.md", []byte("ignored"))
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	source := NewLocalSource(dir)
	ids, err := source.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := []string{"page_001.png", "page_002.jpeg", "page_003.jpg"}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("List() = %v, want %v", ids, expected)
	}
}

func TestLocalSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page_001.png", []byte{0x89, 0x50, 0x4e, 0x47})

	source := NewLocalSource(dir)
	asset, err := source.Load(context.Background(), "page_001.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if asset.ID != "page_001.png" {
		t.Errorf("unexpected id %q", asset.ID)
	}
	if len(asset.Raw) != 4 {
		t.Errorf("unexpected raw length %d", len(asset.Raw))
	}
}

func TestLocalSourceMissingDirectory(t *testing.T) {
	source := NewLocalSource("/nonexistent/images")
	_, err := source.List(context.Background())
	if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestStem(t *testing.T) {
	if got := Stem("page_001.png"); got != "page_001" {
		t.Errorf("Stem() = %q", got)
	}
	if got := Stem("noext"); got != "noext" {
		t.Errorf("Stem() = %q", got)
	}
}

package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// noisyImage produces an image that compresses poorly, so size budgets
// actually bite during tests.
func noisyImage(width, height int) image.Image {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255,
			})
		}
	}
	return img
}

func pngAsset(t *testing.T, img image.Image) models.ImageAsset {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return models.ImageAsset{ID: "test_page_01", Path: "test_page_01.png", Raw: buf.Bytes()}
}

func TestEncodeWithinBudget(t *testing.T) {
	asset := pngAsset(t, noisyImage(400, 300))

	budgets := []int{20 * 1024, 50 * 1024, 200 * 1024}
	for _, budget := range budgets {
		payload, err := Encode(asset, Policy{MaxBytes: budget})
		if err != nil {
			t.Fatalf("Encode with budget %d failed: %v", budget, err)
		}
		limit := int(sizeMargin * float64(budget))
		if len(payload.Data) > limit {
			t.Errorf("budget %d: payload size %d exceeds limit %d", budget, len(payload.Data), limit)
		}
	}
}

func TestEncodeNoResizeWhenBudgetGenerous(t *testing.T) {
	asset := pngAsset(t, noisyImage(100, 80))

	payload, err := Encode(asset, Policy{MaxBytes: 10 * 1024 * 1024})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if payload.WasResized {
		t.Error("expected WasResized=false for a generous budget")
	}
	if payload.Width != 100 || payload.Height != 80 {
		t.Errorf("expected dimensions 100x80, got %dx%d", payload.Width, payload.Height)
	}
}

func TestEncodeMarksResizedOnQualityReduction(t *testing.T) {
	asset := pngAsset(t, noisyImage(400, 300))

	// Tight enough to force at least one quality reduction pass.
	payload, err := Encode(asset, Policy{MaxBytes: 30 * 1024})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !payload.WasResized {
		t.Error("expected WasResized=true after multi-pass quality reduction")
	}
}

func TestEncodeCapsLargerDimension(t *testing.T) {
	asset := pngAsset(t, noisyImage(300, 120))

	payload, err := Encode(asset, Policy{MaxBytes: 10 * 1024 * 1024, MaxDimension: 150})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if payload.Width != 150 {
		t.Errorf("expected larger dimension capped at 150, got %d", payload.Width)
	}
	if payload.Height != 60 {
		t.Errorf("expected proportional height 60, got %d", payload.Height)
	}
	if !payload.WasResized {
		t.Error("expected WasResized=true after dimension cap")
	}

	// The capped payload must decode to the capped dimensions.
	decoded, err := jpeg.Decode(bytes.NewReader(payload.Data))
	if err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if decoded.Bounds().Dx() != 150 || decoded.Bounds().Dy() != 60 {
		t.Errorf("decoded dimensions %dx%d, want 150x60",
			decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestEncodeImpossibleBudgetFailsLoudly(t *testing.T) {
	asset := pngAsset(t, noisyImage(200, 200))

	_, err := Encode(asset, Policy{MaxBytes: 16})
	if err == nil {
		t.Fatal("expected an error for an unreachable byte budget")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeEncoding) {
		t.Errorf("expected encoding error, got %v", err)
	}
}

func TestEncodeCorruptInput(t *testing.T) {
	asset := models.ImageAsset{ID: "bad", Path: "bad.png", Raw: []byte("not an image")}

	_, err := Encode(asset, Policy{MaxBytes: 1024 * 1024})
	if err == nil {
		t.Fatal("expected an error for corrupt input")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeEncoding) {
		t.Errorf("expected encoding error, got %v", err)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Path != "bad.png" {
		t.Errorf("expected error to carry the source path, got %v", err)
	}
}

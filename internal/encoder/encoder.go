// Package encoder turns raw manuscript images into provider-compliant
// JPEG payloads. Providers enforce hard byte and pixel ceilings; the
// encoder trades quality, then resolution, until the payload fits.
package encoder

import (
	"bytes"
	"image"
	stddraw "image/draw"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

const (
	initialQuality = 95
	// Starting quality when the source file already sits near the budget;
	// the file size is an a-priori hint, not an exact predictor.
	preShrunkQuality = 85
	preShrunkFactor  = 0.8

	minQuality   = 30
	qualityStep  = 10
	resetQuality = 70

	// 5% safety margin under the provider's hard byte ceiling.
	sizeMargin         = 0.95
	resizeBudgetFactor = 0.9

	// Hard ceiling on compliance iterations. A budget smaller than any
	// achievable encoding must fail loudly instead of looping forever.
	maxIterations = 25
)

// Encode produces a JPEG payload no larger than sizeMargin times the
// policy byte budget, downscaling as little as visual fidelity allows.
//
// The passes are deterministic: normalize color mode, cap dimensions,
// then re-encode at decreasing quality; once quality bottoms out, shrink
// geometrically and reset quality. WasResized reports whether any pass
// mutated the image after the first encode attempt.
func Encode(asset models.ImageAsset, policy Policy) (*Payload, error) {
	src, _, err := image.Decode(bytes.NewReader(asset.Raw))
	if err != nil {
		return nil, apperrors.NewEncodingError("failed to decode image", asset.Path, err)
	}

	img := flattenToRGB(src)
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	wasResized := false

	if policy.MaxDimension > 0 && (width > policy.MaxDimension || height > policy.MaxDimension) {
		width, height = capDimensions(width, height, policy.MaxDimension)
		img = resample(img, width, height)
		wasResized = true
	}

	quality := initialQuality
	if len(asset.Raw) > int(preShrunkFactor*float64(policy.MaxBytes)) {
		quality = preShrunkQuality
	}

	limit := int(sizeMargin * float64(policy.MaxBytes))
	var buf bytes.Buffer

	for iteration := 0; ; iteration++ {
		if iteration >= maxIterations {
			return nil, apperrors.NewEncodingError(
				"size budget not reachable within iteration ceiling", asset.Path, nil)
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, apperrors.NewEncodingError("jpeg encoding failed", asset.Path, err)
		}

		if buf.Len() <= limit {
			break
		}

		if quality > minQuality {
			quality -= qualityStep
		} else {
			factor := math.Sqrt(resizeBudgetFactor * float64(policy.MaxBytes) / float64(buf.Len()))
			width = scaled(width, factor)
			height = scaled(height, factor)
			img = resample(img, width, height)
			quality = resetQuality
		}
		wasResized = true
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())

	return &Payload{
		Data:       data,
		Width:      width,
		Height:     height,
		WasResized: wasResized,
	}, nil
}

// flattenToRGB composites the image over a white background, which both
// drops any alpha channel and normalizes exotic color modes.
func flattenToRGB(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	stddraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, stddraw.Src)
	stddraw.Draw(dst, dst.Bounds(), src, bounds.Min, stddraw.Over)
	return dst
}

// capDimensions shrinks proportionally so the larger dimension equals the
// limit exactly.
func capDimensions(width, height, maxDimension int) (int, int) {
	if width >= height {
		scale := float64(maxDimension) / float64(width)
		return maxDimension, scaled(height, scale)
	}
	scale := float64(maxDimension) / float64(height)
	return scaled(width, scale), maxDimension
}

func resample(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func scaled(dimension int, factor float64) int {
	v := int(float64(dimension) * factor)
	if v < 1 {
		return 1
	}
	return v
}

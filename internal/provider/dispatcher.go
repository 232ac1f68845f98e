package provider

import (
	"context"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// Dispatcher validates model ids against the allow-lists and routes each
// call to the backend owning the id's namespace.
type Dispatcher struct {
	primary     Provider
	secondary   Provider
	local       Provider
	localModels map[string]bool
}

// NewDispatcher wires the three backends together. secondary and local
// may be nil when the corresponding provider is not configured; routing
// a model to a nil backend is an invalid-model error.
func NewDispatcher(primary, secondary, local Provider) *Dispatcher {
	return &Dispatcher{
		primary:   primary,
		secondary: secondary,
		local:     local,
		localModels: map[string]bool{
			"tesseract/fra": true,
		},
	}
}

// Transcribe routes one image-model pair. Unknown model ids fail before
// any network or engine call.
func (d *Dispatcher) Transcribe(ctx context.Context, asset models.ImageAsset, modelID string) (*models.QueryResult, error) {
	switch {
	case IsTranskribusModel(modelID):
		if !validTranskribusModels[modelID] {
			return nil, apperrors.NewInvalidModelError(modelID)
		}
		if d.secondary == nil {
			return nil, apperrors.NewInvalidModelError(modelID)
		}
		return d.secondary.Transcribe(ctx, asset, modelID)

	case IsTesseractModel(modelID):
		if !d.localModels[modelID] {
			return nil, apperrors.NewInvalidModelError(modelID)
		}
		if d.local == nil {
			return nil, apperrors.NewInvalidModelError(modelID)
		}
		return d.local.Transcribe(ctx, asset, modelID)

	default:
		if !validOpenRouterModels[modelID] {
			return nil, apperrors.NewInvalidModelError(modelID)
		}
		return d.primary.Transcribe(ctx, asset, modelID)
	}
}

// ValidateModels checks a configured model list up front so a run fails
// before any work is scheduled.
func (d *Dispatcher) ValidateModels(modelIDs []string) error {
	for _, id := range modelIDs {
		switch {
		case IsTranskribusModel(id):
			if !validTranskribusModels[id] {
				return apperrors.NewInvalidModelError(id)
			}
		case IsTesseractModel(id):
			if !d.localModels[id] {
				return apperrors.NewInvalidModelError(id)
			}
		default:
			if !validOpenRouterModels[id] {
				return apperrors.NewInvalidModelError(id)
			}
		}
	}
	return nil
}

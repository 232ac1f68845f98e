package errors

import "fmt"

// ErrorType represents different categories of benchmark errors
type ErrorType string

const (
	// ErrorTypeEncoding covers unreadable/corrupt images and a compliance
	// loop that hit its iteration ceiling.
	ErrorTypeEncoding ErrorType = "encoding"
	// ErrorTypeInvalidModel is raised before any network call for model
	// ids outside the allow-list.
	ErrorTypeInvalidModel ErrorType = "invalid_model"
	// ErrorTypeProvider covers non-2xx responses, malformed payloads and
	// responses missing required fields.
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypePricing marks a pricing refresh failure. Non-fatal: the
	// dispatcher falls back to the last good table.
	ErrorTypePricing ErrorType = "pricing"
	// ErrorTypeMissingReference means no ground-truth file exists for an
	// image; the pair is excluded from WER aggregation.
	ErrorTypeMissingReference ErrorType = "missing_reference"
	ErrorTypeStorage          ErrorType = "storage"
	ErrorTypeValidation       ErrorType = "validation"
)

// AppError is a structured benchmark error carrying enough context to
// diagnose a failure without re-running (source path, model id, raw
// provider response where applicable).
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Model   string    `json:"model,omitempty"`
	RawBody string    `json:"raw_body,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Model != "" {
		msg += fmt.Sprintf(" (model: %s)", e.Model)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewEncodingError creates an encoding error identifying the source image
func NewEncodingError(message, path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeEncoding,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewInvalidModelError creates an invalid-model error
func NewInvalidModelError(model string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidModel,
		Message: "unknown model id, check the configured model list",
		Model:   model,
	}
}

// NewProviderError creates a provider error carrying the raw response body
func NewProviderError(message, model, rawBody string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeProvider,
		Message: message,
		Model:   model,
		RawBody: rawBody,
		Cause:   cause,
	}
}

// NewPricingError creates a pricing-fetch error
func NewPricingError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypePricing,
		Message: message,
		Cause:   cause,
	}
}

// NewMissingReferenceError creates a missing-reference error for an image
func NewMissingReferenceError(imageID, path string) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingReference,
		Message: fmt.Sprintf("no reference transcription for image %q", imageID),
		Path:    path,
	}
}

// NewStorageError creates a storage error
func NewStorageError(message, path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

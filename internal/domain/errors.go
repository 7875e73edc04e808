package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	ErrOAuthExchange = errors.New("oauth exchange failed")
	ErrDecryption    = errors.New("credentials decryption failed")
	ErrProviderAPI   = errors.New("provider api error")
	ErrEmbedding     = errors.New("embedding failed")
	ErrLLM           = errors.New("llm completion failed")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AuthorizationError is returned when an authenticated caller acts outside
// their team or role, including an OAuth state issued to another user.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return "authorization: " + e.Reason }

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// OAuthExchangeError carries the provider's response when a code exchange fails.
type OAuthExchangeError struct {
	Provider   IntegrationType
	StatusCode int
	Payload    map[string]any
}

func (e *OAuthExchangeError) Error() string {
	if msg, ok := e.Payload["error"].(string); ok && msg != "" {
		return fmt.Sprintf("%s oauth exchange: %s", e.Provider, msg)
	}
	return fmt.Sprintf("%s oauth exchange: status %d", e.Provider, e.StatusCode)
}

func (e *OAuthExchangeError) Unwrap() error { return ErrOAuthExchange }

// DecryptionError reports a credential blob that cannot be decrypted.
type DecryptionError struct {
	Cause error
}

func (e *DecryptionError) Error() string {
	if e.Cause == nil {
		return ErrDecryption.Error()
	}
	return ErrDecryption.Error() + ": " + e.Cause.Error()
}

func (e *DecryptionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDecryption}
	}
	return []error{ErrDecryption, e.Cause}
}

// ProviderAPIError is a non-success response from a provider's data API.
type ProviderAPIError struct {
	Provider   IntegrationType
	StatusCode int
	Message    string
}

func (e *ProviderAPIError) Error() string {
	return fmt.Sprintf("%s api: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderAPIError) Unwrap() error { return ErrProviderAPI }

// Retryable reports whether the request may succeed if repeated.
func (e *ProviderAPIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

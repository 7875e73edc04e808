package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Error codes returned alongside the message.
const (
	codeValidation    = "VALIDATION"
	codeUnauthorized  = "UNAUTHORIZED"
	codeForbidden     = "FORBIDDEN"
	codeNotFound      = "NOT_FOUND"
	codeConflict      = "CONFLICT"
	codeOAuthExchange = "OAUTH_EXCHANGE_FAILED"
	codeDecryption    = "CREDENTIALS_UNAVAILABLE"
	codeProviderAPI   = "PROVIDER_API_ERROR"
	codeUnavailable   = "AI_UNAVAILABLE"
	codeInternal      = "INTERNAL"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Fields  []fieldError   `json:"fields,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// decodeJSON reads a JSON body into dst. An empty body is allowed when
// optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return domain.NewValidationError("body", "invalid JSON body")
	}
	return nil
}

// handleError maps a service error to its HTTP status and response body.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		ve    *domain.ValidationError
		oe    *domain.OAuthExchangeError
		authz *domain.AuthorizationError
	)

	switch {
	case errors.As(err, &oe):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: oe.Error(), Code: codeOAuthExchange, Details: oe.Payload})
	case errors.As(err, &ve):
		fields := make([]fieldError, len(ve.Errors))
		for i, fe := range ve.Errors {
			fields[i] = fieldError{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Code: codeValidation, Fields: fields})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Code: codeUnauthorized})
	case errors.As(err, &authz):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: authz.Reason, Code: codeForbidden})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Code: codeForbidden})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Code: codeNotFound})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: codeConflict})
	case errors.Is(err, domain.ErrDecryption):
		log.ErrorContext(r.Context(), "credentials unavailable", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "integration credentials are unavailable, reconnect the integration", Code: codeDecryption})
	case errors.Is(err, domain.ErrProviderAPI):
		log.WarnContext(r.Context(), "provider api error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Code: codeProviderAPI})
	case errors.Is(err, domain.ErrEmbedding), errors.Is(err, domain.ErrLLM):
		log.ErrorContext(r.Context(), "ai backend error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "AI service is temporarily unavailable", Code: codeUnavailable})
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: codeInternal})
	}
}

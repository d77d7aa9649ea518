package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shelterstock/internal/core"
	"shelterstock/internal/records"
)

// errorResponse is the error body every endpoint returns: a single
// human-readable message the client renders as-is.
type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondDomainError maps engine errors onto the HTTP taxonomy: bad input
// is 400 with the validation message, a missing record ID is 404, and
// anything else is a store fault reported as 500 without leaking internals.
func respondDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case core.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, records.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	default:
		slog.ErrorContext(ctx, "Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

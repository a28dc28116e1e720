// Package http serves the JSON API consumed by the dashboard front
// end.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"studioops/internal/core"
	applog "studioops/internal/log"
	"studioops/internal/services"
	"studioops/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps known error kinds onto HTTP statuses. Anything
// unrecognized is logged and hidden behind a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingProject),
		errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.NewFields().WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a request body into dst with unknown fields
// tolerated and a 1 MiB size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

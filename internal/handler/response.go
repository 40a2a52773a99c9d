package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/observability"
)

// StatusFor maps a failure kind to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidLocalRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUpstreamMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrUpstreamRejected):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw relays a remote authority body unchanged
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeFailure writes {"success":false,"error":kind} with the given status
func writeFailure(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := observability.FromContext(r.Context())
	attrs := []any{
		slog.Int("status", status),
		slog.String("kind", domain.ErrorKind(err)),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request failed", attrs...)
	}

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   domain.ErrorKind(err),
	})
}

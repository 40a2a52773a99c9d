package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// OpenAPIValidatorConfig holds configuration for OpenAPI validation middleware
type OpenAPIValidatorConfig struct {
	Enabled  bool
	SpecPath string
	// SkipPaths are exact paths or path prefixes that bypass validation
	SkipPaths []string
}

// DefaultOpenAPIValidatorConfig returns the validator configuration for the gateway.
// Only the JSON API is described by the document; pages, probes and metrics are skipped.
func DefaultOpenAPIValidatorConfig(enabled bool, specPath string) *OpenAPIValidatorConfig {
	if specPath == "" {
		specPath = "artifacts/openapi.yaml"
	}
	return &OpenAPIValidatorConfig{
		Enabled:  enabled,
		SpecPath: specPath,
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/api/logout",
		},
	}
}

// APIValidator checks /api request bodies against the gateway's OpenAPI document.
// Responses are never validated: successful bodies belong to the remote authority.
type APIValidator struct {
	router    routers.Router
	skipPaths []string
}

// NewAPIValidator loads and validates the document at specPath.
func NewAPIValidator(specPath string, skipPaths []string) (*APIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %s: %w", specPath, err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document %s: %w", specPath, err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &APIValidator{router: router, skipPaths: skipPaths}, nil
}

// Validate returns nil for requests outside the documented API. Undocumented
// routes are left to the HTTP router so they keep answering 404.
func (v *APIValidator) Validate(r *http.Request) error {
	if !strings.HasPrefix(r.URL.Path, "/api/") || shouldSkipPath(r.URL.Path, v.skipPaths) {
		return nil
	}

	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
			return nil
		}
		return err
	}

	return openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			// The Token Gate and the action handlers own the session cookie.
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	})
}

// OpenAPIValidator rejects malformed /api requests with 400 before they reach a handler.
// A document that cannot be loaded disables validation and is logged as an error.
func OpenAPIValidator(config *OpenAPIValidatorConfig) func(next http.Handler) http.Handler {
	passThrough := func(next http.Handler) http.Handler { return next }

	if config == nil || !config.Enabled {
		slog.Info("OpenAPI validation disabled")
		return passThrough
	}

	validator, err := NewAPIValidator(config.SpecPath, config.SkipPaths)
	if err != nil {
		slog.Error("OpenAPI validation unavailable", slog.String("error", err.Error()))
		return passThrough
	}
	slog.Info("OpenAPI validation enabled", slog.String("spec_path", config.SpecPath))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validator.Validate(r); err != nil {
				slog.Warn("request rejected by openapi validation",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				writeValidationError(w, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func shouldSkipPath(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if path == skipPath || strings.HasPrefix(path, strings.TrimSuffix(skipPath, "/")+"/") {
			return true
		}
	}
	return false
}

// writeValidationError writes the gateway failure envelope with the validator detail
func writeValidationError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "invalid_request",
		"detail":  detail,
	})
}

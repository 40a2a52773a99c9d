package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/observability"
)

// LoginPath is where the gate sends requests without a valid session
const LoginPath = "/"

// TokenValidator confirms a session token with the remote authority
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// Gate guards the protected path prefixes. A request under one of them passes only when its
// token cookie is confirmed by the remote authority; every other outcome is a temporary
// redirect to the login page. Requests outside the prefixes pass untouched.
func Gate(validator TokenValidator, protectedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsProtected(r.URL.Path, protectedPaths) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := domain.SessionToken(r)
			if !ok {
				observability.GateDecisionsTotal.WithLabelValues("missing_cookie").Inc()
				http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
				return
			}

			if err := validator.ValidateToken(r.Context(), token); err != nil {
				observability.FromContext(r.Context()).Info("session rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", domain.ErrorKind(err)))
				observability.GateDecisionsTotal.WithLabelValues("rejected").Inc()
				http.Redirect(w, r, LoginPath, http.StatusTemporaryRedirect)
				return
			}

			observability.GateDecisionsTotal.WithLabelValues("allowed").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// IsProtected reports whether path equals one of the prefixes or lies beneath it.
// A root prefix ("/") protects every path.
func IsProtected(path string, protectedPaths []string) bool {
	for _, prefix := range protectedPaths {
		if prefix == "" {
			continue
		}
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

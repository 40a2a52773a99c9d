// Package server assembles the HTTP surface of the admin gateway.
package server

import (
	"context"
	"net/http"
	"path/filepath"

	"foresttime-admin/internal/config"
	"foresttime-admin/internal/domain"
	"foresttime-admin/internal/handler"
	"foresttime-admin/internal/middleware"
	"foresttime-admin/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router is built from
type Deps struct {
	Config       *config.Config
	Actions      []domain.ActionSpec
	AuthService  *service.AuthService
	ProxyService *service.ProxyService
}

// NewRouter builds the gateway router. The login rate limiter lives until ctx is done.
func NewRouter(ctx context.Context, deps Deps) http.Handler {
	cfg := deps.Config

	authHandler := handler.NewAuthHandler(deps.AuthService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.Gate(deps.AuthService, cfg.ProtectedPaths))
	r.Use(middleware.OpenAPIValidator(middleware.DefaultOpenAPIValidatorConfig(cfg.OpenAPIValidation, cfg.OpenAPISpecPath)))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(deps.AuthService))
	r.Handle("/metrics", promhttp.Handler())

	// Login page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.StaticDir, "index.html"))
	})

	// Admin pages; the gate has already confirmed the session
	pages := http.FileServer(http.Dir(cfg.StaticDir))
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusMovedPermanently)
	})
	r.Get("/admin/*", pages.ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	r.Route("/api", func(r chi.Router) {
		loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, cfg.LoginRateBurst)

		r.With(loginLimiter.Middleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		for _, spec := range deps.Actions {
			r.Method(http.MethodPost, "/"+spec.Route, handler.NewActionHandler(spec, deps.ProxyService))
		}
	})

	return r
}

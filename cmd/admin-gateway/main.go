package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foresttime-admin/internal/authority"
	"foresttime-admin/internal/config"
	"foresttime-admin/internal/observability"
	"foresttime-admin/internal/server"
	"foresttime-admin/internal/service"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting admin gateway", slog.String("environment", cfg.Environment))

	actions, err := config.LoadActions(cfg.ActionsFile)
	if err != nil {
		slog.Error("failed to load action table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("action table loaded", slog.Int("actions", len(actions)))

	client := authority.NewClient(cfg.GASURL, cfg.UpstreamTimeout)
	authService := service.NewAuthService(client)
	proxyService := service.NewProxyService(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := server.NewRouter(ctx, server.Deps{
		Config:       cfg,
		Actions:      actions,
		AuthService:  authService,
		ProxyService: proxyService,
	})

	// Writes must outlast the slowest remote authority call
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("admin gateway listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	slog.Info("server stopped gracefully")
}

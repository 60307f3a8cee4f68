package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Trevorton27/voice-app/internal/api"
	"github.com/Trevorton27/voice-app/internal/config"
	"github.com/Trevorton27/voice-app/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Storage gateway, built once and shared read-only by all handlers.
	// A configuration problem is not fatal: the server starts and every
	// storage-backed request reports the error until it is fixed.
	var store storage.Gateway
	gw, storeErr := storage.NewGCSGateway(ctx, cfg.Storage)
	if storeErr != nil {
		slog.Warn("storage unavailable, requests will fail until configured", "error", storeErr)
	} else {
		store = gw
		defer gw.Close()
		slog.Info("storage gateway ready", "bucket", gw.Bucket())
	}

	router := api.NewRouter(store, storeErr, cfg)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

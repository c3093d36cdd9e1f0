// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the PagePress server. It loads
// configuration, connects to Postgres and Valkey, wires the generation
// pipeline, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"pagepress/internal/ai"
	"pagepress/internal/cache"
	"pagepress/internal/config"
	"pagepress/internal/database"
	"pagepress/internal/extract"
	"pagepress/internal/fetch"
	"pagepress/internal/handlers"
	"pagepress/internal/middleware"
	"pagepress/internal/pipeline"
	"pagepress/internal/router"
	"pagepress/internal/store"
)

func main() {
	// Local development reads a .env file; production sets the
	// environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(context.Background(), cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Valkey is optional: without it share pages render on every hit.
	var valkeyClient *redis.Client
	if cfg.ValkeyHost != "" {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	} else {
		slog.Warn("valkey not configured — share pages are not cached")
	}
	shareCache := cache.NewShareCache(valkeyClient, cache.DefaultShareTTL)

	// Data stores.
	templateStore := store.NewTemplateStore(db)
	libraryStore := store.NewLibraryStore(db)
	publishedStore := store.NewPublishedStore(db)

	// AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel},
		"openai": {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBase},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// The generation pipeline ties analysis, generation and publishing
	// together.
	pipe := pipeline.New(pipeline.Config{
		Registry:        aiRegistry,
		Extractor:       extract.New(aiRegistry, cfg.ExtractTimeout),
		Fetcher:         fetch.New(fetch.WithTimeout(cfg.FetchTimeout)),
		Templates:       templateStore,
		Library:         libraryStore,
		Published:       publishedStore,
		BaseURL:         cfg.BaseURL,
		GenerateTimeout: cfg.GenerateTimeout,
	})

	api := handlers.NewAPI(pipe, templateStore, libraryStore, publishedStore, shareCache, aiRegistry)

	// Rate limiter for the endpoints that spend model calls.
	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimit, cfg.AIRateWindow)
	defer aiLimiter.Stop()

	r := router.New(api, aiLimiter)

	// WriteTimeout must accommodate generation requests that wait on
	// the model, up to the configured generation deadline.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

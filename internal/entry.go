// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/dagaz/internal/activity"
	"github.com/starford/dagaz/internal/api"
	"github.com/starford/dagaz/internal/archive"
	"github.com/starford/dagaz/internal/contentstore"
	"github.com/starford/dagaz/internal/indexstore"
	"github.com/starford/dagaz/internal/lifecycle"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/noteservice"
	"github.com/starford/dagaz/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("index_path", cfg.Index.Path),
		slog.String("content_backend", cfg.Content.Backend),
		slog.String("expiry", cfg.Lifecycle.Expiry.Std().String()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open (or silently rebuild) the index document.
	store, err := indexstore.Open(cfg.Index.Path, cfg.Lifecycle.Expiry.Std())
	if err != nil {
		return fmt.Errorf("init index store: %w", err)
	}

	engine := lifecycle.New(store, cfg.Lifecycle.Expiry.Std())

	// One-time startup expiration scan, before any window is
	// restored. Also flushes the normalized document to disk so a
	// rebuilt index reaches the durable path immediately.
	faded, err := engine.ExpireScan()
	if err != nil {
		return fmt.Errorf("startup expiration scan: %w", err)
	}
	logger.Info("Startup scan complete", slog.Int("archived", faded))

	// Open the content store backend.
	var content contentstore.Provider
	switch cfg.Content.Backend {
	case ContentBackendFS:
		content, err = contentstore.NewFS(cfg.Content.Path)
	default:
		content, err = contentstore.OpenSQLite(cfg.Content.Path)
	}
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	defer content.Close()

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Activity tracker: debounced qualifying triggers → one
	// persisted lastActiveAt update each.
	tracker := activity.NewTracker(cfg.Lifecycle.IdleDebounce.Std(), engine.MarkActive)
	defer tracker.Close()

	svc := noteservice.NewService(store, engine, tracker, content, broker)
	adapter := archive.NewAdapter(store, engine)

	if app.mcp {
		logger.Info("Serving MCP on stdio")
		return mcpserver.New(svc, adapter).ServeStdio()
	}

	apiRouter := api.NewRouter(svc, adapter, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the index file for out-of-band replacement.
	g.Go(func() error {
		if err := indexstore.Watch(gCtx, store, logger, func() {
			broker.PublishNoteEvent("index.reloaded", "")
		}); err != nil {
			logger.Warn("index watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Persist pending debounced activity before the listener goes away.
		tracker.Flush()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

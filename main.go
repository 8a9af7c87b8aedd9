package main

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

	"propertyexpenses/internal/config"
	"propertyexpenses/internal/events"
	"propertyexpenses/internal/logging"
	"propertyexpenses/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var (
	db        store.Store
	publisher events.Publisher = events.Noop{}
)

// @title Property Expenses API
// @version 1.0
// @description Expenses of a household's properties, the properties' service accounts and simple reports over them.
// @host localhost:3000
// @BasePath /
func main() {
	if err := runApp(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func runApp() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logging.New(os.Stdout, level, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer s.Close()
	db = s

	publisher = openPublisher(cfg, logger)
	defer publisher.Close()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        setupRouter(cfg, logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	if err := serve(ctx, srv, cfg.ShutdownTimeout, logger); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// serve runs srv until ctx is cancelled, then shuts it down within shutdownTimeout
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

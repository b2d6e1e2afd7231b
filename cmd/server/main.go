package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/giftdeed/internal/config"
	"github.com/mmynk/giftdeed/internal/document"
	"github.com/mmynk/giftdeed/internal/middleware"
	"github.com/mmynk/giftdeed/internal/service"
	"github.com/mmynk/giftdeed/internal/storage/sqlite"
	"github.com/mmynk/giftdeed/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv(config.Defaults(), os.LookupEnv)
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Setup(os.Stderr, level)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.FontPath == "" {
		slog.Warn("FONT_PATH not set, PDF output will lack Japanese glyphs")
	}

	metrics := middleware.NewMetrics()
	svc, err := service.NewFormService(store, metrics, service.Config{
		PDF:          document.PDFOptions{FontPath: cfg.FontPath},
		ExportFormat: cfg.ExportFormat,
	})
	if err != nil {
		return err
	}

	handler := middleware.CORS(middleware.Logging(metrics.Instrument(svc.Routes())))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", cfg.Addr, "export_format", cfg.ExportFormat)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if _, err := telemetry.Setup(cfg.LogFormat, cfg.LogLevel); err != nil {
		log.Fatalf("logger setup: %v", err)
	}
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("server.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		telemetry.Error("server.error", map[string]any{"error": err})
		_ = app.Close()
		os.Exit(1)
	}

	telemetry.Info("server.start", map[string]any{
		"addr":      addr,
		"env":       cfg.Env,
		"db_driver": cfg.DBDriver,
		"provider":  cfg.LLMProvider,
	})
	if err := serve(ctx, srv, ln, cfg.AnalysisTimeout+5*time.Second); err != nil {
		telemetry.Error("server.error", map[string]any{"error": err})
		_ = app.Close()
		os.Exit(1)
	}
	telemetry.Info("server.stopped", nil)
}

// serve runs srv on ln until ctx is done, then drains in-flight requests.
// It returns only after Shutdown has finished, so callers may release
// resources the handlers use.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		telemetry.Info("server.draining", map[string]any{"timeout_ms": shutdownTimeout.Milliseconds()})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

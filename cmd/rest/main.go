package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"docchat-be/internal/bootstrap"
	"docchat-be/internal/config"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/server"
	"docchat-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	defer sysLogger.Sync()

	// 2. Initialize Tracer
	shutdownTracer, err := tracer.InitTracer(ctx, cfg.Otel, "docchat-be")
	if err != nil {
		sysLogger.Warn("MAIN", "tracing disabled", map[string]interface{}{"error": err.Error()})
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg, sysLogger)
	if err != nil {
		sysLogger.Error("MAIN", "bootstrap failed", map[string]interface{}{"error": err.Error()})
		log.Fatalf("bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Run server until a signal arrives
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracer(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("MAIN", "server stopped with error", map[string]interface{}{"error": err.Error()})
		return
	}
	sysLogger.Info("MAIN", "server stopped", nil)
}

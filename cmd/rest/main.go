package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"venture-ai-be/internal/bootstrap"
	"venture-ai-be/internal/config"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/server"
	"venture-ai-be/internal/service"
	"venture-ai-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

const auditDurable = "venture-ai-audit"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer appLogger.Sync()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, appLogger)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg, appLogger, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start job consumer: %v", err)
	}
	if container.NatsSubscriber != nil {
		if err := container.NatsSubscriber.Subscribe(ctx, "events.>", auditDurable, service.NewAuditHandler(appLogger)); err != nil {
			appLogger.Warn("MAIN", "Audit subscriber not started", map[string]interface{}{"error": err.Error()})
		}
	}

	// 5. Run Server until a signal arrives
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("MAIN", "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}

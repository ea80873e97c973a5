package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/onramp/internal/app"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/onramp/internal/trial/infrastructure/schedule"
	"github.com/felixgeelhaar/onramp/pkg/config"
	"github.com/felixgeelhaar/onramp/pkg/observability"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Setup logger
	logger := observability.NewLogger(observability.LogConfig{
		Level:          cfg.LogLevel,
		Format:         observability.LogFormat(cfg.LogFormat),
		Output:         os.Stdout,
		ServiceName:    "onramp-worker",
		ServiceVersion: version,
	})
	logger.Info("starting onramp worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()
	logger.Info("connected to database", "driver", container.DBDriver)

	// Create event publisher
	publisher, err := app.NewPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	logger.Info("event publisher initialized")

	var processor *outbox.Processor
	processorDone := make(chan struct{})
	if cfg.OutboxProcessorEnabled {
		processor = container.NewOutboxProcessor(publisher)
		go func() {
			defer close(processorDone)
			if err := processor.Run(ctx); err != nil {
				logger.Error("outbox processor failed", "error", err)
			}
		}()
	} else {
		logger.Info("outbox processor disabled")
		close(processorDone)
	}

	scheduler, err := schedule.NewReminderScheduler(cfg.TrialReminderSchedule, container.Sweeper, logger)
	if err != nil {
		logger.Error("failed to schedule trial reminders", "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(ctx); err != nil {
		logger.Error("failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthHandler(container.Health, processor),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")
	<-processorDone
	logger.Info("worker stopped")
}

func healthHandler(health *observability.HealthRegistry, processor *outbox.Processor) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{"status": "ok", "outbox_enabled": processor != nil}
		if processor != nil {
			stats := processor.Stats()
			response["published"] = stats.Published
			response["failed"] = stats.Failed
			response["dead_lettered"] = stats.DeadLettered
			response["purged"] = stats.Purged
			response["lag_seconds"] = stats.LagSeconds
			response["last_processed_at"] = stats.LastProcessedAt
			response["last_error_at"] = stats.LastErrorAt
			response["last_error"] = stats.LastError
		}
		writeJSON(w, http.StatusOK, response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		report := health.Check(checkCtx)
		code := http.StatusOK
		if report.Status == observability.HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, report)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to write health response", "error", err)
	}
}

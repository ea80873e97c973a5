package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/adapter/cli/onboarding"
	"github.com/felixgeelhaar/onramp/adapter/cli/org"
	"github.com/felixgeelhaar/onramp/adapter/cli/payment"
	"github.com/felixgeelhaar/onramp/adapter/cli/reminders"
	"github.com/felixgeelhaar/onramp/adapter/cli/trial"
	"github.com/felixgeelhaar/onramp/internal/app"
	"github.com/felixgeelhaar/onramp/pkg/config"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if cfg.IsDevelopment() && level == "info" {
		level = "warn"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:          level,
		Format:         observability.LogFormat(cfg.LogFormat),
		ServiceName:    "onramp",
		ServiceVersion: cli.Version,
	})
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// version and help still work without a database
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Relay events written by this command in the background
		if cfg.OutboxProcessorEnabled {
			publisher, err := app.NewPublisher(cfg, logger)
			if err != nil {
				logger.Warn("event publisher unavailable, events stay in the outbox", "error", err)
			} else {
				defer publisher.Close()
				go func() { _ = container.NewOutboxProcessor(publisher).Run(ctx) }()
			}
		}

		cliApp = cli.AppFromContainer(container)
		if cfg.UserID != "" {
			userID, err := uuid.Parse(cfg.UserID)
			if err != nil {
				logger.Error("invalid ONRAMP_USER_ID", "error", err)
				os.Exit(1)
			}
			cliApp.SetCurrentUserID(userID)
		}
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(onboarding.Cmd)
	cli.AddCommand(payment.Cmd)
	cli.AddCommand(trial.Cmd)
	cli.AddCommand(org.Cmd)
	cli.AddCommand(reminders.Cmd)

	// Execute CLI
	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

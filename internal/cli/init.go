// Package cli provides common CLI initialization utilities.
// This package consolidates the startup and shutdown steps shared by
// cmd/networth and cmd/networth-listener.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"networth/internal/config"
	"networth/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Setup loads the configuration, builds the logger for component from it and installs
// that logger as the default. The logger is returned even when validation fails so the
// caller can report the error.
func Setup(component string) (*config.Config, *log.Logger, error) {
	cfg := config.Load()
	logger := log.New(cfg.LoggerConfig(component))
	log.SetDefault(logger)
	if err := cfg.Validate(); err != nil {
		return cfg, logger, err
	}
	return cfg, logger, nil
}

// MustSetup is Setup for main functions: it exits the process on invalid configuration.
func MustSetup(component string) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg, logger, err := Setup(component)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context carrying logger that is cancelled on SIGINT or SIGTERM.
// stop releases the signal handler.
func SignalContext(parent context.Context, logger *log.Logger) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(log.NewContext(parent, logger))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"networth/internal/amqp"
	"networth/internal/cli"
	"networth/internal/log"
)

func main() {
	cfg, logger := cli.MustSetup(log.ComponentListener)
	logger.Info("Starting networth-listener", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to listen for events")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h := newHandler(logger)
		if err := client.Consume(ctx, amqp.BindingAll, h.Handle); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down listener...", log.FieldOperation, log.OpShutdown)

	select {
	case <-done:
		logger.Info("Listener shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}

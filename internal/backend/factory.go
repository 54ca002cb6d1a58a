package backend

import (
	"context"
	"errors"
	"fmt"

	"networth/internal/amqp"
	"networth/internal/log"
	"networth/internal/services"
	"networth/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the SQLite repository, connects the optional AMQP publisher and wires
// the entry and category services on top of them.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// A nil *amqp.Client must not end up inside the Publisher interface.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications",
				log.FieldError, err)
		} else {
			publisher = amqpClient
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	var opts []services.EntryServiceOption
	if config.QueryTimeout > 0 {
		opts = append(opts, services.WithQueryTimeout(config.QueryTimeout))
	}

	entries := services.NewEntryService(repo, publisher, f.logger, opts...)
	categories := services.NewCategoryService(repo, f.logger)

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldDBPath, config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		errs = append(errs, repo.Close())
		return errors.Join(errs...)
	}

	return &BackendResult{
		Entries:    entries,
		Categories: categories,
		Cleanup:    cleanup,
	}, nil
}

package backend

import (
	"context"
	"time"

	"networth/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired services and the function that releases what they hold open
type BackendResult struct {
	Entries    *services.EntryService
	Categories *services.CategoryService
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds what the factory needs to build the services
type Config struct {
	SQLiteDBPath string

	// AMQP is optional; an empty URL disables notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	QueryTimeout time.Duration
}

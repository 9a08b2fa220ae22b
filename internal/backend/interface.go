package backend

import (
	"context"

	"finpocket/internal/services"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is a ready ledger service and its cleanup.
type BackendResult struct {
	Service *services.LedgerService
	Type    BackendType
	Cleanup CleanupFunc
}

// Factory creates backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite
	SQLiteDSN string

	// Seed directory for the initial ledger; empty uses the built-in
	// sample data.
	SeedDir string

	// Event feed; an empty URL disables publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"finpocket/internal/amqp"
	"finpocket/internal/log"
	"finpocket/internal/seed"
	"finpocket/internal/services"
	"finpocket/internal/store"
	"finpocket/internal/store/memory"
	"finpocket/internal/store/sqlite"
)

type DefaultFactory struct {
	logger  *log.Logger
	options []services.Option
}

// NewFactory returns a factory whose services get opts in addition to the
// logger and publisher it wires itself.
func NewFactory(logger *log.Logger, opts ...services.Option) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend), options: opts}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st  store.Store
		err error
	)
	switch config.Type {
	case MemoryBackend:
		st, err = f.createMemoryStore(config)
	case SQLiteBackend:
		st, err = f.createSQLiteStore(ctx, config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	opts := append([]services.Option{services.WithLogger(f.logger)}, f.options...)
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			opts = append(opts, services.WithPublisher(client))
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(st, opts...)
	return &BackendResult{Service: svc, Type: config.Type, Cleanup: svc.Close}, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) (store.Store, error) {
	if config.SeedDir == "" {
		f.logger.Info("Initialized memory backend with sample data")
		return memory.New(seed.SampleTransactions(), seed.SampleGoals()), nil
	}
	st, warnings, err := memory.NewFromFiles(config.SeedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory store: %w", err)
	}
	f.logWarnings(warnings)
	f.logger.Info("Initialized memory backend", "seed_dir", config.SeedDir)
	return st, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (store.Store, error) {
	repo, err := sqlite.Open(config.SQLiteDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	data := seed.Data{Transactions: seed.SampleTransactions(), Goals: seed.SampleGoals()}
	if config.SeedDir != "" {
		var warnings []string
		data, warnings, err = seed.LoadDir(config.SeedDir, uuid.NewString)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("load seed data: %w", err)
		}
		f.logWarnings(warnings)
	}
	seeded, err := repo.Seed(ctx, data)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("seed SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "dsn", config.SQLiteDSN, "seeded", seeded)
	return repo, nil
}

func (f *DefaultFactory) logWarnings(warnings []string) {
	for _, w := range warnings {
		f.logger.Warn("Skipped seed row", "detail", w)
	}
}

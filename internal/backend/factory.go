package backend

import (
	"context"
	"fmt"

	"expenses/internal/amqp"
	"expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/storage"
	"expenses/internal/storage/memory"
	"expenses/internal/storage/sheets"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	var publisher services.Publisher
	if client := f.createPublisher(ctx, config); client != nil {
		publisher = client
	}

	svc := services.NewLedgerService(store, publisher, f.logger)

	f.logger.DebugContext(ctx, "Initialized backend",
		log.FieldBackend, config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (storage.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return f.createStore(ctx, config)
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (storage.Store, error) {
	switch config.Type {
	case JSONBackend:
		return storage.NewFileStore(config.DataFile, f.logger), nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil

	case SheetsBackend:
		client, err := sheets.New(ctx, sheets.Options{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GoogleSheetName,
			CredentialsFile: config.GoogleServiceAccountFile,
			CredentialsJSON: config.GoogleServiceAccountJSON,
		}, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		return client, nil

	case MemoryBackend:
		if config.DataFile == "" {
			return memory.New(), nil
		}
		store, err := memory.NewFromFile(config.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}

// createPublisher dials the broker when one is configured. A broker that
// cannot be reached is logged and the backend runs without notifications.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications", log.FieldError, err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

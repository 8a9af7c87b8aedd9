package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"propertyexpenses/internal/config"
	"propertyexpenses/internal/events"
	"propertyexpenses/store"
	"propertyexpenses/store/memory"
	"propertyexpenses/store/mongo"
	"propertyexpenses/store/postgres"
	"propertyexpenses/store/sqlite"
)

// openStore connects the backend selected by STORE_BACKEND
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Info("Initialized memory backend", "backend", cfg.StoreBackend)
		return memory.New(), nil

	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.Options{
			Retries: cfg.DBConnectRetries,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Initialized postgres backend", "backend", cfg.StoreBackend)
		return s, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Initialized sqlite backend", "backend", cfg.StoreBackend, "path", cfg.DatabaseURL)
		return s, nil

	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := mongo.Open(connectCtx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("Initialized mongo backend", "backend", cfg.StoreBackend, "database", cfg.MongoDatabase)
		return s, nil
	}

	return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

// openPublisher returns the AMQP publisher when a broker is configured. A
// broker that cannot be reached is logged and replaced by a no-op publisher
// so the API keeps serving.
func openPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, change events disabled")
		return events.Noop{}
	}

	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("Failed to connect to AMQP broker, change events disabled", "error", err)
		return events.Noop{}
	}
	logger.Info("Publishing change events", "exchange", cfg.AMQPExchange)
	return p
}

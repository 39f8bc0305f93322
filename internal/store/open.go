package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/mindsaathi/internal/config"
	"github.com/albapepper/mindsaathi/internal/db"
	"github.com/albapepper/mindsaathi/internal/mood"
)

// Backend is an opened record and login store.
type Backend interface {
	mood.Store
	mood.LoginStore
	HealthCheck(ctx context.Context) error
}

// Opened is the store selected by STORE_DRIVER.
type Opened struct {
	Backend
	Pool  *db.Pool // set for the postgres driver only
	close func()
}

// Close releases the underlying connections.
func (o *Opened) Close() {
	if o.close != nil {
		o.close()
	}
}

type pgBackend struct {
	*Postgres
	pool *db.Pool
}

func (b pgBackend) HealthCheck(ctx context.Context) error {
	return b.pool.HealthCheck(ctx)
}

// Open connects the store named by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Opened, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		logger.Info("Connecting to database...")
		pool, err := db.New(connectCtx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		return &Opened{
			Backend: pgBackend{Postgres: NewPostgres(pool.Pool), pool: pool},
			Pool:    pool,
			close:   pool.Close,
		}, nil

	case config.DriverMongo:
		logger.Info("Connecting to MongoDB...")
		m, err := NewMongo(connectCtx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		logger.Info("MongoDB connected", "database", cfg.MongoDBName)
		return &Opened{
			Backend: m,
			close: func() {
				if err := m.Close(context.Background()); err != nil {
					logger.Warn("MongoDB disconnect failed", "error", err)
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

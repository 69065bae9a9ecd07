package database

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/warungos/datastore/pkg/logger"
)

// Client owns the connection to the backing store. It is safe for concurrent
// use and holds no authoritative domain state; every operation round-trips
// to PostgreSQL.
type Client struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	cfg     Config
	hooks   *Hooks
	txSlots chan struct{}
}

// Open connects to PostgreSQL and configures the connection pool. Callers
// must Close the client at process shutdown.
func Open(cfg Config) (*Client, error) {
	hooks := NewHooks()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: newZerologAdapter(hooks, cfg.SlowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", Classify(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", Classify(err))
	}

	maxTx := cfg.MaxConcurrentTx
	if maxTx < 1 {
		maxTx = 1
	}

	logger.Logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Connected to PostgreSQL")

	return &Client{
		db:      db,
		sqlDB:   sqlDB,
		cfg:     cfg,
		hooks:   hooks,
		txSlots: make(chan struct{}, maxTx),
	}, nil
}

// DB exposes the underlying gorm handle for repository construction.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// SQLDB exposes the raw pool, used by health checks.
func (c *Client) SQLDB() *sql.DB {
	return c.sqlDB
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", Classify(err))
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.sqlDB.Close()
}

// OnEvent registers an observability handler for the given event kind.
func (c *Client) OnEvent(kind EventKind, handler Handler) {
	c.hooks.On(kind, handler)
}

// Migrate creates or updates the schema for the given models. Models must be
// passed in dependency order so foreign keys resolve.
func (c *Client) Migrate(ctx context.Context, models ...any) error {
	if err := c.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", Classify(err))
	}
	return nil
}

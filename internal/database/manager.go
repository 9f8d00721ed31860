package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnhub/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager wraps the database connection pool with logging and health checks
type Manager struct {
	db     *sql.DB
	logger *zap.Logger
	config *config.DatabaseConfig
	health *HealthChecker
}

// NewManager opens a connection pool and verifies connectivity, retrying
// with exponential backoff so the service survives a database that comes up
// slightly later than the application container.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configureConnectionPool(db, cfg)

	if err := pingWithRetry(db, cfg, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		db:     db,
		logger: logger,
		config: cfg,
	}
	manager.health = NewHealthChecker(manager, logger)

	logger.Info("Database manager initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return manager, nil
}

func configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// pingWithRetry verifies connectivity using exponential backoff
func pingWithRetry(db *sql.DB, cfg *config.DatabaseConfig, logger *zap.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = 0 // bounded by retry count below

	attempts := 0
	operation := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			if attempts >= cfg.MaxConnectRetries {
				return backoff.Permanent(fmt.Errorf("exhausted %d connection attempts: %w", attempts, err))
			}
			logger.Warn("Database not reachable yet, retrying",
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			return err
		}
		return nil
	}

	return backoff.Retry(operation, policy)
}

// DB returns the underlying database connection pool
func (m *Manager) DB() *sql.DB {
	return m.db
}

// ExecContext executes a statement
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return m.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return m.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a new transaction
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.db.BeginTx(ctx, opts)
}

// Migrate runs database migrations from the configured path
func (m *Manager) Migrate(migrationsPath string) error {
	m.logger.Info("Running database migrations", zap.String("path", migrationsPath))

	driver, err := postgres.WithInstance(m.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration state is dirty at version %d", version)
	}

	m.logger.Info("Database migrations applied", zap.Uint("version", version))
	return nil
}

// StartHealthChecks begins periodic connectivity checks
func (m *Manager) StartHealthChecks(ctx context.Context) {
	m.health.Start(ctx, m.config.HealthCheckInterval)
}

// Ping verifies the database is reachable
func (m *Manager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Stats returns connection pool statistics
func (m *Manager) Stats() sql.DBStats {
	return m.db.Stats()
}

// Close shuts down the connection pool
func (m *Manager) Close() error {
	m.logger.Info("Closing database connections")
	return m.db.Close()
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-orders/internal/config"
	"restaurant-orders/internal/logger"
)

// Pool defaults, used when the database section of config.yaml leaves
// the corresponding key unset.
const (
	defaultMaxConns       = 25
	defaultMinConns       = 5
	defaultConnectRetries = 5

	connLifetime = time.Hour
	connIdleTime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// DB wraps the PostgreSQL connection pool.
type DB struct {
	Pool   *pgxpool.Pool
	logger *logger.Logger
}

// New opens a connection pool sized per the database config, retrying
// the initial connect so the service survives a slower-starting
// PostgreSQL container.
func New(cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	applyPoolSettings(poolConfig, cfg.Database)

	retries := cfg.Database.ConnectRetries
	if retries <= 0 {
		retries = defaultConnectRetries
	}

	var pool *pgxpool.Pool
	for i := 0; i < retries; i++ {
		pool, err = connect(poolConfig)
		if err == nil {
			break
		}
		if i < retries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			log.Error("db_connection_failed",
				fmt.Sprintf("Failed to connect to database, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", retries, err)
	}

	return &DB{
		Pool:   pool,
		logger: log,
	}, nil
}

func applyPoolSettings(poolConfig *pgxpool.Config, db config.DatabaseConfig) {
	poolConfig.MaxConns = defaultMaxConns
	if db.MaxConns > 0 {
		poolConfig.MaxConns = int32(db.MaxConns)
	}
	poolConfig.MinConns = defaultMinConns
	if db.MinConns > 0 {
		poolConfig.MinConns = int32(db.MinConns)
	}
	poolConfig.MaxConnLifetime = connLifetime
	poolConfig.MaxConnIdleTime = connIdleTime
}

// connect builds the pool and verifies it with a bounded ping.
func connect(poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping tests the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Begin starts a new transaction.
func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

// Exec executes a query without returning any rows.
func (db *DB) Exec(ctx context.Context, sql string, args ...interface{}) error {
	_, err := db.Pool.Exec(ctx, sql, args...)
	return err
}

// Query executes a query that returns rows.
func (db *DB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return db.Pool.Query(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (db *DB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return db.Pool.QueryRow(ctx, sql, args...)
}

package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-orders/internal/config"
)

func parsePoolConfig(t *testing.T) *pgxpool.Config {
	t.Helper()
	poolConfig, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/orders?sslmode=disable")
	if err != nil {
		t.Fatalf("parse pool config: %v", err)
	}
	return poolConfig
}

func TestApplyPoolSettings_Defaults(t *testing.T) {
	poolConfig := parsePoolConfig(t)
	applyPoolSettings(poolConfig, config.DatabaseConfig{})

	if poolConfig.MaxConns != defaultMaxConns {
		t.Errorf("MaxConns = %d, want %d", poolConfig.MaxConns, defaultMaxConns)
	}
	if poolConfig.MinConns != defaultMinConns {
		t.Errorf("MinConns = %d, want %d", poolConfig.MinConns, defaultMinConns)
	}
	if poolConfig.MaxConnLifetime != connLifetime {
		t.Errorf("MaxConnLifetime = %v, want %v", poolConfig.MaxConnLifetime, connLifetime)
	}
	if poolConfig.MaxConnIdleTime != connIdleTime {
		t.Errorf("MaxConnIdleTime = %v, want %v", poolConfig.MaxConnIdleTime, connIdleTime)
	}
}

func TestApplyPoolSettings_FromConfig(t *testing.T) {
	poolConfig := parsePoolConfig(t)
	applyPoolSettings(poolConfig, config.DatabaseConfig{MaxConns: 40, MinConns: 8})

	if poolConfig.MaxConns != 40 {
		t.Errorf("MaxConns = %d, want 40", poolConfig.MaxConns)
	}
	if poolConfig.MinConns != 8 {
		t.Errorf("MinConns = %d, want 8", poolConfig.MinConns)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
# local development settings
database:
  host: localhost
  port: 5432
  user: orders
  password: "secret"
  database: restaurant_orders

rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("database.host = %q, want localhost", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("database.port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("database.password = %q, want secret", cfg.Database.Password)
	}
	if cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq.port = %d, want 5672", cfg.RabbitMQ.Port)
	}
}

func TestLoad_PoolSettings(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  max_conns: 40
  min_conns: 8
  connect_retries: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.MaxConns != 40 {
		t.Errorf("database.max_conns = %d, want 40", cfg.Database.MaxConns)
	}
	if cfg.Database.MinConns != 8 {
		t.Errorf("database.min_conns = %d, want 8", cfg.Database.MinConns)
	}
	if cfg.Database.ConnectRetries != 3 {
		t.Errorf("database.connect_retries = %d, want 3", cfg.Database.ConnectRetries)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: not-a-number
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestURLs(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "orders"},
		RabbitMQ: RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"},
	}

	wantDB := "postgres://u:p@db:5432/orders?sslmode=disable"
	if got := cfg.DatabaseURL(); got != wantDB {
		t.Errorf("DatabaseURL = %q, want %q", got, wantDB)
	}

	wantMQ := "amqp://guest:guest@mq:5672/"
	if got := cfg.RabbitMQURL(); got != wantMQ {
		t.Errorf("RabbitMQURL = %q, want %q", got, wantMQ)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database url")
	}
	if cfg.KafkaEnabled() {
		t.Fatalf("expected kafka disabled by default")
	}
	if time.Duration(cfg.OutboxInterval) != time.Second {
		t.Fatalf("expected default outbox interval, got %v", time.Duration(cfg.OutboxInterval))
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: "9090"
database_url: postgres://file/db
kafka_brokers:
  - broker-1:9092
outbox_interval: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env must win over file, got port %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://file/db" {
		t.Fatalf("expected file database url, got %s", cfg.DatabaseURL)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "broker-1:9092" {
		t.Fatalf("expected file brokers, got %v", cfg.KafkaBrokers)
	}
	if time.Duration(cfg.OutboxInterval) != 5*time.Second {
		t.Fatalf("expected 5s outbox interval, got %v", time.Duration(cfg.OutboxInterval))
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example" {
		t.Fatalf("expected trimmed CSV origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

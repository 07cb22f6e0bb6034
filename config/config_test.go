package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:tote_builder.db", cfg.Database.DSN)
	assert.Equal(t, "tote-builder-v1", cfg.Webhook.Source)
	assert.Zero(t, cfg.Webhook.Timeout)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  cache_ttl_seconds: 30
database:
  driver: postgres
  dsn: "postgres://u:p@localhost/tote"
webhook:
  url: "https://hooks.example.com/quote"
  timeout_seconds: 15
worker_pool:
  size: 3
catalog:
  price_per_bay: 40
  addons:
    - { id: delivery, name: "Include Delivery", kind: flat, price: 80, default: true }
  limits:
    max_rows: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost/tote", cfg.Database.DSN)
	assert.Equal(t, "https://hooks.example.com/quote", cfg.Webhook.URL)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, 3, cfg.WorkerPool.Size)
	assert.Equal(t, 40.0, cfg.Catalog.PricePerBay)
	require.Len(t, cfg.Catalog.Addons, 1)
	assert.Equal(t, AddonConfig{ID: "delivery", Name: "Include Delivery", Kind: "flat", Price: 80, Default: true}, cfg.Catalog.Addons[0])
	assert.Equal(t, 4, cfg.Catalog.Limits.MaxRows)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUOTE_WEBHOOK_URL", "https://env.example.com/hook")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DATABASE_DSN", "file:env.db")
	t.Setenv("PORT", "7070")
	t.Setenv("OPERATOR_KEY", "op-key")

	cfg, err := Load(writeConfig(t, "webhook:\n  url: \"https://file.example.com\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/hook", cfg.Webhook.URL)
	assert.Equal(t, "s3cret", cfg.Server.SessionSecret)
	assert.Equal(t, "file:env.db", cfg.Database.DSN)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "op-key", cfg.Push.OperatorKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Len(t, cfg.Catalog.Totes, 2)
	assert.Len(t, cfg.Catalog.Addons, 3)
	assert.Equal(t, 5, cfg.Catalog.Limits.MaxRows)
}

package config

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

// WorkerPoolConfig holds the configuration for the operator alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for operator web push alerts.
// Alerts are disabled when either key is empty.
// OperatorKey, when set, must be sent as X-Operator-Key to manage subscriptions.
type PushConfig struct {
	PublicKey   string `yaml:"vapid_public_key"`
	PrivateKey  string `yaml:"vapid_private_key"`
	Subject     string `yaml:"subject"`
	TTL         int    `yaml:"ttl"`
	OperatorKey string `yaml:"operator_key"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port              int      `yaml:"port"`
	RequestIPHeader   string   `yaml:"request_ip_header"`
	RateLimitPerSec   float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int      `yaml:"rate_limit_burst"`
	SubmitLimitPerMin float64  `yaml:"submit_limit_per_min"`
	CacheTTLSeconds   int      `yaml:"cache_ttl_seconds"`
	SessionSecret     string   `yaml:"session_secret"`
	SessionTTLMinutes int      `yaml:"session_ttl_minutes"`
	AllowedOrigins    []string `yaml:"allowed_origins"`

	CacheTTL   time.Duration `yaml:"-"`
	SessionTTL time.Duration `yaml:"-"`
}

// WebhookConfig holds the quote request webhook. An empty URL means payloads
// are only logged.
type WebhookConfig struct {
	URL            string            `yaml:"url"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	HTTPProxy      string            `yaml:"http_proxy"`
	Headers        map[string]string `yaml:"headers"`
	Source         string            `yaml:"source"`

	Timeout time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	Debug                  bool   `yaml:"debug"`
}

// CatalogConfig holds the operator-edited pricing and geometry constants.
// Zero values fall back to the built-in catalog.
type CatalogConfig struct {
	PricePerBay float64         `yaml:"price_per_bay"`
	Addons      []AddonConfig   `yaml:"addons"`
	Totes       []ToteConfig    `yaml:"totes"`
	Structure   StructureConfig `yaml:"structure"`
	Limits      LimitsConfig    `yaml:"limits"`
}

// AddonConfig is one priced extra.
type AddonConfig struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	Price   float64 `yaml:"price"`
	Default bool    `yaml:"default"`
}

// ToteConfig is one supported tote family, in inches.
type ToteConfig struct {
	Type          string  `yaml:"type"`
	Label         string  `yaml:"label"`
	WidthStandard float64 `yaml:"width_standard"`
	WidthSideways float64 `yaml:"width_sideways"`
	Height        float64 `yaml:"height"`
}

// StructureConfig holds the rack frame allowances, in inches.
type StructureConfig struct {
	PostWidth   float64 `yaml:"post_width"`
	ShelfHeight float64 `yaml:"shelf_height"`
	GapWidth    float64 `yaml:"gap_width"`
	GapHeight   float64 `yaml:"gap_height"`
}

// LimitsConfig bounds the wall input and the fit search.
type LimitsConfig struct {
	MinWidthIn  float64 `yaml:"min_width_in"`
	MaxWidthIn  float64 `yaml:"max_width_in"`
	MinHeightIn float64 `yaml:"min_height_in"`
	MaxHeightIn float64 `yaml:"max_height_in"`
	ProbeLimit  int     `yaml:"probe_limit"`
	MaxRows     int     `yaml:"max_rows"`
}

// Load reads the configuration from the given path and applies environment
// overrides. A missing file is not an error: defaults are used instead.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("config file %s not found; using defaults", path)
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("QUOTE_WEBHOOK_URL"); ok {
		cfg.Webhook.URL = v
	}
	if v, ok := os.LookupEnv("SESSION_SECRET"); ok {
		cfg.Server.SessionSecret = v
	}
	if v, ok := os.LookupEnv("OPERATOR_KEY"); ok {
		cfg.Push.OperatorKey = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		cfg.Database.DSN = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("ignoring invalid PORT %q: %v", v, err)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.SubmitLimitPerMin <= 0 {
		cfg.Server.SubmitLimitPerMin = 6
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Server.SessionTTLMinutes <= 0 {
		cfg.Server.SessionTTLMinutes = 120
	}
	cfg.Server.SessionTTL = time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute

	if cfg.Server.SessionSecret == "" {
		log.Printf("server.session_secret is not set; using an insecure development secret")
		cfg.Server.SessionSecret = "tote-builder-dev-secret"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:tote_builder.db"
	}

	// Zero keeps the platform default: no client timeout.
	if cfg.Webhook.TimeoutSeconds > 0 {
		cfg.Webhook.Timeout = time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
	}
	if cfg.Webhook.Source == "" {
		cfg.Webhook.Source = "tote-builder-v1"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}

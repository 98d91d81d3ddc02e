package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Portal     PortalConfig     `yaml:"portal"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// PortalConfig describes the institutional course-schedule portal and the
// credentials for the authenticated session, if any.
type PortalConfig struct {
	URL            string        `yaml:"url"`
	LoginURL       string        `yaml:"login_url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	UserAgent      string        `yaml:"user_agent"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// IngestConfig controls the background refresh cadence.
type IngestConfig struct {
	IntervalMinutes int           `yaml:"interval_minutes"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Portal.TimeoutSeconds <= 0 {
		cfg.Portal.TimeoutSeconds = 30
	}
	cfg.Portal.Timeout = time.Duration(cfg.Portal.TimeoutSeconds) * time.Second

	if cfg.Portal.UserAgent == "" {
		cfg.Portal.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	// The refresh contract is hourly plus on-demand triggers.
	if cfg.Ingest.IntervalMinutes <= 0 {
		cfg.Ingest.IntervalMinutes = 60
	}
	cfg.Ingest.Interval = time.Duration(cfg.Ingest.IntervalMinutes) * time.Minute

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}

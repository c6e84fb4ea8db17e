package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Nominatim NominatimConfig `yaml:"nominatim"`
	Collector CollectorConfig `yaml:"collector"`
	Stats     StatsConfig     `yaml:"stats"`
	Database  DatabaseConfig  `yaml:"database"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	Debug           bool    `yaml:"debug"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// UpstreamConfig defines the HTTP request against the live parking feed.
type UpstreamConfig struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	Payload        map[string]any    `yaml:"payload"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Timeout        time.Duration     `yaml:"-"` // Ignored by YAML parser
}

// NominatimConfig points at the geocoding service.
type NominatimConfig struct {
	URL            string        `yaml:"url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

// CollectorConfig drives the background occupancy collector.
type CollectorConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
}

// StatsConfig holds the occupancy grid resolution and the snapshot
// location of the historical repository.
type StatsConfig struct {
	BucketMinutes int    `yaml:"bucket_minutes"`
	DataFile      string `yaml:"data_file"`
}

// DatabaseConfig holds the telemetry database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
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

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 30
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	if cfg.Nominatim.URL == "" {
		cfg.Nominatim.URL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Nominatim.TimeoutSeconds <= 0 {
		cfg.Nominatim.TimeoutSeconds = 10
	}
	cfg.Nominatim.Timeout = time.Duration(cfg.Nominatim.TimeoutSeconds) * time.Second

	if cfg.Collector.IntervalSeconds <= 0 {
		cfg.Collector.IntervalSeconds = 600
	}
	cfg.Collector.Interval = time.Duration(cfg.Collector.IntervalSeconds) * time.Second

	if cfg.Stats.BucketMinutes <= 0 {
		log.Printf("stats.bucket_minutes is not set or invalid; defaulting to 10")
		cfg.Stats.BucketMinutes = 10
	}
	if cfg.Stats.DataFile == "" {
		cfg.Stats.DataFile = "data/parking-data.json"
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "data/telemetry.db"
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	return &cfg, nil
}

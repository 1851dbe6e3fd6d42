// Package config loads Citelink's configuration from a file and the
// environment via viper, using a nested-struct + setDefaults +
// validate shape.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Corpus        CorpusConfig        `mapstructure:"corpus"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
}

// CorpusConfig holds persistence configuration for internal/corpus.
type CorpusConfig struct {
	Driver          string        `mapstructure:"driver"` // memory, sqlite, postgres
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CacheConfig holds internal/cache configuration.
type CacheConfig struct {
	Driver string        `mapstructure:"driver"` // memory, redis
	Addr   string        `mapstructure:"addr"`
	DB     int           `mapstructure:"db"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// QueueConfig holds internal/async queue configuration.
type QueueConfig struct {
	Driver     string        `mapstructure:"driver"` // memory, redis, nats
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// WorkerConfig holds the async worker pool configuration.
type WorkerConfig struct {
	Count         int           `mapstructure:"count"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// ScoringConfig exposes the confidence-scoring weights and the
// parallel-detector's proximity bound.
type ScoringConfig struct {
	BaselineConfidence     float64 `mapstructure:"baseline_confidence"`
	KnownReporterBonus     float64 `mapstructure:"known_reporter_bonus"`
	CaptionFoundBonus      float64 `mapstructure:"caption_found_bonus"`
	YearFoundBonus         float64 `mapstructure:"year_found_bonus"`
	CourtFoundBonus        float64 `mapstructure:"court_found_bonus"`
	ParallelMaxGapChars    int     `mapstructure:"parallel_max_gap_chars"`
	SupraLevenshteinBudget int     `mapstructure:"supra_levenshtein_budget"`
}

// ObservabilityConfig holds logging/metrics configuration.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPort    int    `mapstructure:"metrics_port"`
}

// AuthConfig holds HTTP-surface authentication configuration.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	APIKeyEnabled bool          `mapstructure:"api_key_enabled"`
}

// Load loads configuration from configPath (if non-empty) and the
// environment (prefix CITELINK_), falling back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CITELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit_per_min", 120)

	v.SetDefault("corpus.driver", "memory")
	v.SetDefault("corpus.dsn", "citelink.db")
	v.SetDefault("corpus.max_open_conns", 25)
	v.SetDefault("corpus.max_idle_conns", 5)
	v.SetDefault("corpus.conn_max_lifetime", "5m")

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.prefix", "citelink:")
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("queue.driver", "memory")
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.retry_delay", "5s")

	v.SetDefault("worker.count", 4)
	v.SetDefault("worker.job_timeout", "30s")
	v.SetDefault("worker.shutdown_grace", "15s")

	v.SetDefault("scoring.baseline_confidence", 0.4)
	v.SetDefault("scoring.known_reporter_bonus", 0.3)
	v.SetDefault("scoring.caption_found_bonus", 0.2)
	v.SetDefault("scoring.year_found_bonus", 0.1)
	v.SetDefault("scoring.court_found_bonus", 0.1)
	v.SetDefault("scoring.parallel_max_gap_chars", 5)
	v.SetDefault("scoring.supra_levenshtein_budget", 2)

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.metrics_port", 9091)

	v.SetDefault("auth.jwt_expiration", "24h")
	v.SetDefault("auth.api_key_enabled", false)
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[cfg.Observability.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.Observability.LogLevel)
	}
	if cfg.Scoring.BaselineConfidence < 0 || cfg.Scoring.BaselineConfidence > 1 {
		return fmt.Errorf("scoring.baseline_confidence must be in [0,1]")
	}
	return nil
}

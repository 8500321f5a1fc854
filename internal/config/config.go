package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	RunMigrations    bool   `toml:"run_migrations"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// auth
	SessionTTLHours             int `toml:"session_ttl_hours"`
	LoginRateLimitAllowedPerMin int `toml:"login_rate_limit_allowed_per_min"`

	// http
	AllowedOrigins []string `toml:"allowed_origins"`

	// catalog
	AutocompleteCacheSizeMB int `toml:"autocomplete_cache_size_mb"`
	AutocompleteCacheTTLSec int `toml:"autocomplete_cache_ttl_sec"`
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, errors.New("port must be positive"))
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		errs = append(errs, errors.New("postgres host, port and db name are required"))
	}
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port are required"))
	}
	return errors.Join(errs...)
}

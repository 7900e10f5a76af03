package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "GREENHABIT_"

const (
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 10
)

type Config struct {
	DB                     DBConfig         `json:"db" envPrefix:"DB_"`
	JWTSecret              string           `json:"jwt_secret" env:"JWT_SECRET"`
	JWTTTLMinutes          int              `json:"jwt_ttl_minutes" env:"JWT_TTL_MINUTES"`
	Port                   int              `json:"port" env:"PORT"`
	LogConfig              logger.LogConfig `json:"log_config"`
	CORSAllowlist          []string         `json:"cors_allowlist" env:"CORS_ALLOWLIST" envSeparator:","`
	RateLimit              RateLimitConfig  `json:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Metrics                MetricsConfig    `json:"metrics" envPrefix:"METRICS_"`
	ShutdownTimeoutSeconds int              `json:"shutdown_timeout_seconds" env:"SHUTDOWN_TIMEOUT_SECONDS"`
}

type DBConfig struct {
	Driver string `json:"driver" env:"DRIVER"`
	Path   string `json:"path" env:"PATH"`
	DSN    string `json:"dsn" env:"DSN"`
}

// RateLimitConfig applies to the unauthenticated signup and login routes.
// Zero fields take defaults; limiting is off when Disabled is set.
type RateLimitConfig struct {
	Disabled bool    `json:"disabled" env:"DISABLED"`
	RPS      float64 `json:"rps" env:"RPS"`
	Burst    int     `json:"burst" env:"BURST"`
}

// Limit returns the values for middleware.RateLimit; rps 0 turns it off.
func (r RateLimitConfig) Limit() (float64, int) {
	if r.Disabled {
		return 0, 0
	}
	return r.RPS, r.Burst
}

type MetricsConfig struct {
	Enabled bool `json:"enabled" env:"ENABLED"`
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Load reads a JSON or YAML config file, applies GREENHABIT_* environment
// overrides (a .env file in the working directory is honoured) and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeYAML goes through JSON so that the json tags (including the ones on
// logger.LogConfig) are the single source of key names.
func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, cfg)
}

func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "habits.db"
	}
	if c.JWTTTLMinutes == 0 {
		c.JWTTTLMinutes = 30
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = defaultRateLimitRPS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = defaultRateLimitBurst
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = 10
	}
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("db.path is required for sqlite")
		}
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("db.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("db.driver must be sqlite or postgres")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.JWTTTLMinutes < 0 {
		return fmt.Errorf("jwt_ttl_minutes must be positive")
	}
	if !c.RateLimit.Disabled && (c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0) {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive")
	}
	return nil
}

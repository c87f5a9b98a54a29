package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimitRPS of zero disables request limiting.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // http or stdio
}

const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // sqlite database file
	Dir     string `yaml:"dir"`  // csv table directory
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// DefaultUser is the identity used when auth is disabled.
	DefaultUser string       `yaml:"default_user"`
	Users       []UserConfig `yaml:"users"`
}

type UserConfig struct {
	Username     string `yaml:"username"`
	DisplayName  string `yaml:"display_name"`
	PasswordHash string `yaml:"password_hash"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, in that order of precedence (lowest first).
func Load() (Config, error) {
	// Variables already set in the environment win over .env entries.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    "ideaportal.db",
			Dir:     "data",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Enabled:     true,
			DefaultUser: "guest",
		},
	}

	if path := os.Getenv("IDEAPORTAL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("IDEAPORTAL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("IDEAPORTAL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid IDEAPORTAL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if rps := os.Getenv("IDEAPORTAL_RATE_LIMIT_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return fmt.Errorf("invalid IDEAPORTAL_RATE_LIMIT_RPS: %w", err)
		}
		cfg.Server.RateLimitRPS = v
	}
	if mode := os.Getenv("IDEAPORTAL_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if backend := os.Getenv("IDEAPORTAL_STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}
	if dbPath := os.Getenv("IDEAPORTAL_DB_PATH"); dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if dir := os.Getenv("IDEAPORTAL_DATA_DIR"); dir != "" {
		cfg.Store.Dir = dir
	}
	if level := os.Getenv("IDEAPORTAL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if enabled := os.Getenv("IDEAPORTAL_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid IDEAPORTAL_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if user := os.Getenv("IDEAPORTAL_DEFAULT_USER"); user != "" {
		cfg.Auth.DefaultUser = user
	}
	return nil
}

// normalize folds enumerated settings so callers can compare them exactly.
func (c *Config) normalize() {
	c.Transport.Mode = strings.ToLower(strings.TrimSpace(c.Transport.Mode))
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate checks enumerated settings. Values are expected in the form Load
// produces.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Store.Backend {
	case BackendSQLite, BackendCSV:
	default:
		return fmt.Errorf("invalid store backend %q", c.Store.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if !c.Auth.Enabled && strings.TrimSpace(c.Auth.DefaultUser) == "" {
		return fmt.Errorf("auth.default_user is required when auth is disabled")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

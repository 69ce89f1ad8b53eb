package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/Simplici0/digiquote/internal/logging"
)

const (
	defaultAppEnv    = "development"
	defaultDBPath    = "./dev.db"
	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	DBPath        string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	LogLevel      string
	LogFormat     string
	// TablesPath optionally points at a YAML coefficient file. Empty means
	// the built-in tables.
	TablesPath string
}

// Load reads the configuration and checks the settings the HTTP server
// cannot run without.
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}
	if cfg.IsProduction() && cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET is required in production")
	}
	return cfg, nil
}

// Read reads .env (if present) and the process environment without
// validating server settings.
func Read() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Config{
		AppEnv:        valueOrDefault(k.String("APP_ENV"), defaultAppEnv),
		Port:          valueOrDefault(k.String("PORT"), defaultPort),
		DBPath:        valueOrDefault(k.String("DB_PATH"), defaultDBPath),
		AdminEmail:    strings.TrimSpace(k.String("ADMIN_EMAIL")),
		AdminPassword: k.String("ADMIN_PASSWORD"),
		SessionSecret: k.String("SESSION_SECRET"),
		LogLevel:      valueOrDefault(k.String("LOG_LEVEL"), defaultLogLevel),
		LogFormat:     valueOrDefault(k.String("LOG_FORMAT"), defaultLogFormat),
		TablesPath:    strings.TrimSpace(k.String("TABLES_PATH")),
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Logging maps the log settings onto a logger config.
func (c Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Development = !c.IsProduction()
	return lc
}

// Missing lists optional settings that are unset but usually wanted.
func (c Config) Missing() []string {
	var out []string
	if c.AdminEmail == "" {
		out = append(out, "ADMIN_EMAIL")
	}
	if c.AdminPassword == "" {
		out = append(out, "ADMIN_PASSWORD")
	}
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET")
	}
	return out
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Package config provides configuration loading for the nutriassess service.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"nutriassess/internal/engine"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	OIDC     OIDCConfig     `yaml:"oidc"`
	Engine   engine.Params  `yaml:"engine"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string `yaml:"addr"`
	// ReadHeaderTimeout bounds how long a client may take to send headers
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	// ShutdownTimeout is how long in-flight requests get on SIGTERM
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// DisableAuth turns off authentication; only for local development
	DisableAuth bool `yaml:"disable_auth"`
}

// DatabaseConfig configures persistence
type DatabaseConfig struct {
	// URL is a PostgreSQL connection string (empty = in-memory store)
	URL string `yaml:"url"`
}

// LogConfig configures structured logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// AuthConfig configures sessions and account provisioning
type AuthConfig struct {
	// SessionTTL is the lifetime of a login session
	SessionTTL time.Duration `yaml:"session_ttl"`
	// DefaultTenant is assigned to users provisioned through SSO or forward auth
	DefaultTenant string `yaml:"default_tenant"`
}

// OIDCConfig configures single sign-on. SSO is enabled when Issuer is set.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether single sign-on is configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != ""
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			SessionTTL:    24 * time.Hour,
			DefaultTenant: "default",
		},
		Engine: engine.DefaultParams(),
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Auth.DefaultTenant == "" {
		return fmt.Errorf("auth.default_tenant is required")
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return fmt.Errorf("oidc.client_id and oidc.redirect_url are required when oidc.issuer is set")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("ADDR", &c.Server.Addr)
	set("DATABASE_URL", &c.Database.URL)
	set("LOG_LEVEL", &c.Log.Level)
	set("LOG_FORMAT", &c.Log.Format)
	set("DEFAULT_TENANT", &c.Auth.DefaultTenant)
	set("OIDC_ISSUER", &c.OIDC.Issuer)
	set("OIDC_CLIENT_ID", &c.OIDC.ClientID)
	set("OIDC_CLIENT_SECRET", &c.OIDC.ClientSecret)
	set("OIDC_REDIRECT_URL", &c.OIDC.RedirectURL)

	if v, ok := lookup("DISABLE_AUTH"); ok {
		c.Server.DisableAuth = strings.EqualFold(v, "true") || v == "1"
	}
}

// Loader resolves the effective configuration: defaults, then an optional
// YAML file, then environment variables.
type Loader struct {
	logger *slog.Logger
	lookup func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, lookup: os.LookupEnv}
}

// Load returns the validated configuration. An empty path skips the file.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		fromFile, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config = fromFile
	}

	config.ApplyEnv(l.lookup)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

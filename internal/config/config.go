package config

import (
	"fmt"
	"os"
	"time"

	"github.com/digital-directions/stagegate/internal/identity"
	"github.com/digital-directions/stagegate/internal/valuesource"
	"github.com/digital-directions/stagegate/pkg/database"
	"github.com/digital-directions/stagegate/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStagegateEnv             = "STAGEGATE_ENV"
	EnvStagegateShutdownTimeout = "STAGEGATE_SHUTDOWN_TIMEOUT"
	EnvStagegateVersion         = "STAGEGATE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "STAGEGATE_DB_HOST",
	Port:            "STAGEGATE_DB_PORT",
	Name:            "STAGEGATE_DB_NAME",
	User:            "STAGEGATE_DB_USER",
	Password:        "STAGEGATE_DB_PASSWORD",
	SSLMode:         "STAGEGATE_DB_SSL_MODE",
	MaxOpenConns:    "STAGEGATE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "STAGEGATE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "STAGEGATE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "STAGEGATE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "STAGEGATE_STORAGE_CONTAINER_NAME",
	ConnectionString: "STAGEGATE_STORAGE_CONNECTION_STRING",
}

var identityEnv = &identity.Env{
	Issuer:        "STAGEGATE_IDENTITY_ISSUER",
	ClientID:      "STAGEGATE_IDENTITY_CLIENT_ID",
	PartyClaim:    "STAGEGATE_IDENTITY_PARTY_CLAIM",
	ClientIDClaim: "STAGEGATE_IDENTITY_CLIENT_ID_CLAIM",
	Disabled:      "STAGEGATE_IDENTITY_DISABLED",
}

var sourceEnv = &valuesource.Env{
	BaseURL:       "STAGEGATE_SOURCE_BASE_URL",
	ServiceUserID: "STAGEGATE_SOURCE_SERVICE_USER_ID",
	Token:         "STAGEGATE_SOURCE_TOKEN",
	Timeout:       "STAGEGATE_SOURCE_TIMEOUT",
	Disabled:      "STAGEGATE_SOURCE_DISABLED",
}

// Config is the root configuration for the StageGate service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	Identity        identity.Config    `toml:"identity"`
	Source          valuesource.Config `toml:"source"`
	API             APIConfig          `toml:"api"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the STAGEGATE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStagegateEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Identity.Merge(&overlay.Identity)
	c.Source.Merge(&overlay.Source)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Source.Finalize(sourceEnv); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStagegateShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStagegateVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStagegateEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

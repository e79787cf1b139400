package valuesource

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds connection parameters for the HR source system API.
type Config struct {
	BaseURL string `toml:"base_url"`
	// ServiceUserID and Token form the basic auth credential pair.
	ServiceUserID string `toml:"service_user_id"`
	Token         string `toml:"token"`
	// Timeout bounds each API call, in seconds.
	Timeout int `toml:"timeout"`
	// Disabled turns the source off; pulls report it unavailable.
	Disabled bool `toml:"disabled"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL       string
	ServiceUserID string
	Token         string
	Timeout       string
	Disabled      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Disabled always applies.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ServiceUserID != "" {
		c.ServiceUserID = overlay.ServiceUserID
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != 0 {
		c.Timeout = overlay.Timeout
	}
	c.Disabled = overlay.Disabled
}

// TimeoutDuration returns the configured timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) loadDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 15
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.ServiceUserID != "" {
		if v := os.Getenv(env.ServiceUserID); v != "" {
			c.ServiceUserID = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			if timeout, err := strconv.Atoi(v); err == nil {
				c.Timeout = timeout
			}
		}
	}
	if env.Disabled != "" {
		if v := os.Getenv(env.Disabled); v != "" {
			if disabled, err := strconv.ParseBool(v); err == nil {
				c.Disabled = disabled
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Disabled {
		return nil
	}
	// An unset base URL means no source system; pulls report unavailable.
	if c.BaseURL == "" {
		c.Disabled = true
		return nil
	}
	if c.ServiceUserID == "" || c.Token == "" {
		return fmt.Errorf("service_user_id and token required")
	}
	return nil
}

package identity

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds OIDC verification parameters.
type Config struct {
	Issuer string `toml:"issuer"`
	// ClientID is the expected audience of presented tokens.
	ClientID string `toml:"client_id"`
	// PartyClaim names the token claim carrying the actor's party.
	PartyClaim string `toml:"party_claim"`
	// ClientIDClaim names the token claim carrying a client actor's organization.
	ClientIDClaim string `toml:"client_id_claim"`
	// Disabled skips token verification entirely. Local development only.
	Disabled bool `toml:"disabled"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer        string
	ClientID      string
	PartyClaim    string
	ClientIDClaim string
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
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.PartyClaim != "" {
		c.PartyClaim = overlay.PartyClaim
	}
	if overlay.ClientIDClaim != "" {
		c.ClientIDClaim = overlay.ClientIDClaim
	}
	c.Disabled = overlay.Disabled
}

func (c *Config) loadDefaults() {
	if c.PartyClaim == "" {
		c.PartyClaim = "party"
	}
	if c.ClientIDClaim == "" {
		c.ClientIDClaim = "client_org"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.PartyClaim != "" {
		if v := os.Getenv(env.PartyClaim); v != "" {
			c.PartyClaim = v
		}
	}
	if env.ClientIDClaim != "" {
		if v := os.Getenv(env.ClientIDClaim); v != "" {
			c.ClientIDClaim = v
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
	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required")
	}
	return nil
}

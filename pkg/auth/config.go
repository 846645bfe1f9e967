package auth

import (
	"context"
	"fmt"
	"os"
)

// Mode selects the token verification strategy.
type Mode string

const (
	ModeHMAC Mode = "hmac"
	ModeOIDC Mode = "oidc"
)

// Env maps environment variable names for auth configuration.
type Env struct {
	Mode     string
	Secret   string
	Issuer   string
	Audience string
	ClientID string
}

// Config selects and parameterizes the bearer token verifier.
type Config struct {
	Mode     Mode   `toml:"mode"`
	Secret   string `toml:"secret"`
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
	ClientID string `toml:"client_id"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Mode == "" {
		c.Mode = ModeHMAC
	}
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

// NewVerifier builds the verifier for the configured mode. OIDC mode performs discovery.
func (c *Config) NewVerifier(ctx context.Context) (Verifier, error) {
	switch c.Mode {
	case ModeOIDC:
		return NewOIDCVerifier(ctx, c.Issuer, c.ClientID)
	default:
		return NewHMACVerifier([]byte(c.Secret), c.Issuer, c.Audience), nil
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	mode := string(c.Mode)
	set(env.Mode, &mode)
	c.Mode = Mode(mode)

	set(env.Secret, &c.Secret)
	set(env.Issuer, &c.Issuer)
	set(env.Audience, &c.Audience)
	set(env.ClientID, &c.ClientID)
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeHMAC:
		if len(c.Secret) < 32 {
			return fmt.Errorf("secret must be at least 32 bytes for hmac mode")
		}
	case ModeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("issuer required for oidc mode")
		}
	default:
		return fmt.Errorf("invalid mode: %s (must be hmac or oidc)", c.Mode)
	}
	return nil
}

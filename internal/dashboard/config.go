package dashboard

import (
	"fmt"
	"os"
	"time"
)

// ConfigEnv maps environment variable names for dashboard configuration.
type ConfigEnv struct {
	SearchDelay string
	Freshness   string
}

// Config tunes the client-side list core.
type Config struct {
	SearchDelay string `toml:"search_delay"`
	Freshness   string `toml:"freshness"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.SearchDelay != "" {
		c.SearchDelay = overlay.SearchDelay
	}
	if overlay.Freshness != "" {
		c.Freshness = overlay.Freshness
	}
}

// SearchDelayDuration parses the search debounce window.
func (c *Config) SearchDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.SearchDelay)
	return d
}

// FreshnessDuration parses how long cached reads are served without a round trip.
func (c *Config) FreshnessDuration() time.Duration {
	d, _ := time.ParseDuration(c.Freshness)
	return d
}

func (c *Config) loadDefaults() {
	if c.SearchDelay == "" {
		c.SearchDelay = "500ms"
	}
	if c.Freshness == "" {
		c.Freshness = "30s"
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.SearchDelay != "" {
		if v := os.Getenv(env.SearchDelay); v != "" {
			c.SearchDelay = v
		}
	}
	if env.Freshness != "" {
		if v := os.Getenv(env.Freshness); v != "" {
			c.Freshness = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.SearchDelay)
	if err != nil {
		return fmt.Errorf("invalid search_delay: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("search_delay must be positive")
	}
	if _, err := time.ParseDuration(c.Freshness); err != nil {
		return fmt.Errorf("invalid freshness: %w", err)
	}
	return nil
}

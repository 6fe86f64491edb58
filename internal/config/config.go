package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, sourced from the environment with an
// optional .env file.
type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	API struct {
		BaseURL string `env:"AUCTION_API_URL" envDefault:"https://v2.api.noroff.dev"`
		Key     string `env:"AUCTION_API_KEY" envDefault:"e6f16bc6-a633-40af-ad6b-db10b065d4e2"`
	}

	Feed struct {
		PageSize        int `env:"FEED_PAGE_SIZE" envDefault:"18"`
		ScrollThreshold int `env:"FEED_SCROLL_THRESHOLD" envDefault:"4"`
	}

	Credits struct {
		Default int `env:"DEFAULT_CREDITS" envDefault:"1000"`
	}

	// StateDir holds session.json and the debug log. Defaults to
	// ~/.auctionhouse when unset.
	StateDir string `env:"AUCTION_STATE_DIR"`
}

// Load reads configuration from the environment. A .env file is loaded
// best-effort; missing files are fine in production.
func Load() (*Config, error) {
	godotenv.Load() //nolint:errcheck // .env is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".auctionhouse")
	}
	return cfg, nil
}

// SessionPath returns the location of the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.StateDir, "session.json")
}

// LogPath returns the location of the debug log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, "debug.log")
}

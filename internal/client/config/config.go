package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the SalesDesk CLI.
type Config struct {
	BaseURL        string
	StatePath      string
	RequestTimeout time.Duration
	LogLevel       string
	LogBackend     string
	// ClearWorkspaceOnLogout drops the persisted project selection on
	// logout, so the next account never sees the previous one's project.
	ClearWorkspaceOnLogout bool
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000/api"
	c.StatePath = "salesdesk.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.ClearWorkspaceOnLogout = true
}

// Load builds a Config from defaults, then the JSON file named by -c or
// -config, then SALESDESK_* environment variables, then flags. args are
// the command-line arguments without the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if c.StatePath == "" {
		return errors.New("state path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

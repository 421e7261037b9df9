// Package config loads the portal settings shared by the CLI, the MCP server
// and the development backend.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is the environment variable prefix, e.g. PGPORTAL_API_URL.
const Prefix = "PGPORTAL"

// DefaultStateDirName is created under $HOME when STATE_DIR is unset.
const DefaultStateDirName = ".pgsphere"

// Config holds the portal client configuration.
// Environment variables are parsed from the PGPORTAL_ prefix.
type Config struct {
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:8020"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// StateDir holds the saved login. Empty means ~/.pgsphere.
	StateDir string `envconfig:"STATE_DIR" default:""`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	// Meal policy
	MealFailOpen     bool `envconfig:"MEAL_FAIL_OPEN" default:"true"`
	MealGateReselect bool `envconfig:"MEAL_GATE_RESELECT" default:"false"`
	FetchRetries     int  `envconfig:"FETCH_RETRIES" default:"1"`

	// Listeners
	MCPAddr string `envconfig:"MCP_ADDR" default:":11546"`
	DevAddr string `envconfig:"DEV_ADDR" default:":8020"`
}

// ResolveDefaults validates the loaded values and fills in derived ones.
func (c *Config) ResolveDefaults() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_URL: %q", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported API_URL scheme: %s", u.Scheme)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0, got %s", c.HTTPTimeout)
	}
	if c.FetchRetries < 1 {
		c.FetchRetries = 1
	}
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine user home: %w", err)
		}
		c.StateDir = filepath.Join(home, DefaultStateDirName)
	}
	return nil
}

// New creates a Config from PGPORTAL_* environment variables.
// Example: PGPORTAL_API_URL, PGPORTAL_MEAL_FAIL_OPEN
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("api_url", cfg.APIURL).
		Dur("http_timeout", cfg.HTTPTimeout).
		Str("state_dir", cfg.StateDir).
		Bool("meal_fail_open", cfg.MealFailOpen).
		Bool("meal_gate_reselect", cfg.MealGateReselect).
		Int("fetch_retries", cfg.FetchRetries).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a Config pointing at apiURL with its state kept in
// stateDir.
func NewForTesting(apiURL, stateDir string) *Config {
	return &Config{
		APIURL:       apiURL,
		HTTPTimeout:  5 * time.Second,
		StateDir:     stateDir,
		LogLevel:     "debug",
		MealFailOpen: true,
		FetchRetries: 1,
		MCPAddr:      "127.0.0.1:0",
		DevAddr:      "127.0.0.1:0",
	}
}

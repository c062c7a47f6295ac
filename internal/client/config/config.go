package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the authportal CLI.
//
// APIBaseURL and APIPrefix together form the API root (see APIRoot).
// ClientURL is the base of the links the server puts into emails.
type Config struct {
	APIBaseURL     string
	APIPrefix      string
	ClientURL      string
	RequestTimeout time.Duration
	Dev            bool
	LogLevel       string
	DatabasePath   string
	RefreshOnStart bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.APIPrefix = "/api"
	c.ClientURL = "http://localhost:3000"
	c.RequestTimeout = 5 * time.Second
	c.Dev = false
	c.LogLevel = ""
	c.DatabasePath = "authportal.db"
	c.RefreshOnStart = true
}

// APIRoot returns the URL every endpoint path is appended to,
// e.g. "http://localhost:8000/api".
func (c *Config) APIRoot() string {
	root := strings.TrimRight(c.APIBaseURL, "/")
	if prefix := strings.Trim(c.APIPrefix, "/"); prefix != "" {
		root += "/" + prefix
	}
	return root
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), a JSON file and command-line flags.
// Later sources take precedence over earlier ones. args excludes the program
// name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/authportal/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvAPIURL         = "AUTHPORTAL_API_URL"
	EnvAPIPrefix      = "AUTHPORTAL_API_PREFIX"
	EnvClientURL      = "AUTHPORTAL_CLIENT_URL"
	EnvTimeout        = "AUTHPORTAL_TIMEOUT"
	EnvDev            = "AUTHPORTAL_DEV"
	EnvLogLevel       = "AUTHPORTAL_LOG_LEVEL"
	EnvDatabase       = "AUTHPORTAL_DB"
	EnvRefreshOnStart = "AUTHPORTAL_REFRESH_ON_START"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with AUTHPORTAL_* variables. Values come from the
// process environment first and then from a dotenv file: the one named by
// -env, or ./.env when it exists.
func parseEnv(cfg *Config, args []string) error {
	vars, err := readDotenv(flagx.EnvPath(args))
	if err != nil {
		return err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvAPIPrefix); ok {
		cfg.APIPrefix = v
	}
	if v, ok := lookup(EnvClientURL); ok {
		cfg.ClientURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvDatabase); ok {
		cfg.DatabasePath = v
	}
	if v, ok := lookup(EnvTimeout); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(EnvDev); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDev, err)
		}
		cfg.Dev = b
	}
	if v, ok := lookup(EnvRefreshOnStart); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRefreshOnStart, err)
		}
		cfg.RefreshOnStart = b
	}
	return nil
}

// readDotenv reads path, or ./.env when path is empty. Only an explicitly
// named file is required to exist.
func readDotenv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

// parseTimeout accepts a duration ("5s", "1500ms") or whole seconds ("5").
func parseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authportal/internal/flagx"
	"github.com/dmitrijs2005/authportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values, so a file only overrides
// what it names. Timeouts use timex.Duration and may be strings like "5s"
// or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	APIPrefix      *string         `json:"api_prefix"`
	ClientURL      *string         `json:"client_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	Dev            *bool           `json:"dev"`
	LogLevel       *string         `json:"log_level"`
	DatabasePath   *string         `json:"database_path"`
	RefreshOnStart *bool           `json:"refresh_on_start"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Without such a flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.APIPrefix, jc.APIPrefix)
	setIf(&cfg.ClientURL, jc.ClientURL)
	setIf(&cfg.Dev, jc.Dev)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.RefreshOnStart, jc.RefreshOnStart)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

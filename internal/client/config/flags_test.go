package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api:9", "-u", "http://ui:3", "-t", "10", "-d", "-db", "x.db"},
			expected: &Config{
				APIBaseURL: "http://api:9", ClientURL: "http://ui:3",
				RequestTimeout: 10 * time.Second, Dev: true, DatabasePath: "x.db",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-env", ".env", "-a=http://api:1"},
			expected: &Config{APIBaseURL: "http://api:1"},
		},
		{
			name:    "incorrect timeout",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_KeepsSubsecondTimeoutWhenUnset(t *testing.T) {
	cfg := &Config{RequestTimeout: 1500 * time.Millisecond}
	require.NoError(t, parseFlags(cfg, []string{"-a", "http://x"}))
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

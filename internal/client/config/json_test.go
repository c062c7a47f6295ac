package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"client_url": "https://app.example.com",
		"request_timeout": 3000000000,
		"dev": true,
		"refresh_on_start": false
	}`), 0o600))

	t.Run("overrides only named fields", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "https://app.example.com", cfg.ClientURL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.Dev)
		assert.False(t, cfg.RefreshOnStart)
		assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
		assert.Equal(t, "authportal.db", cfg.DatabasePath)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-a", "http://x"}))
		assert.Equal(t, defaults(), cfg)
	})
}

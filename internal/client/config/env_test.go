package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ProcessEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIURL, "http://api.internal")
	t.Setenv(EnvAPIPrefix, "")
	t.Setenv(EnvTimeout, "2")
	t.Setenv(EnvDev, "true")
	t.Setenv(EnvRefreshOnStart, "false")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, nil))

	assert.Equal(t, "http://api.internal", cfg.APIBaseURL)
	assert.Equal(t, "", cfg.APIPrefix)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Dev)
	assert.False(t, cfg.RefreshOnStart)
}

func TestParseEnv_DotenvInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTHPORTAL_TIMEOUT=1500ms\nAUTHPORTAL_DB=local.db\n"), 0o600))

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, nil))

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "local.db", cfg.DatabasePath)
}

func TestParseEnv_ProcessEnvironmentWinsOverDotenv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTHPORTAL_DB=file.db\n"), 0o600))
	t.Setenv(EnvDatabase, "process.db")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, nil))
	assert.Equal(t, "process.db", cfg.DatabasePath)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	for _, kv := range [][2]string{{EnvTimeout, "soon"}, {EnvDev, "maybe"}, {EnvRefreshOnStart, "2"}} {
		t.Run(kv[0], func(t *testing.T) {
			isolate(t)
			t.Setenv(kv[0], kv[1])

			err := parseEnv(defaults(), nil)
			require.ErrorContains(t, err, kv[0])
		})
	}
}

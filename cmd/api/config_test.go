package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.port)
	assert.Equal(t, "postgres", cfg.db.driver)
	assert.Equal(t, "local", cfg.storage.backend)
	assert.Equal(t, 24*time.Hour, cfg.jwt.ttl)
	assert.Equal(t, 20, cfg.pageSize)
	assert.True(t, cfg.limiter.enabled)
}

func TestParseConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filmlist.toml")
	content := `
port = 8080
env = "staging"
db-driver = "sqlite"
db-dsn = "filmlist.db"
limiter-rps = 5.5
limiter-enabled = false
jwt-ttl = "2h"
cors-trusted-origins = ["https://a.example", "https://b.example"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseConfig([]string{"-config", path, "-port", "9090"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.port, "explicit flag wins over the file")
	assert.Equal(t, "staging", cfg.env)
	assert.Equal(t, "sqlite", cfg.db.driver)
	assert.Equal(t, "filmlist.db", cfg.db.dsn)
	assert.Equal(t, 5.5, cfg.limiter.rps)
	assert.False(t, cfg.limiter.enabled)
	assert.Equal(t, 2*time.Hour, cfg.jwt.ttl)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.cors.trustedOrigins)
}

func TestParseConfigFileUnknownSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filmlist.toml")
	require.NoError(t, os.WriteFile(path, []byte(`colour = "blue"`), 0o600))

	_, err := parseConfig([]string{"-config", path}, io.Discard)
	assert.ErrorContains(t, err, `unknown setting "colour"`)
}

func TestParseConfigRejectsPageSizeOutOfRange(t *testing.T) {
	for _, size := range []string{"0", "-3", "101"} {
		_, err := parseConfig([]string{"-page-size", size}, io.Discard)
		assert.ErrorContains(t, err, "page-size must be between 1 and 100", size)
	}

	path := filepath.Join(t.TempDir(), "filmlist.toml")
	require.NoError(t, os.WriteFile(path, []byte("page-size = 0\n"), 0o600))

	_, err := parseConfig([]string{"-config", path}, io.Discard)
	assert.ErrorContains(t, err, "page-size must be between 1 and 100")

	cfg, err := parseConfig([]string{"-page-size", "100"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.pageSize)
}

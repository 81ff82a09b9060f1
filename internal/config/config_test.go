package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"CONFIG_FILE", "PORT", "DATABASE_DRIVER", "DATABASE_URL", "GEOCODER_API_KEY", "GEOCODER_URL",
	"GEOCODER_TIMEOUT_MS", "GEOCODER_CACHE_PRECISION", "LOG_LEVEL", "LOG_FORMAT",
	"STORE_FOLDER", "STORE_BASE_URL", "DEFAULT_WORKBOOK", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, 5000, cfg.GeocoderTimeoutMs)
	assert.Equal(t, 7, cfg.GeocoderCachePrecision)
	assert.Equal(t, "GeoGuessr Stats Users", cfg.StoreFolder)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://localhost/geostats")
	t.Setenv("GEOCODER_TIMEOUT_MS", "1500")
	t.Setenv("CORS_ORIGINS", "https://www.geoguessr.com, https://example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 1500, cfg.GeocoderTimeoutMs)
	assert.Equal(t, []string{"https://www.geoguessr.com", "https://example.com"}, cfg.CORSOrigins)
}

func TestLoad_InvalidInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOCODER_TIMEOUT_MS", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.GeocoderTimeoutMs)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "geostats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
database_driver: sqlite3
database_url: /var/lib/geostats.db
log_level: debug
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "/var/lib/geostats.db", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config file")
}

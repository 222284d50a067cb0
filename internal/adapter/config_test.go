package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://rickandmortyapi.com/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "en", cfg.UI.Locale)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
catalog:
  base_url: http://localhost:8080/api
  timeout: 3s
storage:
  backend: bolt
  path: ~/citadel.db
ui:
  theme: light
`), 0644))
	t.Setenv("CITADEL_CATALOG_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("CITADEL_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 2.5, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, StorageBolt, cfg.Storage.Backend)
	assert.NotContains(t, cfg.Storage.Path, "~")
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CITADEL_STORAGE_BACKEND", "redis")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "redis")
}

func TestWriteConfigRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Backend = StorageMemory
	cfg.Catalog.Timeout = 42 * time.Second
	require.NoError(t, writeConfig(cfg, file))

	loaded, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, loaded.Storage.Backend)
	assert.Equal(t, 42*time.Second, loaded.Catalog.Timeout)
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "citadel.yaml")
	cfg := DefaultConfig()
	cfg.UI.Theme = "light"
	cfg.UI.ViewerArgs = []string{"--fullscreen"}

	written, err := SaveConfig(cfg, file)
	require.NoError(t, err)
	assert.Equal(t, file, written)

	loaded, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)
	assert.Equal(t, []string{"--fullscreen"}, loaded.UI.ViewerArgs)
}

func TestOpenStorageMemory(t *testing.T) {
	origin, err := OpenStorage(StorageConfig{Backend: StorageMemory}, NullLogger())
	require.NoError(t, err)
	defer origin.Close()

	ctx := origin.Context()
	require.NoError(t, ctx.Set("k", "v"))
	v, ok, err := ctx.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("loud").String())
}

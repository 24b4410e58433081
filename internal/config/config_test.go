package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.AutosaveDebounce)
	assert.Equal(t, "notify", cfg.HydratePolicy)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://assess.example.com/api/
timeout: 10s
autosave_debounce: 2s
hydrate_policy: auto
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://assess.example.com/api/", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDebounce)
	assert.Equal(t, "auto", cfg.HydratePolicy)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASSESSKIT_BASE_URL", "https://override.example.com/api/")
	t.Setenv("ASSESSKIT_AUTOSAVE_DEBOUNCE", "500ms")
	t.Setenv("ASSESSKIT_DEBUG", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com/api/", cfg.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDebounce)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hydrate_policy: always\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

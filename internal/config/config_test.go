package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[canvas]
artboard_width = 1080
scheme = "dark"

[snap]
tolerance = 4.5

[settings]
backend = "sqlite"
`), 0644))

	t.Setenv("ARTBOARD_LOG_LEVEL", "debug")
	t.Setenv("ARTBOARD_SETTINGS_PATH", "/tmp/prefs.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1080.0, cfg.Canvas.ArtboardWidth)
	assert.Equal(t, 500.0, cfg.Canvas.ArtboardHeight)
	assert.Equal(t, "dark", cfg.Canvas.Scheme)
	assert.Equal(t, 4.5, cfg.Snap.Tolerance)
	assert.Equal(t, BackendSQLite, cfg.Settings.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "Artboard Studio", cfg.Window.Title)

	p, err := cfg.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prefs.db", p)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[snap\ntolerance = "), 0644))
	_, err := Load(broken)
	assert.Error(t, err)

	t.Setenv("ARTBOARD_SETTINGS_BACKEND", "redis")
	_, err = Load("")
	assert.ErrorContains(t, err, "redis")
}

func TestEnvFloatIgnoresGarbage(t *testing.T) {
	t.Setenv("ARTBOARD_SNAP_TOLERANCE", "lots")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Snap.Tolerance)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Snap.Tolerance = 7
	cfg.Window.Width = 1024
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultSettingsPathByBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("HOME", "/home/test")

	cfg := Default()
	p, err := cfg.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "preferences.json", filepath.Base(p))

	cfg.Settings.Backend = BackendSQLite
	p, err = cfg.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "preferences.db", filepath.Base(p))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(p)))
}

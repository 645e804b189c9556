package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, open func() Backend) {
	t.Helper()
	p := New(open())
	assert.Equal(t, 2.0, p.FloatWithFallback("snapDistance", 2))
	assert.True(t, p.Bool("showRuler", true))

	p.SetFloat("snapDistance", 5)
	p.SetBool("showRuler", false)
	p.SetString("colorScheme", "dark")
	require.NoError(t, p.Save())
	require.NoError(t, p.Close())

	again := New(open())
	t.Cleanup(func() { _ = again.Close() })
	assert.Equal(t, 5.0, again.Float("snapDistance"))
	assert.False(t, again.Bool("showRuler", true))
	assert.Equal(t, "dark", again.String("colorScheme"))
	assert.Equal(t, []string{"colorScheme", "showRuler", "snapDistance"}, again.Keys())

	again.Delete("colorScheme")
	assert.False(t, again.Has("colorScheme"))
	assert.Equal(t, "light", again.StringWithFallback("colorScheme", "light"))
}

func TestJSONFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	exercise(t, func() Backend { return NewJSONFile(path) })
	assert.FileExists(t, path)
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.db")
	exercise(t, func() Backend {
		b, err := OpenSQLite(path)
		require.NoError(t, err)
		return b
	})
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	p := New(NewJSONFile(path))
	p.SetFloat("snapDistance", 3)
	require.NoError(t, p.Save())

	require.NoError(t, os.WriteFile(path, []byte(`{"snapDistance": 8}`), 0o644))
	require.NoError(t, p.Reload())
	assert.Equal(t, 8.0, p.Float("snapDistance"))
}

func TestCorruptFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	p := New(NewJSONFile(path))
	assert.Empty(t, p.Keys())
	assert.Error(t, p.Reload())
	assert.Equal(t, path, p.Path())
}

func TestWrongTypeFallsBack(t *testing.T) {
	p := New(NewJSONFile(filepath.Join(t.TempDir(), "p.json")))
	p.SetString("snapDistance", "far")
	assert.Equal(t, 2.0, p.FloatWithFallback("snapDistance", 2))
	p.SetFloat("colorScheme", 1)
	assert.Equal(t, "", p.String("colorScheme"))
}

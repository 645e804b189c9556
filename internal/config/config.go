// Package config loads application configuration from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"artboard-studio/internal/applog"
)

// AppName names the per-user config and data directories.
const AppName = "artboard-studio"

// Settings backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Canvas   CanvasConfig   `toml:"canvas"`
	Settings SettingsConfig `toml:"settings"`
	Snap     SnapConfig     `toml:"snap"`
	Log      LogConfig      `toml:"log"`
}

type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type CanvasConfig struct {
	ArtboardWidth  float64 `toml:"artboard_width"`
	ArtboardHeight float64 `toml:"artboard_height"`
	Scheme         string  `toml:"scheme"`
}

type SettingsConfig struct {
	Backend string `toml:"backend"`
	// Path of the settings store; empty means the default under the user
	// config directory.
	Path string `toml:"path"`
}

type SnapConfig struct {
	Tolerance float64 `toml:"tolerance"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:   WindowConfig{Title: "Artboard Studio", Width: 1400, Height: 900},
		Canvas:   CanvasConfig{ArtboardWidth: 500, ArtboardHeight: 500, Scheme: "light"},
		Settings: SettingsConfig{Backend: BackendJSON},
		Snap:     SnapConfig{Tolerance: 2},
		Log:      LogConfig{Level: "info"},
	}
}

// Dir returns the per-user config directory for the application.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the path of config.toml in Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		case err != nil:
			return Default(), fmt.Errorf("parse config %s: %w", path, err)
		default:
			if keys := md.Undecoded(); len(keys) > 0 {
				applog.WithComponent("config").Warn("unknown config keys",
					slog.String("path", path),
					slog.Any("keys", keys))
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnv("ARTBOARD_LOG_LEVEL", c.Log.Level)
	c.Settings.Backend = strings.ToLower(getEnv("ARTBOARD_SETTINGS_BACKEND", c.Settings.Backend))
	c.Settings.Path = getEnv("ARTBOARD_SETTINGS_PATH", c.Settings.Path)
	c.Snap.Tolerance = getEnvAsFloat("ARTBOARD_SNAP_TOLERANCE", c.Snap.Tolerance)
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Settings.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown settings backend %q", c.Settings.Backend)
	}
	if c.Snap.Tolerance < 0 {
		return fmt.Errorf("snap tolerance must not be negative, got %g", c.Snap.Tolerance)
	}
	if c.Canvas.ArtboardWidth < 1 || c.Canvas.ArtboardHeight < 1 {
		return fmt.Errorf("default artboard must be at least 1x1, got %gx%g",
			c.Canvas.ArtboardWidth, c.Canvas.ArtboardHeight)
	}
	return nil
}

// SettingsPath returns the configured settings store path, or the default
// for the backend under Dir.
func (c Config) SettingsPath() (string, error) {
	if c.Settings.Path != "" {
		return c.Settings.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	name := "preferences.json"
	if c.Settings.Backend == BackendSQLite {
		name = "preferences.db"
	}
	return filepath.Join(dir, name), nil
}

// Write saves the configuration as TOML, creating the directory.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("cannot serialize config: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

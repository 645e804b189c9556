// Package main provides the entry point for the Artboard Studio application.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"artboard-studio/internal/app"
	"artboard-studio/internal/applog"
	"artboard-studio/internal/config"
	"artboard-studio/internal/version"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/ui/mainwindow"
	"artboard-studio/ui/prefs"
)

const appID = "io.github.artboard-studio"

func main() {
	configPath := flag.String("config", "", "Path to config.toml (default: user config directory)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "artboard-studio: %v\n", err)
		os.Exit(1)
	}

	applog.SetLogger(applog.New(os.Stderr, cfg.Log.Level))
	log := applog.WithComponent("main")
	log.Info("starting",
		slog.String("version", version.String()))

	appPrefs, err := openPrefs(cfg)
	if err != nil {
		log.Warn("settings will not be persisted", slog.Any("error", err))
		appPrefs = prefs.New(nil)
	}
	defer appPrefs.Close()

	settings := app.NewSettings(appPrefs, app.Defaults{
		SnapTolerance: cfg.Snap.Tolerance,
		Scheme:        colorutil.ParseScheme(cfg.Canvas.Scheme),
	})
	appState := app.NewState(settings)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(app.NewStudioTheme(settings.ColorScheme()))

	win := mainwindow.New(fyneApp, appState, cfg)

	// Handle command line arguments
	if flag.NArg() > 0 {
		docPath := flag.Arg(0)
		if err := appState.LoadDocument(docPath); err != nil {
			log.Error("failed to load document",
				slog.String("path", docPath),
				slog.Any("error", err))
		}
	}

	watcher := setupSettingsWatcher(settings)
	defer func() {
		if watcher != nil {
			watcher.Stop()
		}
	}()

	win.SetMaster()
	win.SetOnClosed(func() {
		appState.SaveArtboardState()
	})
	win.ShowAndRun()
}

// loadConfig reads the config file, falling back to the default location.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path = p
	}
	return config.Load(path)
}

// openPrefs opens the settings backend named in the config.
func openPrefs(cfg config.Config) (*prefs.Prefs, error) {
	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, err
	}
	switch cfg.Settings.Backend {
	case config.BackendSQLite:
		db, err := prefs.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return prefs.New(db), nil
	default:
		return prefs.New(prefs.NewJSONFile(path)), nil
	}
}

// setupSettingsWatcher reloads the settings when the preferences file is
// edited outside the application.
func setupSettingsWatcher(settings *app.Settings) *app.SettingsWatcher {
	log := applog.WithComponent("main")
	watcher := app.NewSettingsWatcher(settings, app.DefaultDebounce)
	if watcher == nil {
		log.Info("settings watcher disabled: no settings file")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(watcher.Path()), 0o755); err != nil {
		log.Warn("settings watcher disabled", slog.Any("error", err))
		return nil
	}

	watcher.SetDispatcher(fyne.Do)
	settings.OnChange(func(key string) {
		// A named key means the change came from inside the application.
		if key != "" {
			watcher.IgnoreOwnWrites()
		}
	})
	if err := watcher.Start(); err != nil {
		log.Warn("settings watcher disabled", slog.Any("error", err))
		return nil
	}
	return watcher
}

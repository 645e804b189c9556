package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"artboard-studio/internal/applog"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading. Editors often write a file in several steps.
const DefaultDebounce = 150 * time.Millisecond

// SettingsWatcher watches the preferences file and reloads settings when it
// is changed by another process or edited by hand.
type SettingsWatcher struct {
	settings *Settings
	path     string
	debounce time.Duration
	log      *slog.Logger

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	done      chan struct{}
	onReload  func()
	dispatch  func(func())
	suppress  time.Time
	reloadErr error
}

// NewSettingsWatcher creates a watcher for the file settings persist to.
// Returns nil if settings have no backing file.
func NewSettingsWatcher(settings *Settings, debounce time.Duration) *SettingsWatcher {
	if settings == nil || settings.Prefs() == nil || settings.Prefs().Path() == "" {
		return nil
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	path := settings.Prefs().Path()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &SettingsWatcher{
		settings: settings,
		path:     path,
		debounce: debounce,
		log:      applog.WithComponent("settings-watcher"),
	}
}

// OnReload sets a callback invoked after each successful reload. It runs
// where the dispatcher runs the reload.
func (w *SettingsWatcher) OnReload(callback func()) {
	w.mu.Lock()
	w.onReload = callback
	w.mu.Unlock()
}

// SetDispatcher sets the function that runs reloads. The application passes
// fyne.Do so prefs, settings listeners and everything they touch are only
// changed on the UI goroutine. Without a dispatcher reloads run on the
// watcher goroutine.
func (w *SettingsWatcher) SetDispatcher(dispatch func(func())) {
	w.mu.Lock()
	w.dispatch = dispatch
	w.mu.Unlock()
}

// Path returns the watched file.
func (w *SettingsWatcher) Path() string { return w.path }

// Start begins watching in a background goroutine. The directory is watched
// rather than the file so that atomic replace-by-rename is seen.
func (w *SettingsWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	go w.watchLoop(fw, w.stopCh, w.done)
	w.log.Info("watching settings", slog.String("path", w.path))
	return nil
}

// Stop stops the watcher goroutine and waits for it to exit.
func (w *SettingsWatcher) Stop() {
	w.mu.Lock()
	fw, stopCh, done := w.watcher, w.stopCh, w.done
	w.watcher = nil
	w.mu.Unlock()
	if fw == nil {
		return
	}
	close(stopCh)
	fw.Close()
	<-done
}

// IgnoreOwnWrites suppresses reloads for the debounce window after the
// application saved its own preferences.
func (w *SettingsWatcher) IgnoreOwnWrites() {
	w.mu.Lock()
	w.suppress = time.Now().Add(w.debounce * 2)
	w.mu.Unlock()
}

// LastError returns the error of the most recent failed reload.
func (w *SettingsWatcher) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloadErr
}

func (w *SettingsWatcher) watchLoop(fw *fsnotify.Watcher, stopCh, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("settings file event", slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", slog.Any("error", err))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *SettingsWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *SettingsWatcher) reload() {
	w.mu.Lock()
	suppressed := time.Now().Before(w.suppress)
	dispatch := w.dispatch
	w.mu.Unlock()
	if suppressed {
		return
	}
	if dispatch == nil {
		w.apply()
		return
	}
	dispatch(w.apply)
}

// apply re-reads the preferences file and notifies settings listeners.
func (w *SettingsWatcher) apply() {
	err := w.settings.Prefs().Reload()
	w.mu.Lock()
	w.reloadErr = err
	callback := w.onReload
	w.mu.Unlock()
	if err != nil {
		w.log.Warn("cannot reload settings", slog.Any("error", err))
		return
	}

	w.log.Info("settings reloaded", slog.String("path", w.path))
	w.settings.Changed("")
	if callback != nil {
		callback()
	}
}

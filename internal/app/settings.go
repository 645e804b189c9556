package app

import (
	"fmt"
	"math"
	"sync"

	"artboard-studio/pkg/colorutil"
	"artboard-studio/ui/prefs"
)

// Preference keys.
const (
	KeySnapDistance = "snapDistance"
	KeyShowRuler    = "showRuler"
	KeyColorScheme  = "colorScheme"
	KeyAutosave     = "autosave"
	KeyLastDir      = "lastDirectory"
)

// Defaults are the values used for settings that were never stored.
type Defaults struct {
	SnapTolerance float64
	Scheme        colorutil.Scheme
}

// Settings is a typed view over the persisted preferences.
type Settings struct {
	prefs    *prefs.Prefs
	defaults Defaults

	mu        sync.Mutex
	listeners []func(key string)
}

// NewSettings wraps p. Non-positive default tolerances become 2.
func NewSettings(p *prefs.Prefs, d Defaults) *Settings {
	if !(d.SnapTolerance > 0) || math.IsInf(d.SnapTolerance, 0) {
		d.SnapTolerance = 2
	}
	return &Settings{prefs: p, defaults: d}
}

// Prefs returns the underlying preferences.
func (s *Settings) Prefs() *prefs.Prefs { return s.prefs }

// OnChange registers fn to be called with the key of every changed setting.
func (s *Settings) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Changed notifies listeners that key changed, e.g. after an external
// reload. An empty key means any setting may have changed.
func (s *Settings) Changed(key string) {
	s.mu.Lock()
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(key)
	}
}

func (s *Settings) persist(key string) error {
	if err := s.prefs.Save(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.Changed(key)
	return nil
}

// SnapTolerance returns the snap distance in world units. Stored values
// that are negative or not finite fall back to the default.
func (s *Settings) SnapTolerance() float64 {
	v := s.prefs.FloatWithFallback(KeySnapDistance, s.defaults.SnapTolerance)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return s.defaults.SnapTolerance
	}
	return v
}

// SetSnapTolerance stores the snap distance. Zero disables snapping.
func (s *Settings) SetSnapTolerance(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("snap distance must be a non-negative number, got %g", v)
	}
	s.prefs.SetFloat(KeySnapDistance, v)
	return s.persist(KeySnapDistance)
}

// RulerVisible reports whether the ruler is shown.
func (s *Settings) RulerVisible() bool {
	return s.prefs.Bool(KeyShowRuler, true)
}

// SetRulerVisible stores ruler visibility.
func (s *Settings) SetRulerVisible(v bool) error {
	s.prefs.SetBool(KeyShowRuler, v)
	return s.persist(KeyShowRuler)
}

// ColorScheme returns the light or dark scheme.
func (s *Settings) ColorScheme() colorutil.Scheme {
	if !s.prefs.Has(KeyColorScheme) {
		return s.defaults.Scheme
	}
	return colorutil.ParseScheme(s.prefs.String(KeyColorScheme))
}

// SetColorScheme stores the scheme.
func (s *Settings) SetColorScheme(scheme colorutil.Scheme) error {
	s.prefs.SetString(KeyColorScheme, scheme.String())
	return s.persist(KeyColorScheme)
}

// Autosave reports whether changes are saved as they are made.
func (s *Settings) Autosave() bool {
	return s.prefs.Bool(KeyAutosave, false)
}

// SetAutosave stores the autosave flag.
func (s *Settings) SetAutosave(v bool) error {
	s.prefs.SetBool(KeyAutosave, v)
	return s.persist(KeyAutosave)
}

// LastDirectory returns the directory of the last opened or saved file.
func (s *Settings) LastDirectory() string {
	return s.prefs.String(KeyLastDir)
}

// SetLastDirectory stores dir for the next file dialog.
func (s *Settings) SetLastDirectory(dir string) error {
	s.prefs.SetString(KeyLastDir, dir)
	return s.persist(KeyLastDir)
}

// Package prefs provides persisted application preferences as a key-value
// map over a pluggable storage backend.
package prefs

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"artboard-studio/internal/applog"
)

// Backend loads and stores the whole preference map.
type Backend interface {
	Load() (map[string]interface{}, error)
	Store(values map[string]interface{}) error
	// Path is the file the backend persists to.
	Path() string
	Close() error
}

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu      sync.RWMutex
	values  map[string]interface{}
	backend Backend
}

// New reads preferences from backend. A backend that fails to load leaves
// the defaults in place; the failure is logged.
func New(backend Backend) *Prefs {
	p := &Prefs{
		values:  make(map[string]interface{}),
		backend: backend,
	}
	if err := p.Reload(); err != nil {
		applog.WithComponent("prefs").Warn("cannot load preferences",
			slog.String("path", backend.Path()),
			slog.Any("error", err))
	}
	return p
}

// Reload replaces the in-memory values with what the backend holds.
func (p *Prefs) Reload() error {
	if p.backend == nil {
		return nil
	}
	values, err := p.backend.Load()
	if err != nil {
		return err
	}
	if values == nil {
		values = make(map[string]interface{})
	}
	p.mu.Lock()
	p.values = values
	p.mu.Unlock()
	return nil
}

// Save writes preferences through the backend.
func (p *Prefs) Save() error {
	if p.backend == nil {
		return nil
	}
	p.mu.RLock()
	snapshot := maps.Clone(p.values)
	p.mu.RUnlock()
	return p.backend.Store(snapshot)
}

// Path returns where preferences are persisted.
func (p *Prefs) Path() string {
	if p.backend == nil {
		return ""
	}
	return p.backend.Path()
}

// Close releases the backend.
func (p *Prefs) Close() error {
	if p.backend == nil {
		return nil
	}
	return p.backend.Close()
}

// Keys returns the stored keys, sorted.
func (p *Prefs) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.values))
}

// Has reports whether key is set.
func (p *Prefs) Has(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key]
	return ok
}

// Float returns a float64 preference, or 0 if not set.
func (p *Prefs) Float(key string) float64 {
	return p.FloatWithFallback(key, 0)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	return p.StringWithFallback(key, "")
}

// StringWithFallback returns a string preference, or fallback if not set.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch b := v.(type) {
		case bool:
			return b
		}
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Delete removes a preference.
func (p *Prefs) Delete(key string) {
	p.mu.Lock()
	delete(p.values, key)
	p.mu.Unlock()
}

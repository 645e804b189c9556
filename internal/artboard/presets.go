package artboard

import (
	"maps"
	"slices"
)

// Preset is a named artboard size.
type Preset struct {
	Name   string
	Width  float64
	Height float64
}

// Artboard returns a new artboard of the preset size named after it.
func (p Preset) Artboard() Artboard {
	return New(p.Name, p.Width, p.Height)
}

// Registry of known presets
var registry = make(map[string]Preset)

// Register adds a preset, replacing any with the same name.
func Register(p Preset) {
	registry[p.Name] = p
}

// Lookup returns a preset by name.
func Lookup(name string) (Preset, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns all registered preset names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Presets returns every registered preset ordered by name.
func Presets() []Preset {
	names := Names()
	out := make([]Preset, len(names))
	for i, n := range names {
		out[i] = registry[n]
	}
	return out
}

func init() {
	// Register built-in presets
	Register(Preset{Name: "Instagram Post", Width: 1080, Height: 1080})
	Register(Preset{Name: "Instagram Story", Width: 1080, Height: 1920})
	Register(Preset{Name: "A4 (72 dpi)", Width: 595, Height: 842})
	Register(Preset{Name: "US Letter (72 dpi)", Width: 612, Height: 792})
	Register(Preset{Name: "HD 1080p", Width: 1920, Height: 1080})
	Register(Preset{Name: "4K UHD", Width: 3840, Height: 2160})
	Register(Preset{Name: "Web Banner", Width: 728, Height: 90})
}

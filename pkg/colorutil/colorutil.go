// Package colorutil provides shared colors and the light/dark schemes used
// by the ruler and the canvas.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue        = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	CanvasLight = color.RGBA{R: 0xe9, G: 0xec, B: 0xef, A: 255}
	CanvasDark  = color.RGBA{R: 0x25, G: 0x26, B: 0x2b, A: 255}
	Transparent = color.RGBA{}
)

// Scheme selects the light or dark color set.
type Scheme int

const (
	SchemeLight Scheme = iota
	SchemeDark
)

func (s Scheme) String() string {
	switch s {
	case SchemeLight:
		return "light"
	case SchemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// ParseScheme maps "dark" to SchemeDark and anything else to SchemeLight.
func ParseScheme(name string) Scheme {
	if strings.EqualFold(strings.TrimSpace(name), "dark") {
		return SchemeDark
	}
	return SchemeLight
}

// RulerColors returns the stroke and fill for ruler elements.
// The ruler inverts with the scheme: dark fill with light strokes in dark mode.
func RulerColors(s Scheme) (stroke, fill color.RGBA) {
	if s == SchemeDark {
		return White, Black
	}
	return Black, White
}

// CanvasBackground returns the color painted behind all objects.
func CanvasBackground(s Scheme) color.RGBA {
	if s == SchemeDark {
		return CanvasDark
	}
	return CanvasLight
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.RGBA{A: 255}
	var err error
	switch len(s) {
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// WithOpacity scales the alpha channel by opacity in [0, 1].
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return color.RGBA{R: c.R, G: c.G, B: c.B}
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"artboard-studio/pkg/colorutil"
)

// StudioTheme provides the application theme. The variant follows the
// light/dark color scheme setting rather than the operating system.
type StudioTheme struct {
	Scheme colorutil.Scheme
}

var _ fyne.Theme = (*StudioTheme)(nil)

// NewStudioTheme returns a theme forcing the variant of scheme.
func NewStudioTheme(scheme colorutil.Scheme) *StudioTheme {
	return &StudioTheme{Scheme: scheme}
}

func (t *StudioTheme) variant() fyne.ThemeVariant {
	if t.Scheme == colorutil.SchemeDark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

func (t *StudioTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	v := t.variant()
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF} // snap guide blue
	case theme.ColorNameBackground:
		return colorutil.CanvasBackground(t.Scheme)
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, v)
	}
}

func (t *StudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *StudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *StudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameScrollBarSmall:
		return 6
	default:
		return theme.DefaultTheme().Size(name)
	}
}

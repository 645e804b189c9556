package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#e9ecef")
	require.NoError(t, err)
	assert.Equal(t, CanvasLight, c)

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	c, err = ParseHex("#00000080")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 0x80}, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestRulerColorsSwapWithScheme(t *testing.T) {
	stroke, fill := RulerColors(SchemeLight)
	assert.Equal(t, Black, stroke)
	assert.Equal(t, White, fill)

	stroke, fill = RulerColors(SchemeDark)
	assert.Equal(t, White, stroke)
	assert.Equal(t, Black, fill)
}

func TestParseScheme(t *testing.T) {
	assert.Equal(t, SchemeDark, ParseScheme(" Dark "))
	assert.Equal(t, SchemeLight, ParseScheme("light"))
	assert.Equal(t, SchemeLight, ParseScheme(""))
}

func TestWithOpacity(t *testing.T) {
	assert.Equal(t, Blue, WithOpacity(Blue, 1))
	assert.Equal(t, uint8(0), WithOpacity(Blue, 0).A)
	assert.Equal(t, uint8(128), WithOpacity(Blue, 0.5).A)
}

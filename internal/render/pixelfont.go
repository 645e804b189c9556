package render

import (
	"image"
	"image/color"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// symbolPatterns covers the non-digit characters ruler labels use.
var symbolPatterns = map[rune][5]uint8{
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// charPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if pattern, ok := symbolPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// pixelScale picks the block size so glyphs are about fontSize pixels tall.
func pixelScale(fontSize float64) int {
	scale := int(fontSize/5 + 0.5)
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}
	return scale
}

// PixelTextSize returns the width and height of label drawn upright at scale.
func PixelTextSize(label string, scale int) (w, h int) {
	n := len([]rune(label))
	if n == 0 {
		return 0, 0
	}
	return n*3*scale + (n-1)*scale, 5 * scale
}

// DrawPixelText draws label upright, centred on (centerX, centerY).
func DrawPixelText(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int, opacity float64) {
	if opacity <= 0 {
		return
	}
	w, h := PixelTextSize(label, scale)
	startX := centerX - w/2
	startY := centerY - h/2

	for i, ch := range []rune(label) {
		pattern := charPattern(ch)
		charX := startX + i*4*scale
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				fillBlock(output, charX+c*scale, startY+row*scale, scale, col, opacity)
			}
		}
	}
}

// DrawRotatedPixelText draws label rotated -90 degrees so it reads
// bottom-to-top, centred on (centerX, centerY).
func DrawRotatedPixelText(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int, opacity float64) {
	if opacity <= 0 {
		return
	}
	// Rotated glyphs are 5 wide and 3 tall, so the upright width becomes
	// the height.
	labelHeight, charWidth := PixelTextSize(label, scale)
	runes := []rune(label)
	startX := centerX - charWidth/2
	startY := centerY - labelHeight/2

	// Last character at the top.
	for i := range runes {
		pattern := charPattern(runes[len(runes)-1-i])
		charY := startY + i*4*scale
		// (col, row) -> (row, 2-col)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				fillBlock(output, startX+row*scale, charY+(2-c)*scale, scale, col, opacity)
			}
		}
	}
}

func fillBlock(output *image.RGBA, x, y, scale int, col color.RGBA, opacity float64) {
	for dy := 0; dy < scale; dy++ {
		for dx := 0; dx < scale; dx++ {
			blend(output, x+dx, y+dy, col, opacity)
		}
	}
}

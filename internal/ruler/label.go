package ruler

import (
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// LabelMeasurer sizes tick labels in screen pixels at the ruler font size.
type LabelMeasurer struct {
	face  font.Face
	scale float64
}

// NewLabelMeasurer measures with the 7x13 fixed face scaled to fontSize.
func NewLabelMeasurer(fontSize float64) *LabelMeasurer {
	face := basicfont.Face7x13
	return &LabelMeasurer{
		face:  face,
		scale: fontSize / float64(face.Metrics().Height.Ceil()),
	}
}

// Width returns the rendered width of text in screen pixels.
func (m *LabelMeasurer) Width(text string) float64 {
	adv := font.MeasureString(m.face, text)
	return float64(adv) / 64 * m.scale
}

// Offset returns how far a label is shifted back along its axis so it is
// centred on the tick. It is half the rendered width, so a minus sign
// widens the offset exactly like an extra digit does.
func (m *LabelMeasurer) Offset(value float64) float64 {
	return m.Width(FormatValue(value)) / 2
}

// FormatValue renders a world coordinate as the integer shown on the ruler.
func FormatValue(value float64) string {
	return strconv.FormatInt(int64(math.Round(value)), 10)
}

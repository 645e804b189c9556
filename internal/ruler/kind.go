// Package ruler draws the ruler overlay (axis bars, corner block, ticks and
// labels, and user drag lines) in sync with the viewport.
package ruler

import "artboard-studio/internal/scene"

// Kind is the closed set of ruler element variants.
type Kind int

const (
	AxisBackgroundX Kind = iota
	AxisBackgroundY
	CornerBlock
	TickMarkX
	TickLabelX
	TickMarkY
	TickLabelY
	DragLineX
	DragLineY
	DragLabel
)

func (k Kind) String() string {
	switch k {
	case AxisBackgroundX:
		return "axis-background-x"
	case AxisBackgroundY:
		return "axis-background-y"
	case CornerBlock:
		return "corner-block"
	case TickMarkX:
		return "tick-mark-x"
	case TickLabelX:
		return "tick-label-x"
	case TickMarkY:
		return "tick-mark-y"
	case TickLabelY:
		return "tick-label-y"
	case DragLineX:
		return "drag-line-x"
	case DragLineY:
		return "drag-line-y"
	case DragLabel:
		return "drag-label"
	default:
		return "unknown"
	}
}

// IsTick reports whether the element is regenerated on every viewport change.
func (k Kind) IsTick() bool {
	switch k {
	case TickMarkX, TickLabelX, TickMarkY, TickLabelY:
		return true
	case AxisBackgroundX, AxisBackgroundY, CornerBlock, DragLineX, DragLineY, DragLabel:
		return false
	default:
		return false
	}
}

// IsBackground reports whether the element persists and is only repositioned.
func (k Kind) IsBackground() bool {
	switch k {
	case AxisBackgroundX, AxisBackgroundY, CornerBlock:
		return true
	case TickMarkX, TickLabelX, TickMarkY, TickLabelY, DragLineX, DragLineY, DragLabel:
		return false
	default:
		return false
	}
}

// IsDrag reports whether the element was created by pressing on the ruler.
func (k Kind) IsDrag() bool {
	switch k {
	case DragLineX, DragLineY, DragLabel:
		return true
	case AxisBackgroundX, AxisBackgroundY, CornerBlock, TickMarkX, TickLabelX, TickMarkY, TickLabelY:
		return false
	default:
		return false
	}
}

// Axis is the ruler bar an element belongs to.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// Axis returns the bar that a press on this element should create a drag
// line for.
func (k Kind) Axis() Axis {
	switch k {
	case AxisBackgroundX, TickMarkX, TickLabelX:
		return AxisX
	case AxisBackgroundY, TickMarkY, TickLabelY:
		return AxisY
	case CornerBlock, DragLineX, DragLineY, DragLabel:
		return AxisNone
	default:
		return AxisNone
	}
}

// Element is one ruler object in the scene.
type Element struct {
	Kind   Kind
	Object *scene.Object

	// Value is the world coordinate a tick or drag line marks.
	Value float64
	// Label is the drag label attached to a drag line.
	Label *scene.Object
}

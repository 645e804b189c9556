// Package scene provides the ordered collection of drawable objects hosted
// on the canvas, with hit-testing, restacking and event notification.
package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"

	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// Type identifies the drawable primitive of an object.
type Type int

const (
	TypeRect Type = iota
	TypeEllipse
	TypeLine
	TypeText
	TypeImage
	TypeArtboard
)

func (t Type) String() string {
	switch t {
	case TypeRect:
		return "rect"
	case TypeEllipse:
		return "ellipse"
	case TypeLine:
		return "line"
	case TypeText:
		return "text"
	case TypeImage:
		return "image"
	case TypeArtboard:
		return "artboard"
	default:
		return "unknown"
	}
}

// Role says which subsystem owns an object.
type Role int

const (
	RoleContent Role = iota // user content, saved with the artboard
	RoleRuler               // ruler backgrounds, ticks and drag lines
	RoleGuide               // snap guide lines
)

func (r Role) String() string {
	switch r {
	case RoleContent:
		return "content"
	case RoleRuler:
		return "ruler"
	case RoleGuide:
		return "guide"
	default:
		return "unknown"
	}
}

// Data tags an object with identity and ownership.
type Data struct {
	ID             string `json:"id"`
	Type           Type   `json:"type"`
	Role           Role   `json:"role,omitempty"`
	IgnoreSnapping bool   `json:"ignoreSnapping,omitempty"`
}

// Object is a drawable on the canvas. Positions and sizes are in world
// units; Width/Height are unscaled and ScaledWidth/ScaledHeight apply
// ScaleX/ScaleY. A line runs from (Left, Top) to (Left+Width, Top+Height).
type Object struct {
	Data Data `json:"data"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle"` // degrees, clockwise around (Left, Top)

	Stroke      color.RGBA `json:"stroke"`
	Fill        color.RGBA `json:"fill"`
	StrokeWidth float64    `json:"strokeWidth"`
	Opacity     float64    `json:"opacity"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Image image.Image `json:"-"`
	Src   string      `json:"src,omitempty"` // image path, reloaded on open

	Selectable    bool `json:"selectable"`
	Evented       bool `json:"evented"`
	LockMovementX bool `json:"lockMovementX,omitempty"`
	LockMovementY bool `json:"lockMovementY,omitempty"`
}

// NewID returns a fresh unique object id.
func NewID() string {
	return uuid.NewString()
}

func newObject(t Type, left, top, width, height float64) *Object {
	return &Object{
		Data:        Data{ID: NewID(), Type: t},
		Left:        left,
		Top:         top,
		Width:       width,
		Height:      height,
		ScaleX:      1,
		ScaleY:      1,
		Stroke:      colorutil.Black,
		StrokeWidth: 1,
		Opacity:     1,
		Selectable:  true,
		Evented:     true,
	}
}

// NewRect creates a filled rectangle.
func NewRect(left, top, width, height float64, fill color.RGBA) *Object {
	o := newObject(TypeRect, left, top, width, height)
	o.Fill = fill
	o.StrokeWidth = 0
	return o
}

// NewEllipse creates an ellipse inscribed in the given box.
func NewEllipse(left, top, width, height float64, fill color.RGBA) *Object {
	o := newObject(TypeEllipse, left, top, width, height)
	o.Fill = fill
	o.StrokeWidth = 0
	return o
}

// NewLine creates a line between two points.
func NewLine(x1, y1, x2, y2 float64, stroke color.RGBA, width float64) *Object {
	o := newObject(TypeLine, x1, y1, x2-x1, y2-y1)
	o.Stroke = stroke
	o.StrokeWidth = width
	return o
}

// NewText creates a single-line text object.
func NewText(left, top float64, text string, fontSize float64, fill color.RGBA) *Object {
	o := newObject(TypeText, left, top, 0, fontSize)
	o.Text = text
	o.FontSize = fontSize
	o.Fill = fill
	o.Width = float64(len([]rune(text))) * fontSize * 0.6
	return o
}

// NewImage creates an image object sized to the image bounds.
func NewImage(left, top float64, img image.Image) *Object {
	b := img.Bounds()
	o := newObject(TypeImage, left, top, float64(b.Dx()), float64(b.Dy()))
	o.Image = img
	o.StrokeWidth = 0
	return o
}

// NewArtboard creates the white board rectangle objects are laid out on.
func NewArtboard(id string, left, top, width, height float64) *Object {
	o := newObject(TypeArtboard, left, top, width, height)
	if id != "" {
		o.Data.ID = id
	}
	o.Fill = colorutil.White
	o.StrokeWidth = 0
	o.Selectable = false
	return o
}

func scaleOrOne(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// ScaledWidth returns Width after ScaleX.
func (o *Object) ScaledWidth() float64 {
	return o.Width * scaleOrOne(o.ScaleX)
}

// ScaledHeight returns Height after ScaleY.
func (o *Object) ScaledHeight() float64 {
	return o.Height * scaleOrOne(o.ScaleY)
}

// Bounds returns the unrotated box in world units. For lines the box is
// normalized so Width and Height are non-negative.
func (o *Object) Bounds() geometry.Rect {
	r := geometry.NewRect(o.Left, o.Top, o.ScaledWidth(), o.ScaledHeight())
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// SetPosition moves the object, honouring movement locks.
func (o *Object) SetPosition(left, top float64) {
	if !o.LockMovementX {
		o.Left = left
	}
	if !o.LockMovementY {
		o.Top = top
	}
}

// Contains reports whether the world point hits the object. Lines are hit
// within slop world units of the segment.
func (o *Object) Contains(p geometry.Point2D, slop float64) bool {
	if o.Data.Type == TypeLine {
		a := geometry.NewPoint2D(o.Left, o.Top)
		b := geometry.NewPoint2D(o.Left+o.ScaledWidth(), o.Top+o.ScaledHeight())
		return geometry.DistanceToSegment(p, a, b) <= math.Max(slop, o.StrokeWidth/2)
	}
	r := geometry.NewRect(o.Left, o.Top, o.ScaledWidth(), o.ScaledHeight())
	if o.Angle == 0 {
		return o.Bounds().Contains(p)
	}
	return geometry.PointInPolygon(p, r.RotatedCorners(o.Angle))
}

// Clone returns a shallow copy with the same id.
func (o *Object) Clone() *Object {
	c := *o
	return &c
}

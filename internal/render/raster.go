// Package render rasterises the scene through the viewport transform.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/geometry"
)

// minFaceSize is the smallest on-screen font size drawn with the 7x13
// face. Smaller and rotated text uses the pixel font.
const minFaceSize = 12

// maxSegment bounds the pixel length of a line.
const maxSegment = 1 << 18

// pixelRect returns the pixel box covering r, clamped to a sane range.
func pixelRect(r geometry.Rect) image.Rectangle {
	const limit = 1 << 24
	c := func(v float64) float64 { return math.Max(-limit, math.Min(limit, v)) }
	return image.Rect(
		int(math.Floor(c(r.X))), int(math.Floor(c(r.Y))),
		int(math.Ceil(c(r.X+r.Width))), int(math.Ceil(c(r.Y+r.Height))),
	)
}

// Painter draws scene objects into RGBA images.
type Painter struct {
	Background color.RGBA
	face       font.Face
}

// NewPainter returns a painter that clears to background.
func NewPainter(background color.RGBA) *Painter {
	return &Painter{Background: background, face: basicfont.Face7x13}
}

// Render draws objects bottom first into a w x h image. The viewport maps
// world units to screen points; density converts points to pixels for
// high-density displays.
func (p *Painter) Render(vp *viewport.State, objects []*scene.Object, w, h int, density float64) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)
	if vp == nil {
		return output
	}
	if !(density > 0) {
		density = 1
	}

	t := geometry.Scale(density, density).Compose(vp.Transform())
	zoom := vp.Zoom() * density
	for _, o := range objects {
		if o == nil || o.Opacity <= 0 {
			continue
		}
		switch o.Data.Type {
		case scene.TypeRect, scene.TypeArtboard:
			p.drawRect(output, o, t, zoom)
		case scene.TypeEllipse:
			p.drawEllipse(output, o, t, zoom)
		case scene.TypeLine:
			p.drawSegment(output, o, t, zoom)
		case scene.TypeText:
			p.drawText(output, o, t, zoom)
		case scene.TypeImage:
			p.drawImage(output, o, t)
		}
	}
	return output
}

func objectRect(o *scene.Object) geometry.Rect {
	return geometry.NewRect(o.Left, o.Top, o.ScaledWidth(), o.ScaledHeight())
}

func screenCorners(o *scene.Object, t geometry.AffineTransform) []geometry.Point2D {
	corners := objectRect(o).RotatedCorners(o.Angle)
	for i, c := range corners {
		corners[i] = t.Apply(c)
	}
	return corners
}

// strokePixels converts a world stroke width to whole pixels, at least one.
func strokePixels(width, zoom float64) int {
	px := int(math.Round(width * zoom))
	if px < 1 {
		px = 1
	}
	return px
}

func (p *Painter) drawRect(output *image.RGBA, o *scene.Object, t geometry.AffineTransform, zoom float64) {
	corners := screenCorners(o, t)
	box := pixelRect(geometry.BoundingBox(corners)).Intersect(output.Bounds())
	if o.Fill.A > 0 {
		axisAligned := o.Angle == 0
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				if axisAligned || geometry.PointInPolygon(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}, corners) {
					blend(output, x, y, o.Fill, o.Opacity)
				}
			}
		}
	}
	if o.StrokeWidth > 0 && o.Stroke.A > 0 {
		thickness := strokePixels(o.StrokeWidth, zoom)
		for i := range corners {
			a, b := corners[i], corners[(i+1)%len(corners)]
			drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), o.Stroke, thickness, o.Opacity)
		}
	}
}

// ellipseTransform maps the unit square onto the object's screen box,
// rotated about its top-left corner.
func ellipseTransform(o *scene.Object, t geometry.AffineTransform) geometry.AffineTransform {
	return t.Compose(geometry.Translation(o.Left, o.Top)).
		Compose(geometry.Rotation(o.Angle * math.Pi / 180)).
		Compose(geometry.Scale(o.ScaledWidth(), o.ScaledHeight()))
}

func (p *Painter) drawEllipse(output *image.RGBA, o *scene.Object, t geometry.AffineTransform, zoom float64) {
	m := ellipseTransform(o, t)
	inv, ok := m.Inverse()
	if !ok {
		return
	}
	if o.Fill.A > 0 {
		box := pixelRect(geometry.BoundingBox(screenCorners(o, t))).Intersect(output.Bounds())
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				u := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
				dx, dy := u.X-0.5, u.Y-0.5
				if dx*dx+dy*dy <= 0.25 {
					blend(output, x, y, o.Fill, o.Opacity)
				}
			}
		}
	}
	if o.StrokeWidth > 0 && o.Stroke.A > 0 {
		thickness := strokePixels(o.StrokeWidth, zoom)
		pts := ellipseOutline(m)
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), o.Stroke, thickness, o.Opacity)
		}
	}
}

// ellipseOutline samples the ellipse inscribed in the unit square under m
// densely enough that neighbouring points are about two pixels apart.
func ellipseOutline(m geometry.AffineTransform) []geometry.Point2D {
	const minSegments, maxSegments = 16, 1024
	rx := math.Hypot(m.A, m.C) / 2
	ry := math.Hypot(m.B, m.D) / 2
	n := int(math.Ceil(math.Pi * (rx + ry)))
	n = max(minSegments, min(maxSegments, n))

	pts := make([]geometry.Point2D, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = m.Apply(geometry.Point2D{X: 0.5 + math.Cos(theta)/2, Y: 0.5 + math.Sin(theta)/2})
	}
	return pts
}

func (p *Painter) drawSegment(output *image.RGBA, o *scene.Object, t geometry.AffineTransform, zoom float64) {
	a := t.Apply(geometry.Point2D{X: o.Left, Y: o.Top})
	b := t.Apply(geometry.Point2D{X: o.Left + o.ScaledWidth(), Y: o.Top + o.ScaledHeight()})
	drawLine(output, int(a.X), int(a.Y), int(b.X), int(b.Y), o.Stroke, strokePixels(o.StrokeWidth, zoom), o.Opacity)
}

func (p *Painter) drawText(output *image.RGBA, o *scene.Object, t geometry.AffineTransform, zoom float64) {
	if o.Text == "" {
		return
	}
	size := o.FontSize * zoom
	if o.Angle != 0 || size < minFaceSize {
		center := geometry.BoundingBox(p.textCorners(o, t, zoom)).Center()
		scale := pixelScale(size)
		cx, cy := int(math.Round(center.X)), int(math.Round(center.Y))
		if math.Mod(o.Angle, 180) != 0 {
			DrawRotatedPixelText(output, o.Text, cx, cy, o.Fill, scale, o.Opacity)
		} else {
			DrawPixelText(output, o.Text, cx, cy, o.Fill, scale, o.Opacity)
		}
		return
	}

	origin := t.Apply(geometry.Point2D{X: o.Left, Y: o.Top})
	d := font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(withOpacity(o.Fill, o.Opacity)),
		Face: p.face,
		Dot:  fixed.P(int(origin.X), int(origin.Y)+p.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(o.Text)
}

// textCorners returns the screen corners of a text object. Text without an
// explicit width is measured with the face.
func (p *Painter) textCorners(o *scene.Object, t geometry.AffineTransform, zoom float64) []geometry.Point2D {
	r := objectRect(o)
	if r.Width <= 0 && zoom > 0 {
		r.Width = float64(font.MeasureString(p.face, o.Text)) / 64 / zoom
	}
	if r.Height <= 0 {
		r.Height = o.FontSize
	}
	corners := r.RotatedCorners(o.Angle)
	for i, c := range corners {
		corners[i] = t.Apply(c)
	}
	return corners
}

func (p *Painter) drawImage(output *image.RGBA, o *scene.Object, t geometry.AffineTransform) {
	if o.Image == nil {
		return
	}
	bb := geometry.BoundingBox(screenCorners(o, t))
	dst := pixelRect(bb)
	if dst.Empty() || !dst.Overlaps(output.Bounds()) {
		return
	}
	var opts *draw.Options
	if o.Opacity < 1 {
		opts = &draw.Options{DstMask: image.NewUniform(color.Alpha{A: uint8(o.Opacity * 255)})}
	}
	draw.ApproxBiLinear.Scale(output, dst, o.Image, o.Image.Bounds(), draw.Over, opts)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, opacity float64) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	// Segments this long are skipped rather than walked.
	if dx > maxSegment || dy > maxSegment {
		return
	}

	err := dx - dy
	lo, hi := -(thickness-1)/2, thickness/2
	for {
		for t := lo; t <= hi; t++ {
			for s := lo; s <= hi; s++ {
				blend(output, x1+s, y1+t, col, opacity)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * clamp01(opacity)))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// blend alpha-composites col at opacity over the pixel at (x, y).
func blend(output *image.RGBA, x, y int, col color.RGBA, opacity float64) {
	if !(image.Point{X: x, Y: y}).In(output.Bounds()) {
		return
	}
	alpha := float64(col.A) / 255 * clamp01(opacity)
	if alpha >= 0.999 {
		output.SetRGBA(x, y, color.RGBA{R: col.R, G: col.G, B: col.B, A: 255})
		return
	}
	if alpha <= 0.001 {
		return
	}
	existing := output.RGBAAt(x, y)
	inv := 1 - alpha
	output.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*alpha + float64(existing.R)*inv),
		G: uint8(float64(col.G)*alpha + float64(existing.G)*inv),
		B: uint8(float64(col.B)*alpha + float64(existing.B)*inv),
		A: 255,
	})
}

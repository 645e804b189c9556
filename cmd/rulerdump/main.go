// Command rulerdump prints the ruler ticks, zoom range and snap result for a
// viewport without opening a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/render"
	"artboard-studio/internal/ruler"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/snap"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

type options struct {
	width, height float64
	zoom          float64
	panX, panY    float64
	artboard      string
	target        string
	candidate     string
	tolerance     float64
	scheme        string
	pngPath       string
}

func main() {
	var opts options
	flag.Float64Var(&opts.width, "width", 800, "Canvas width in pixels")
	flag.Float64Var(&opts.height, "height", 600, "Canvas height in pixels")
	flag.Float64Var(&opts.zoom, "zoom", 1, "Zoom factor")
	flag.Float64Var(&opts.panX, "panx", 0, "Horizontal translation in pixels")
	flag.Float64Var(&opts.panY, "pany", 0, "Vertical translation in pixels")
	flag.StringVar(&opts.artboard, "artboard", "500x500", "Artboard size WxH used for the zoom range")
	flag.StringVar(&opts.target, "target", "", "Moving rectangle x,y,w,h to snap")
	flag.StringVar(&opts.candidate, "candidate", "", "Static rectangle x,y,w,h to snap against")
	flag.Float64Var(&opts.tolerance, "tolerance", snap.DefaultTolerance, "Snap distance in world units")
	flag.StringVar(&opts.scheme, "scheme", "light", "Ruler color scheme: light or dark")
	flag.StringVar(&opts.pngPath, "png", "", "Write a rendering of the ruler to this PNG file")
	logLevel := flag.String("log", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	applog.SetLogger(applog.New(os.Stderr, *logLevel))

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "rulerdump: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts options) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", opts.width, opts.height)
	}
	abW, abH, err := parseSize(opts.artboard)
	if err != nil {
		return fmt.Errorf("artboard: %w", err)
	}

	vp := viewport.New(opts.width, opts.height)
	rng := viewport.AllowedRange(abW, abH)
	vp.SetRange(rng)
	vp.SetViewport(rng.Clamp(opts.zoom), opts.panX, opts.panY)

	store := scene.NewStore()
	r := ruler.NewRenderer(store)
	scheme := colorutil.ParseScheme(opts.scheme)
	r.Initialize(vp, scheme)

	pan := vp.Pan()
	fmt.Fprintf(w, "Viewport: %gx%g zoom %.4g pan (%g, %g)\n", opts.width, opts.height, vp.Zoom(), pan.X, pan.Y)
	if vp.Zoom() != opts.zoom {
		fmt.Fprintf(w, "  (zoom %g clamped to %g)\n", opts.zoom, vp.Zoom())
	}
	visible := vp.VisibleRect()
	fmt.Fprintf(w, "Visible world: x [%g, %g] y [%g, %g]\n", visible.Left(), visible.Right(), visible.Top(), visible.Bottom())
	fmt.Fprintf(w, "Tick interval: %g\n", viewport.TickInterval(vp.Zoom()))

	dumpTicks(w, "X", r.Elements(ruler.TickLabelX), func(v float64) float64 { return v*vp.Zoom() + pan.X })
	dumpTicks(w, "Y", r.Elements(ruler.TickLabelY), func(v float64) float64 { return v*vp.Zoom() + pan.Y })

	fmt.Fprintf(w, "\nAllowed zoom for %gx%g artboard: [%g, %g]\n", abW, abH, rng.Min, rng.Max)

	if opts.target != "" || opts.candidate != "" {
		if err := dumpSnap(w, opts); err != nil {
			return err
		}
	}

	if opts.pngPath != "" {
		img := render.NewPainter(colorutil.CanvasBackground(scheme)).
			Render(vp, store.Objects(), int(opts.width), int(opts.height), 1)
		f, err := os.Create(opts.pngPath)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nWrote %s\n", opts.pngPath)
	}
	return nil
}

func dumpTicks(w io.Writer, axis string, labels []*ruler.Element, screen func(float64) float64) {
	fmt.Fprintf(w, "\n%s ticks (%d):\n", axis, len(labels))
	fmt.Fprintf(w, "%10s %10s %8s\n", "Value", "Screen", "Label")
	for _, e := range labels {
		fmt.Fprintf(w, "%10g %10.1f %8s\n", e.Value, screen(e.Value), e.Object.Text)
	}
}

func dumpSnap(w io.Writer, opts options) error {
	if opts.target == "" || opts.candidate == "" {
		return errors.New("snap needs both -target and -candidate")
	}
	target, err := parseRect(opts.target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	candidate, err := parseRect(opts.candidate)
	if err != nil {
		return fmt.Errorf("candidate: %w", err)
	}

	res := snap.Compute(target, []geometry.Rect{candidate}, opts.tolerance)
	fmt.Fprintf(w, "\nSnap (tolerance %g):\n", opts.tolerance)
	fmt.Fprintf(w, "  target    %s\n", formatRect(target))
	fmt.Fprintf(w, "  snapped   %s\n", formatRect(res.Target))
	fmt.Fprintf(w, "  dx %g (snapped %v)  dy %g (snapped %v)\n", res.Dx, res.SnappedX, res.Dy, res.SnappedY)
	for _, name := range snap.GuideNames {
		g := res.Guide(name)
		if g.Active {
			fmt.Fprintf(w, "  guide %-8s at %g\n", name, g.Position)
		}
	}
	return nil
}

func parseSize(s string) (float64, float64, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	nums, err := parseFloats(parts)
	if err != nil {
		return 0, 0, err
	}
	return nums[0], nums[1], nil
}

func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("want x,y,w,h, got %q", s)
	}
	nums, err := parseFloats(parts)
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.NewRect(nums[0], nums[1], nums[2], nums[3]), nil
}

func parseFloats(parts []string) ([]float64, error) {
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func formatRect(r geometry.Rect) string {
	return fmt.Sprintf("(%g, %g) %gx%g", r.X, r.Y, r.Width, r.Height)
}

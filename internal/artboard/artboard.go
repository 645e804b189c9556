// Package artboard provides artboard definitions, validation and the named
// size presets offered when creating new boards.
package artboard

import (
	"errors"
	"fmt"
	"strings"

	"artboard-studio/internal/scene"
)

// Validation errors.
var (
	ErrInvalidName  = errors.New("artboard name cannot be empty")
	ErrInvalidSize  = errors.New("artboard dimensions cannot be less than 1px")
	ErrInvalidCount = errors.New("number of artboards cannot be less than 1")
)

const (
	DefaultWidth  = 500.0
	DefaultHeight = 500.0
	minDimension  = 1.0
)

// Artboard is a fixed-size design surface.
type Artboard struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// New returns an artboard with a fresh id.
func New(name string, width, height float64) Artboard {
	return Artboard{
		ID:     scene.NewID(),
		Name:   name,
		Width:  width,
		Height: height,
	}
}

// Validate checks the name and dimensions.
func (a Artboard) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidName
	}
	if a.Width < minDimension || a.Height < minDimension {
		return fmt.Errorf("%w: got %gx%g", ErrInvalidSize, a.Width, a.Height)
	}
	return nil
}

// NewBatch creates n artboards sized like tmpl, named "<name> 1" to
// "<name> n", each with its own id.
func NewBatch(tmpl Artboard, n int) ([]Artboard, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	out := make([]Artboard, n)
	for i := range out {
		out[i] = New(fmt.Sprintf("%s %d", strings.TrimSpace(tmpl.Name), i+1), tmpl.Width, tmpl.Height)
	}
	return out, nil
}

// Placement returns the top-left that centres the artboard on a canvas of
// the given pixel size at zoom 1.
func (a Artboard) Placement(canvasWidth, canvasHeight float64) (left, top float64) {
	return canvasWidth/2 - a.Width/2, canvasHeight/2 - a.Height/2
}

// Object builds the scene rectangle representing the artboard.
func (a Artboard) Object(left, top float64) *scene.Object {
	return scene.NewArtboard(a.ID, left, top, a.Width, a.Height)
}

// LongestSide returns max(width, height), the value zoom bands key on.
func (a Artboard) LongestSide() float64 {
	if a.Width > a.Height {
		return a.Width
	}
	return a.Height
}

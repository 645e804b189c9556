// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"artboard-studio/internal/artboard"
)

const customPreset = "Custom"

// ErrInvalidNumber is returned when a size or count field is not a number.
var ErrInvalidNumber = errors.New("not a number")

// ParseArtboardForm validates the raw dialog fields and returns the
// template artboard and the number of boards to create.
func ParseArtboardForm(name, width, height, count string) (artboard.Artboard, int, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(width), 64)
	if err != nil {
		return artboard.Artboard{}, 0, fmt.Errorf("width: %w", ErrInvalidNumber)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if err != nil {
		return artboard.Artboard{}, 0, fmt.Errorf("height: %w", ErrInvalidNumber)
	}
	n := 1
	if c := strings.TrimSpace(count); c != "" {
		n, err = strconv.Atoi(c)
		if err != nil {
			return artboard.Artboard{}, 0, fmt.Errorf("count: %w", ErrInvalidNumber)
		}
	}
	if n < 1 {
		return artboard.Artboard{}, 0, fmt.Errorf("%w: got %d", artboard.ErrInvalidCount, n)
	}

	a := artboard.New(strings.TrimSpace(name), w, h)
	if err := a.Validate(); err != nil {
		return artboard.Artboard{}, 0, err
	}
	return a, n, nil
}

// ArtboardDialog asks for the name, size and number of new artboards.
type ArtboardDialog struct {
	window fyne.Window

	presetSelect *widget.Select
	nameEntry    *widget.Entry
	widthEntry   *widget.Entry
	heightEntry  *widget.Entry
	countEntry   *widget.Entry

	defaultWidth, defaultHeight float64

	// Callback
	onCreate func(tmpl artboard.Artboard, count int)
}

// NewArtboardDialog creates a dialog prefilled with the default size.
func NewArtboardDialog(window fyne.Window, defaultWidth, defaultHeight float64, onCreate func(artboard.Artboard, int)) *ArtboardDialog {
	return &ArtboardDialog{
		window:        window,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
		onCreate:      onCreate,
	}
}

// Show displays the dialog.
func (d *ArtboardDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"New Artboard",
		"Create",
		"Cancel",
		content,
		func(create bool) {
			if !create {
				return
			}
			tmpl, n, err := ParseArtboardForm(d.nameEntry.Text, d.widthEntry.Text, d.heightEntry.Text, d.countEntry.Text)
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onCreate != nil {
				d.onCreate(tmpl, n)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(380, 300))
	dlg.Show()
}

func (d *ArtboardDialog) createContent() fyne.CanvasObject {
	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText("Artboard")

	d.widthEntry = widget.NewEntry()
	d.widthEntry.SetText(formatSize(d.defaultWidth))

	d.heightEntry = widget.NewEntry()
	d.heightEntry.SetText(formatSize(d.defaultHeight))

	d.countEntry = widget.NewEntry()
	d.countEntry.SetText("1")

	options := append([]string{customPreset}, artboard.Names()...)
	d.presetSelect = widget.NewSelect(options, d.applyPreset)
	d.presetSelect.SetSelected(customPreset)

	return widget.NewForm(
		widget.NewFormItem("Preset", d.presetSelect),
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Width (px)", d.widthEntry),
		widget.NewFormItem("Height (px)", d.heightEntry),
		widget.NewFormItem("Count", d.countEntry),
	)
}

func (d *ArtboardDialog) applyPreset(name string) {
	p, ok := artboard.Lookup(name)
	if !ok || d.nameEntry == nil {
		return
	}
	d.nameEntry.SetText(p.Name)
	d.widthEntry.SetText(formatSize(p.Width))
	d.heightEntry.SetText(formatSize(p.Height))
}

func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

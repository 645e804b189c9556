// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"artboard-studio/internal/app"
	"artboard-studio/internal/applog"
	"artboard-studio/internal/artboard"
	"artboard-studio/pkg/colorutil"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	// Tab content
	artboardsPanel *ArtboardsPanel
	settingsPanel  *SettingsPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.artboardsPanel = NewArtboardsPanel(state)
	sp.settingsPanel = NewSettingsPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Artboards", sp.artboardsPanel.Container()),
		container.NewTabItem("Settings", sp.settingsPanel.Container()),
	)

	state.On(app.EventArtboardsChanged, func(interface{}) { sp.artboardsPanel.Refresh() })
	state.On(app.EventSelectedArtboardChanged, func(interface{}) { sp.artboardsPanel.Refresh() })
	state.On(app.EventSettingsChanged, func(interface{}) { sp.settingsPanel.Sync() })

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Artboards returns the artboard list tab.
func (sp *SidePanel) Artboards() *ArtboardsPanel { return sp.artboardsPanel }

// Settings returns the settings tab.
func (sp *SidePanel) Settings() *SettingsPanel { return sp.settingsPanel }

// ArtboardsPanel lists the artboards of the document and selects one on click.
type ArtboardsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list       *widget.List
	boards     []artboard.Artboard
	infoLabel  *widget.Label
	addButton  *widget.Button
	onAdd      func()
	log        *slog.Logger
	refreshing bool
}

// NewArtboardsPanel creates a new artboards panel.
func NewArtboardsPanel(state *app.State) *ArtboardsPanel {
	ap := &ArtboardsPanel{
		state: state,
		log:   applog.WithComponent("panels"),
	}

	ap.infoLabel = widget.NewLabel("No artboard")
	ap.infoLabel.Wrapping = fyne.TextWrapWord

	ap.list = widget.NewList(
		func() int {
			return len(ap.boards)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Artboard")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ap.boards) {
				obj.(*widget.Label).SetText(ap.boards[id].Name)
			}
		},
	)
	ap.list.OnSelected = func(id widget.ListItemID) {
		if ap.refreshing || id >= len(ap.boards) {
			return
		}
		if err := state.SelectArtboard(ap.boards[id].ID); err != nil {
			ap.log.Warn("select artboard failed", slog.Any("error", err))
		}
	}

	ap.addButton = widget.NewButton("New Artboard...", func() {
		if ap.onAdd != nil {
			ap.onAdd()
		}
	})

	ap.container = container.NewBorder(
		ap.addButton,
		widget.NewCard("Selected", "", ap.infoLabel),
		nil, nil,
		ap.list,
	)

	ap.Refresh()
	return ap
}

// Container returns the panel container.
func (ap *ArtboardsPanel) Container() fyne.CanvasObject {
	return ap.container
}

// OnAdd sets the action of the New Artboard button.
func (ap *ArtboardsPanel) OnAdd(callback func()) {
	ap.onAdd = callback
}

// Len returns the number of listed artboards.
func (ap *ArtboardsPanel) Len() int { return len(ap.boards) }

// Refresh reloads the list from state and highlights the selection.
func (ap *ArtboardsPanel) Refresh() {
	ap.boards = ap.state.Artboards()
	ap.refreshing = true
	defer func() { ap.refreshing = false }()

	ap.list.Refresh()
	sel, ok := ap.state.SelectedArtboard()
	if !ok {
		ap.list.UnselectAll()
		ap.infoLabel.SetText("No artboard")
		return
	}
	for i, b := range ap.boards {
		if b.ID == sel.ID {
			ap.list.Select(i)
			break
		}
	}
	ap.infoLabel.SetText(fmt.Sprintf("%s\n%g × %g px", sel.Name, sel.Width, sel.Height))
}

// SettingsPanel edits the persisted user settings.
type SettingsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	rulerCheck    *widget.Check
	darkCheck     *widget.Check
	autosaveCheck *widget.Check
	snapEntry     *widget.Entry
	statusLabel   *widget.Label
	pathLabel     *widget.Label
	syncing       bool
}

// NewSettingsPanel creates a new settings panel.
func NewSettingsPanel(state *app.State) *SettingsPanel {
	sp := &SettingsPanel{state: state}

	sp.statusLabel = widget.NewLabel("")
	sp.pathLabel = widget.NewLabel("")
	sp.pathLabel.Wrapping = fyne.TextWrapBreak

	sp.rulerCheck = widget.NewCheck("Show ruler", func(checked bool) {
		if sp.syncing {
			return
		}
		sp.report(sp.settings().SetRulerVisible(checked))
	})
	sp.darkCheck = widget.NewCheck("Dark mode", func(checked bool) {
		if sp.syncing {
			return
		}
		scheme := colorutil.SchemeLight
		if checked {
			scheme = colorutil.SchemeDark
		}
		sp.report(sp.settings().SetColorScheme(scheme))
	})
	sp.autosaveCheck = widget.NewCheck("Autosave", func(checked bool) {
		if sp.syncing {
			return
		}
		sp.report(sp.settings().SetAutosave(checked))
	})

	sp.snapEntry = widget.NewEntry()
	sp.snapEntry.OnSubmitted = sp.ApplySnapDistance

	if state.Settings == nil {
		sp.rulerCheck.Disable()
		sp.darkCheck.Disable()
		sp.autosaveCheck.Disable()
		sp.snapEntry.Disable()
	}

	sp.container = container.NewVBox(
		widget.NewCard("View", "", container.NewVBox(
			sp.rulerCheck,
			sp.darkCheck,
		)),
		widget.NewCard("Snapping", "", container.NewVBox(
			widget.NewLabel("Snap distance (px):"),
			sp.snapEntry,
		)),
		widget.NewCard("Document", "", sp.autosaveCheck),
		sp.statusLabel,
		sp.pathLabel,
	)

	sp.Sync()
	return sp
}

// Container returns the panel container.
func (sp *SettingsPanel) Container() fyne.CanvasObject {
	return sp.container
}

func (sp *SettingsPanel) settings() *app.Settings {
	return sp.state.Settings
}

// ApplySnapDistance parses text and stores it as the snap distance.
func (sp *SettingsPanel) ApplySnapDistance(text string) {
	if sp.settings() == nil {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		sp.statusLabel.SetText("Snap distance must be a number")
		return
	}
	sp.report(sp.settings().SetSnapTolerance(v))
	sp.snapEntry.SetText(formatFloat(sp.settings().SnapTolerance()))
}

func (sp *SettingsPanel) report(err error) {
	if err != nil {
		sp.statusLabel.SetText(err.Error())
		return
	}
	sp.statusLabel.SetText("")
}

// Sync updates the widgets from the stored settings.
func (sp *SettingsPanel) Sync() {
	s := sp.settings()
	if s == nil {
		sp.pathLabel.SetText("Settings are not persisted")
		return
	}
	sp.syncing = true
	defer func() { sp.syncing = false }()
	sp.rulerCheck.SetChecked(s.RulerVisible())
	sp.darkCheck.SetChecked(s.ColorScheme() == colorutil.SchemeDark)
	sp.autosaveCheck.SetChecked(s.Autosave())
	sp.snapEntry.SetText(formatFloat(s.SnapTolerance()))
	if p := s.Prefs().Path(); p != "" {
		sp.pathLabel.SetText("Stored in " + p)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

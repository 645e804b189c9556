// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"artboard-studio/internal/app"
	"artboard-studio/internal/applog"
	"artboard-studio/internal/artboard"
	"artboard-studio/internal/config"
	"artboard-studio/internal/document"
	"artboard-studio/internal/panzoom"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/version"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
	"artboard-studio/ui/canvas"
	"artboard-studio/ui/dialogs"
	"artboard-studio/ui/panels"
)

// Default sizes of objects added from the Add menu, in world units.
const (
	shapeSize    = 100.0
	textFontSize = 24.0
)

// imageFit is the share of the artboard a new image may cover.
const imageFit = 0.8

var errNoImage = errors.New("no image selected")

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	cfg   config.Config
	log   *slog.Logger

	ctrl      *panzoom.Controller
	canvas    *canvas.DesignCanvas
	sidePanel *panels.SidePanel

	statusBar    *widget.Label
	zoomLabel    *widget.Label
	pointerLabel *widget.Label
	snapEntry    *widget.Entry

	// Menu items that need state tracking
	mainMenu      *fyne.MainMenu
	showRulerItem *fyne.MenuItem
	darkModeItem  *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, cfg config.Config) *MainWindow {
	win := fyneApp.NewWindow(cfg.Window.Title)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		cfg:    cfg,
		log:    applog.WithComponent("mainwindow"),
	}

	// Only hand a non-nil *Settings to the controller interface.
	var settings panzoom.Settings
	if state.Settings != nil {
		settings = state.Settings
	}
	vp := viewport.New(float64(cfg.Window.Width), float64(cfg.Window.Height))
	mw.ctrl = panzoom.New(vp, state.Scene, settings)
	mw.ctrl.Attach()

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.applySettings()
	mw.updateTitle()

	win.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	return mw
}

// Controller returns the viewport controller of the canvas.
func (mw *MainWindow) Controller() *panzoom.Controller { return mw.ctrl }

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewDesignCanvas(mw.ctrl, mw.state.Scene)

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.Artboards().OnAdd(mw.onNewArtboard)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel(formatZoom(mw.ctrl.Viewport().Zoom()))
	mw.pointerLabel = widget.NewLabel("")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,   // top
		nil,       // bottom
		nil,       // left
		nil,       // right
		mw.canvas, // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.2)

	status := container.NewBorder(nil, nil, nil,
		container.NewHBox(mw.pointerLabel, mw.zoomLabel),
		mw.statusBar,
	)

	content := container.NewBorder(
		nil,                         // top
		container.NewPadded(status), // bottom
		nil,                         // left
		nil,                         // right
		split,                       // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom, view and snap controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onZoomToFit)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)
	rulerBtn := widget.NewButton("Ruler", mw.onToggleRuler)
	themeBtn := widget.NewButton("Theme", mw.onToggleDarkMode)

	mw.snapEntry = widget.NewEntry()
	mw.snapEntry.SetText(formatFloat(mw.ctrl.SnapTolerance()))
	mw.snapEntry.OnSubmitted = mw.onSnapDistance
	if mw.state.Settings == nil {
		mw.snapEntry.Disable()
	}

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		rulerBtn,
		themeBtn,
		widget.NewSeparator(),
		widget.NewLabel("Snap:"),
		container.NewGridWrap(fyne.NewSize(60, mw.snapEntry.MinSize().Height), mw.snapEntry),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Document", mw.onNewDocument),
		fyne.NewMenuItem("Open Document...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSaveDocument),
		fyne.NewMenuItem("Save As...", mw.onSaveDocumentAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	var presetItems []*fyne.MenuItem
	for _, p := range artboard.Presets() {
		presetItems = append(presetItems, fyne.NewMenuItem(
			fmt.Sprintf("%s (%g × %g)", p.Name, p.Width, p.Height),
			func() { mw.onAddPreset(p) },
		))
	}
	presetsItem := fyne.NewMenuItem("Presets", nil)
	presetsItem.ChildMenu = fyne.NewMenu("", presetItems...)

	artboardMenu := fyne.NewMenu("Artboard",
		fyne.NewMenuItem("New Artboard...", mw.onNewArtboard),
		presetsItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Artboard", func() { mw.onCycleArtboard(1) }),
		fyne.NewMenuItem("Previous Artboard", func() { mw.onCycleArtboard(-1) }),
	)

	addMenu := fyne.NewMenu("Add",
		fyne.NewMenuItem("Rectangle", mw.onAddRectangle),
		fyne.NewMenuItem("Ellipse", mw.onAddEllipse),
		fyne.NewMenuItem("Line", mw.onAddLine),
		fyne.NewMenuItem("Text", mw.onAddText),
		fyne.NewMenuItem("Image...", mw.onAddImage),
	)

	mw.showRulerItem = fyne.NewMenuItem("Show Ruler", mw.onToggleRuler)
	mw.darkModeItem = fyne.NewMenuItem("Dark Mode", mw.onToggleDarkMode)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Zoom to Fit", mw.onZoomToFit),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItem("Center Artboard", mw.onCenterArtboard),
		fyne.NewMenuItemSeparator(),
		mw.showRulerItem,
		mw.darkModeItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, artboardMenu, addMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSelectedArtboardChanged, func(interface{}) {
		mw.ctrl.SetArtboard(mw.state.ArtboardObject())
		if err := mw.ctrl.ZoomToFit(); err != nil && !errors.Is(err, panzoom.ErrNoArtboard) {
			mw.log.Warn("zoom to fit failed", slog.Any("error", err))
		}
		if a, ok := mw.state.SelectedArtboard(); ok {
			mw.updateStatus(fmt.Sprintf("Artboard: %s (%g × %g)", a.Name, a.Width, a.Height))
		}
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Document loaded: " + path)
		}
		mw.updateTitle()
	})

	mw.state.On(app.EventDocumentSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
		mw.updateTitle()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		mw.updateTitle()
		if modified, ok := data.(bool); ok && modified {
			mw.autosave()
		}
	})

	mw.state.On(app.EventSettingsChanged, func(interface{}) {
		mw.applySettings()
	})

	mw.state.Scene.On(scene.EventObjectModified, func(scene.Event) {
		mw.state.SetModified(true)
	})

	mw.ctrl.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(formatZoom(zoom))
	})

	mw.canvas.OnPointerMove(func(world geometry.Point2D) {
		mw.pointerLabel.SetText(fmt.Sprintf("%.0f, %.0f", world.X, world.Y))
	})
}

// applySettings pushes the stored settings into the controller, the theme
// and the menus.
func (mw *MainWindow) applySettings() {
	s := mw.state.Settings
	if s == nil {
		return
	}
	if visible := s.RulerVisible(); visible != mw.ctrl.RulerVisible() {
		mw.ctrl.SetRulerVisible(visible)
	}
	scheme := s.ColorScheme()
	if scheme != mw.ctrl.Scheme() {
		mw.ctrl.SetScheme(scheme)
	}
	mw.app.Settings().SetTheme(app.NewStudioTheme(scheme))

	mw.snapEntry.SetText(formatFloat(s.SnapTolerance()))
	mw.showRulerItem.Checked = mw.ctrl.RulerVisible()
	mw.darkModeItem.Checked = scheme == colorutil.SchemeDark
	mw.mainMenu.Refresh()
	mw.canvas.Refresh()
}

// updateTitle shows the document name and a marker for unsaved changes.
func (mw *MainWindow) updateTitle() {
	title := mw.cfg.Window.Title
	if path := mw.state.DocumentPath; path != "" {
		title += " - " + filepath.Base(path)
	} else {
		title += " - " + mw.state.Document.Name
	}
	if mw.state.IsModified() {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// autosave writes the document when autosave is on and it has a path.
func (mw *MainWindow) autosave() {
	s := mw.state.Settings
	if s == nil || !s.Autosave() || mw.state.DocumentPath == "" {
		return
	}
	if err := mw.state.SaveDocument(mw.state.DocumentPath); err != nil {
		mw.log.Warn("autosave failed", slog.Any("error", err))
		mw.updateStatus("Autosave failed: " + err.Error())
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	if mw.state.Settings == nil {
		return nil
	}
	path := mw.state.Settings.LastDirectory()
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	if mw.state.Settings == nil {
		return
	}
	if err := mw.state.Settings.SetLastDirectory(filepath.Dir(filePath)); err != nil {
		mw.log.Warn("cannot store last directory", slog.Any("error", err))
	}
}

// canvasSize returns the canvas size in pixels, used to centre new artboards.
func (mw *MainWindow) canvasSize() (float64, float64) {
	size := mw.ctrl.Viewport().Size()
	return size.Width, size.Height
}

// dropOrigin returns the top-left that centres an object of the given size
// on the active artboard, or on the visible area when there is none.
func (mw *MainWindow) dropOrigin(width, height float64) (float64, float64) {
	center := mw.ctrl.Viewport().VisibleRect().Center()
	if ab := mw.ctrl.Artboard(); ab != nil {
		center = ab.Bounds().Center()
	}
	return center.X - width/2, center.Y - height/2
}

// imageScale fits a w x h image into 80% of the artboard. It is 1 without
// an artboard or for an empty image.
func imageScale(ab *scene.Object, w, h float64) float64 {
	if ab == nil || w <= 0 || h <= 0 {
		return 1
	}
	b := ab.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return 1
	}
	return math.Min(b.Width*imageFit/w, b.Height*imageFit/h)
}

// AddObject places obj in the scene and marks the document modified.
func (mw *MainWindow) AddObject(obj *scene.Object) {
	mw.state.Scene.Add(obj)
	mw.state.SetModified(true)
	mw.canvas.Refresh()
}

// Menu action handlers

func (mw *MainWindow) onNewDocument() {
	mw.state.NewDocument("Untitled")
	mw.updateTitle()
	mw.updateStatus("New document")
}

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{document.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveDocument() {
	if mw.state.DocumentPath == "" {
		mw.onSaveDocumentAs()
		return
	}
	if err := mw.state.SaveDocument(mw.state.DocumentPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveDocumentAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != document.Extension {
			path += document.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(mw.state.Document.Name + document.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onNewArtboard() {
	dialogs.NewArtboardDialog(mw.Window,
		mw.cfg.Canvas.ArtboardWidth, mw.cfg.Canvas.ArtboardHeight,
		func(tmpl artboard.Artboard, n int) {
			if err := mw.AddArtboards(tmpl, n); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}).Show()
}

// AddArtboards adds one artboard named after tmpl, or n numbered copies.
func (mw *MainWindow) AddArtboards(tmpl artboard.Artboard, n int) error {
	w, h := mw.canvasSize()
	if n == 1 {
		return mw.state.AddArtboard(tmpl, w, h)
	}
	_, err := mw.state.AddArtboards(tmpl, n, w, h)
	return err
}

func (mw *MainWindow) onAddPreset(p artboard.Preset) {
	if err := mw.AddArtboards(p.Artboard(), 1); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// onCycleArtboard selects the artboard step positions away from the
// current one, wrapping around.
func (mw *MainWindow) onCycleArtboard(step int) {
	boards := mw.state.Artboards()
	if len(boards) == 0 {
		return
	}
	idx := 0
	if sel, ok := mw.state.SelectedArtboard(); ok {
		for i, b := range boards {
			if b.ID == sel.ID {
				idx = (i + step + len(boards)) % len(boards)
				break
			}
		}
	}
	if err := mw.state.SelectArtboard(boards[idx].ID); err != nil {
		mw.log.Warn("select artboard failed", slog.Any("error", err))
	}
}

func (mw *MainWindow) onAddRectangle() {
	left, top := mw.dropOrigin(shapeSize, shapeSize)
	mw.AddObject(scene.NewRect(left, top, shapeSize, shapeSize, colorutil.Blue))
}

func (mw *MainWindow) onAddEllipse() {
	left, top := mw.dropOrigin(shapeSize, shapeSize)
	mw.AddObject(scene.NewEllipse(left, top, shapeSize, shapeSize, colorutil.Blue))
}

func (mw *MainWindow) onAddLine() {
	left, top := mw.dropOrigin(shapeSize, 0)
	mw.AddObject(scene.NewLine(left, top, left+shapeSize, top, colorutil.Black, 2))
}

func (mw *MainWindow) onAddText() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Text")
	dialog.ShowForm("Add Text", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			text := strings.TrimSpace(entry.Text)
			if !ok || text == "" {
				return
			}
			left, top := mw.dropOrigin(0, textFontSize)
			mw.AddObject(scene.NewText(left, top, text, textFontSize, colorutil.Black))
		}, mw.Window)
}

func (mw *MainWindow) onAddImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		img, _, err := image.Decode(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("decode %s: %w", filepath.Base(path), err), mw.Window)
			return
		}
		if err := mw.AddImage(img, path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".bmp", ".webp", ".tif", ".tiff"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// AddImage places img at its natural size centred on the artboard. src is
// stored so the document can reload it.
func (mw *MainWindow) AddImage(img image.Image, src string) error {
	if img == nil {
		return errNoImage
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scale := imageScale(mw.ctrl.Artboard(), w, h)
	left, top := mw.dropOrigin(w*scale, h*scale)
	obj := scene.NewImage(left, top, img)
	obj.ScaleX, obj.ScaleY = scale, scale
	obj.Src = src
	mw.AddObject(obj)
	return nil
}

func (mw *MainWindow) onZoomIn() {
	mw.ctrl.ZoomIn()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onZoomOut() {
	mw.ctrl.ZoomOut()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onZoomToFit() {
	if err := mw.ctrl.ZoomToFit(); err != nil {
		mw.updateStatus("Zoom to fit: " + err.Error())
		return
	}
	mw.canvas.Refresh()
}

func (mw *MainWindow) onActualSize() {
	mw.ctrl.ResetZoom()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onCenterArtboard() {
	if err := mw.ctrl.CenterArtboard(); err != nil {
		mw.updateStatus("Center: " + err.Error())
		return
	}
	mw.canvas.Refresh()
}

func (mw *MainWindow) onToggleRuler() {
	visible := !mw.ctrl.RulerVisible()
	if s := mw.state.Settings; s != nil {
		if err := s.SetRulerVisible(visible); err != nil {
			mw.updateStatus(err.Error())
		}
		return
	}
	mw.ctrl.SetRulerVisible(visible)
	mw.showRulerItem.Checked = visible
	mw.canvas.Refresh()
}

func (mw *MainWindow) onToggleDarkMode() {
	scheme := colorutil.SchemeDark
	if mw.ctrl.Scheme() == colorutil.SchemeDark {
		scheme = colorutil.SchemeLight
	}
	if s := mw.state.Settings; s != nil {
		if err := s.SetColorScheme(scheme); err != nil {
			mw.updateStatus(err.Error())
		}
		return
	}
	mw.ctrl.SetScheme(scheme)
	mw.app.Settings().SetTheme(app.NewStudioTheme(scheme))
	mw.darkModeItem.Checked = scheme == colorutil.SchemeDark
	mw.canvas.Refresh()
}

func (mw *MainWindow) onSnapDistance(text string) {
	s := mw.state.Settings
	if s == nil {
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err == nil {
		err = s.SetSnapTolerance(v)
	}
	if err != nil {
		mw.updateStatus("Snap distance: " + err.Error())
		mw.snapEntry.SetText(formatFloat(s.SnapTolerance()))
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Artboard Studio",
		fmt.Sprintf("Artboard Studio %s\n\n"+
			"A vector design canvas with rulers, snapping and artboards.\n\n"+
			"Built: %s",
			version.String(), version.BuildTime),
		mw.Window)
}

func formatZoom(zoom float64) string {
	return fmt.Sprintf("%.0f%%", zoom*100)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

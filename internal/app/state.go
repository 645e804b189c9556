// Package app provides application lifecycle management, settings, and events.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/artboard"
	"artboard-studio/internal/document"
	"artboard-studio/internal/scene"
)

// State holds the application state: the open document, the objects of the
// selected artboard, and settings.
type State struct {
	mu sync.RWMutex

	// Document
	DocumentPath string
	Modified     bool
	Document     *document.File

	// Objects of the selected artboard plus the ruler and guide overlay.
	Scene *scene.Store

	Settings *Settings

	// Event listeners
	nextListener int
	listeners    map[EventType][]listenerEntry
	log          *slog.Logger
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventArtboardsChanged
	EventSelectedArtboardChanged
	EventModified
	EventSettingsChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// ListenerID identifies a registered listener for Off.
type ListenerID struct {
	event EventType
	id    int
}

type listenerEntry struct {
	id int
	fn EventListener
}

// NewState creates a new application state with an empty document.
// settings may be nil.
func NewState(settings *Settings) *State {
	s := &State{
		Document:  document.New("Untitled"),
		Scene:     scene.NewStore(),
		Settings:  settings,
		listeners: make(map[EventType][]listenerEntry),
		log:       applog.WithComponent("app"),
	}
	if settings != nil {
		settings.OnChange(func(key string) {
			s.Emit(EventSettingsChanged, key)
		})
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListener++
	s.listeners[event] = append(s.listeners[event], listenerEntry{id: s.nextListener, fn: listener})
	return ListenerID{event: event, id: s.nextListener}
}

// Off removes a listener registered with On.
func (s *State) Off(id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.listeners[id.event]
	for i, e := range entries {
		if e.id == id.id {
			s.listeners[id.event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := append([]listenerEntry(nil), s.listeners[event]...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.fn(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// IsModified reports whether there are unsaved changes.
func (s *State) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Modified
}

// Artboards returns the artboards of the document in order.
func (s *State) Artboards() []artboard.Artboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]artboard.Artboard, len(s.Document.Boards))
	for i, b := range s.Document.Boards {
		out[i] = b.Artboard
	}
	return out
}

// SelectedArtboard returns the selected artboard.
func (s *State) SelectedArtboard() (artboard.Artboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.Document.SelectedBoard()
	if b == nil {
		return artboard.Artboard{}, false
	}
	return b.Artboard, true
}

// ArtboardObject returns the scene rectangle of the selected artboard, or
// nil when none is selected.
func (s *State) ArtboardObject() *scene.Object {
	s.mu.RLock()
	id := s.Document.Selected
	s.mu.RUnlock()
	if id == "" {
		return nil
	}
	for _, o := range s.Scene.Objects() {
		if o.Data.Type == scene.TypeArtboard && o.Data.ID == id {
			return o
		}
	}
	return nil
}

// AddArtboard validates a, adds it to the document centred on a canvas of
// the given size, and selects it.
func (s *State) AddArtboard(a artboard.Artboard, canvasWidth, canvasHeight float64) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = scene.NewID()
	}
	s.addBoards([]artboard.Artboard{a}, canvasWidth, canvasHeight)
	return s.SelectArtboard(a.ID)
}

// AddArtboards creates n artboards from tmpl and selects the first.
func (s *State) AddArtboards(tmpl artboard.Artboard, n int, canvasWidth, canvasHeight float64) ([]artboard.Artboard, error) {
	boards, err := artboard.NewBatch(tmpl, n)
	if err != nil {
		return nil, err
	}
	s.addBoards(boards, canvasWidth, canvasHeight)
	if err := s.SelectArtboard(boards[0].ID); err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *State) addBoards(boards []artboard.Artboard, canvasWidth, canvasHeight float64) {
	s.mu.Lock()
	s.Document.AddBoards(boards...)
	for _, a := range boards {
		left, top := a.Placement(canvasWidth, canvasHeight)
		s.Document.SetObjects(a.ID, []*scene.Object{a.Object(left, top)})
	}
	s.mu.Unlock()

	s.log.Info("artboards added", slog.Int("count", len(boards)))
	s.Emit(EventArtboardsChanged, len(boards))
	s.SetModified(true)
}

// SelectArtboard saves the objects of the current artboard and loads those
// of the artboard with id into the scene.
func (s *State) SelectArtboard(id string) error {
	s.mu.Lock()
	if s.Document.Selected == id && s.Document.SelectedBoard() != nil {
		s.mu.Unlock()
		return nil
	}
	next := s.Document.Board(id)
	if next == nil {
		s.mu.Unlock()
		return fmt.Errorf("artboard %q not found", id)
	}
	if s.Document.Selected != "" {
		s.Document.SetObjects(s.Document.Selected, s.Scene.Objects())
	}
	s.Document.Selected = id
	objects := make([]*scene.Object, len(next.Objects))
	for i, o := range next.Objects {
		objects[i] = o.Clone()
	}
	s.mu.Unlock()

	s.replaceContent(objects)
	s.log.Debug("artboard selected", slog.String("id", id))
	s.Emit(EventSelectedArtboardChanged, id)
	return nil
}

// replaceContent swaps the content objects of the scene, leaving overlay
// objects in place above them.
func (s *State) replaceContent(objects []*scene.Object) {
	s.Scene.RemoveWhere(func(o *scene.Object) bool { return !scene.IsOverlay(o) })
	for i := len(objects) - 1; i >= 0; i-- {
		s.Scene.Add(objects[i])
		s.Scene.SendToBack(objects[i])
	}
}

// SaveArtboardState stores the current scene content on the selected
// artboard.
func (s *State) SaveArtboardState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Document.Selected == "" {
		return
	}
	s.Document.SetObjects(s.Document.Selected, s.Scene.Objects())
}

// NewDocument discards the current document and starts an empty one.
func (s *State) NewDocument(name string) {
	s.mu.Lock()
	s.Document = document.New(name)
	s.DocumentPath = ""
	s.Modified = false
	s.mu.Unlock()

	s.replaceContent(nil)
	s.Emit(EventArtboardsChanged, 0)
	s.Emit(EventSelectedArtboardChanged, "")
}

// LoadDocument loads a document from the specified path and selects its
// saved artboard, or the first one.
func (s *State) LoadDocument(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	if err := doc.LoadImages(path); err != nil {
		s.log.Warn("some images could not be loaded",
			slog.String("path", path),
			slog.Any("error", err))
	}

	selected := doc.Selected
	if doc.Board(selected) == nil && len(doc.Boards) > 0 {
		selected = doc.Boards[0].ID
	}
	doc.Selected = ""

	s.mu.Lock()
	s.Document = doc
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()

	s.replaceContent(nil)
	if selected != "" {
		if err := s.SelectArtboard(selected); err != nil {
			return err
		}
	}
	s.log.Info("document loaded",
		slog.String("path", path),
		slog.Int("artboards", len(doc.Boards)))
	s.Emit(EventArtboardsChanged, len(doc.Boards))
	s.Emit(EventDocumentLoaded, path)
	return nil
}

// SaveDocument saves the document to the specified path.
func (s *State) SaveDocument(path string) error {
	s.SaveArtboardState()

	s.mu.Lock()
	err := s.Document.Save(path)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()

	s.log.Info("document saved", slog.String("path", path))
	s.Emit(EventDocumentSaved, path)
	return nil
}

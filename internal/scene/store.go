package scene

import (
	"sync"

	"artboard-studio/pkg/geometry"
)

// EventType identifies store notifications.
type EventType int

const (
	EventPointerDown EventType = iota
	EventObjectMoving
	EventObjectModified
	EventSelectionCleared
	EventObjectAdded
	EventObjectRemoved
)

// Event carries the object and pointer involved in a notification.
type Event struct {
	Target  *Object
	Pointer geometry.Point2D // world coordinates
}

// Listener is called when an event occurs.
type Listener func(ev Event)

// Subscription identifies a registered listener for Off.
type Subscription struct {
	event EventType
	id    int
}

type listenerEntry struct {
	id int
	fn Listener
}

// Store holds the ordered objects; later objects draw on top.
type Store struct {
	mu      sync.RWMutex
	objects []*Object

	nextID    int
	listeners map[EventType][]listenerEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		listeners: make(map[EventType][]listenerEntry),
	}
}

// On registers a listener and returns the handle needed to remove it.
func (s *Store) On(event EventType, fn Listener) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[event] = append(s.listeners[event], listenerEntry{id: s.nextID, fn: fn})
	return Subscription{event: event, id: s.nextID}
}

// Off removes a listener. Removing twice is harmless.
func (s *Store) Off(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.listeners[sub.event]
	for i, e := range entries {
		if e.id == sub.id {
			s.listeners[sub.event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners for event.
func (s *Store) ListenerCount(event EventType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[event])
}

// Emit calls every listener for event in registration order.
func (s *Store) Emit(event EventType, ev Event) {
	s.mu.RLock()
	entries := append([]listenerEntry(nil), s.listeners[event]...)
	s.mu.RUnlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

// Add appends objects on top of the stack.
func (s *Store) Add(objs ...*Object) {
	s.mu.Lock()
	for _, o := range objs {
		if o != nil {
			s.objects = append(s.objects, o)
		}
	}
	s.mu.Unlock()

	for _, o := range objs {
		if o != nil {
			s.Emit(EventObjectAdded, Event{Target: o})
		}
	}
}

// Remove deletes objects from the store. Unknown objects are ignored.
func (s *Store) Remove(objs ...*Object) {
	var removed []*Object
	s.mu.Lock()
	for _, o := range objs {
		if i := s.indexOf(o); i >= 0 {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			removed = append(removed, o)
		}
	}
	s.mu.Unlock()

	for _, o := range removed {
		s.Emit(EventObjectRemoved, Event{Target: o})
	}
}

// RemoveWhere deletes every object matching pred and returns how many.
func (s *Store) RemoveWhere(pred func(*Object) bool) int {
	var removed []*Object
	s.mu.Lock()
	kept := s.objects[:0]
	for _, o := range s.objects {
		if pred(o) {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = kept
	s.mu.Unlock()

	for _, o := range removed {
		s.Emit(EventObjectRemoved, Event{Target: o})
	}
	return len(removed)
}

// Clear removes every object without notifying listeners.
func (s *Store) Clear() {
	s.mu.Lock()
	s.objects = nil
	s.mu.Unlock()
}

// Objects returns a snapshot of the objects, bottom first.
func (s *Store) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Object(nil), s.objects...)
}

// Len returns the number of objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Find returns the object with id, or nil.
func (s *Store) Find(id string) *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.objects {
		if o.Data.ID == id {
			return o
		}
	}
	return nil
}

// IndexOf returns the stack position of obj, or -1.
func (s *Store) IndexOf(obj *Object) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(obj)
}

func (s *Store) indexOf(obj *Object) int {
	for i, o := range s.objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// MoveTo places obj at index, clamped to the stack bounds.
func (s *Store) MoveTo(obj *Object, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(obj)
	if i < 0 {
		return
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(s.objects) {
		index = len(s.objects)
	}
	s.objects = append(s.objects, nil)
	copy(s.objects[index+1:], s.objects[index:])
	s.objects[index] = obj
}

// BringToFront moves obj to the top of the stack.
func (s *Store) BringToFront(obj *Object) {
	s.MoveTo(obj, s.Len())
}

// SendToBack moves obj to the bottom of the stack.
func (s *Store) SendToBack(obj *Object) {
	s.MoveTo(obj, 0)
}

// ObjectAt returns the topmost evented object under the world point.
// slop widens hit areas of thin lines.
func (s *Store) ObjectAt(p geometry.Point2D, slop float64) *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if !o.Evented || o.Opacity == 0 {
			continue
		}
		if o.Contains(p, slop) {
			return o
		}
	}
	return nil
}

// Package store holds the in-memory todo list.
//
// A Store is owned by exactly one goroutine (the UI loop). It does no
// locking of its own; callers are expected to confine every access to the
// owning goroutine, and a Guard can be installed to enforce that.
package store

import (
	"github.com/google/uuid"

	"github.com/Makepad-fr/todogui/internal/model"
)

// Guard is consulted before every read or write. A non-nil error aborts the
// operation; Store turns it into a panic so the owning loop's recovery
// reports it.
type Guard func() error

// Store is an insertion-ordered list of todo items.
type Store struct {
	items  []model.TodoItem
	issued map[uuid.UUID]struct{}
	newID  func() uuid.UUID
	guard  Guard
}

// Option configures a Store.
type Option func(*Store)

// WithGuard installs an affinity check run before each operation.
func WithGuard(g Guard) Option {
	return func(s *Store) { s.guard = g }
}

// WithIDSource overrides ID generation (tests use it to force collisions).
func WithIDSource(fn func() uuid.UUID) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		issued: make(map[uuid.UUID]struct{}),
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) check() {
	if s.guard == nil {
		return
	}
	if err := s.guard(); err != nil {
		panic(err)
	}
}

// Add appends a new item. Empty text is rejected and nothing is created;
// whitespace counts as text.
func (s *Store) Add(text string, date int64) (model.TodoItem, bool) {
	s.check()
	if text == "" {
		return model.TodoItem{}, false
	}
	it := model.TodoItem{ID: s.freshID(), Text: text, Date: date}
	s.items = append(s.items, it)
	return it, true
}

// Edit replaces text and date of the referenced item in place. The ID and
// position never change. Any text is accepted, empty included; only an
// unknown ref is a no-op.
func (s *Store) Edit(ref model.Ref, text string, date int64) (model.TodoItem, int, bool) {
	s.check()
	i := s.resolve(ref)
	if i < 0 {
		return model.TodoItem{}, -1, false
	}
	s.items[i].Text = text
	s.items[i].Date = date
	return s.items[i], i, true
}

// Delete removes the referenced item; later items shift down by one.
func (s *Store) Delete(ref model.Ref) (model.TodoItem, int, bool) {
	s.check()
	i := s.resolve(ref)
	if i < 0 {
		return model.TodoItem{}, -1, false
	}
	it := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return it, i, true
}

// Get returns a copy of the referenced item.
func (s *Store) Get(ref model.Ref) (model.TodoItem, bool) {
	s.check()
	i := s.resolve(ref)
	if i < 0 {
		return model.TodoItem{}, false
	}
	return s.items[i], true
}

// IndexOf returns the position of id, or -1.
func (s *Store) IndexOf(id uuid.UUID) int {
	s.check()
	return s.indexOf(id)
}

// Len returns the number of live items.
func (s *Store) Len() int {
	s.check()
	return len(s.items)
}

// Items returns a copy of the list in order.
func (s *Store) Items() []model.TodoItem {
	s.check()
	out := make([]model.TodoItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) resolve(ref model.Ref) int {
	if id, ok := ref.ID(); ok {
		return s.indexOf(id)
	}
	i, _ := ref.Index()
	if i < 0 || i >= len(s.items) {
		return -1
	}
	return i
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// freshID never hands out an ID twice, including IDs of deleted items.
func (s *Store) freshID() uuid.UUID {
	for {
		id := s.newID()
		if id == uuid.Nil {
			continue
		}
		if _, seen := s.issued[id]; seen {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

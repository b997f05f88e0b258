package client

import (
	"context"
	"slices"
	"sync"

	"github.com/foomo/guitarserver/pkg/guitars"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State of a rendered entry
type State int

const (
	// StatePending entries are rendered optimistically and wait for the server
	StatePending State = iota
	// StateConfirmed entries carry the address the server returned
	StateConfirmed
	// StateRolledBack entries failed to be created and are no longer listed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// EventType tells subscribers what happened to an entry
type EventType string

const (
	EventAdded     EventType = "added"
	EventConfirmed EventType = "confirmed"
	EventRemoved   EventType = "removed"
	EventFailed    EventType = "failed"
)

var ErrUnknownEntry = errors.New("unknown entry")

type (
	// Backend is the server side of the list, implemented by Client.
	Backend interface {
		List(ctx context.Context) ([]guitars.Item, error)
		Create(ctx context.Context, name string) (guitars.Item, error)
		Delete(ctx context.Context, address string) error
	}
	// Entry is one rendered guitar, identified by ID rather than by name.
	Entry struct {
		ID    uint64
		Name  string
		Link  string
		State State
	}
	Event struct {
		Type  EventType
		Entry Entry
		Err   error
	}
	// List keeps a local list of guitars in sync with the server, rendering creates
	// optimistically and rolling them back on failure.
	List struct {
		l           *zap.Logger
		backend     Backend
		mu          sync.Mutex
		nextID      uint64
		entries     []*Entry
		subscribers map[uint64]func(Event)
		nextSubID   uint64
	}
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewList(l *zap.Logger, backend Backend) *List {
	return &List{
		l:           l.Named("list"),
		backend:     backend,
		subscribers: map[uint64]func(Event){},
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Subscribe registers fn for all future events and returns a function removing it again.
// Events are delivered synchronously in the order they happen.
func (l *List) Subscribe(fn func(Event)) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSubID++
	id := l.nextSubID
	l.subscribers[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

// Entries returns a snapshot of the rendered entries in display order.
func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		entries[i] = *e
	}
	return entries
}

// Load fetches the collection and appends every item in server order.
func (l *List) Load(ctx context.Context) error {
	items, err := l.backend.List(ctx)
	if err != nil {
		l.l.Warn("failed to load guitars", zap.Error(err))
		l.emit(Event{Type: EventFailed, Err: err})
		return err
	}
	for _, item := range items {
		l.emit(Event{Type: EventAdded, Entry: l.add(item.Name, item.Link, StateConfirmed)})
	}
	return nil
}

// Create renders a pending entry, then confirms it with the server's address or removes it
// again when the server rejects it.
func (l *List) Create(ctx context.Context, name string) (Entry, error) {
	pending := l.add(name, "", StatePending)
	l.emit(Event{Type: EventAdded, Entry: pending})

	item, err := l.backend.Create(ctx, name)
	if err != nil {
		l.l.Warn("failed to create guitar", zap.String("name", name), zap.Error(err))
		entry, _ := l.remove(pending.ID)
		entry.State = StateRolledBack
		l.emit(Event{Type: EventRemoved, Entry: entry})
		l.emit(Event{Type: EventFailed, Entry: entry, Err: err})
		return entry, err
	}

	entry, ok := l.update(pending.ID, func(e *Entry) {
		e.Name = item.Name
		e.Link = item.Link
		e.State = StateConfirmed
	})
	if !ok {
		return entry, errors.Wrapf(ErrUnknownEntry, "entry %d vanished while pending", pending.ID)
	}
	l.emit(Event{Type: EventConfirmed, Entry: entry})
	return entry, nil
}

// Delete removes the entry with the given id on the server and, on success, locally.
// A failed delete leaves the list unchanged.
func (l *List) Delete(ctx context.Context, id uint64) error {
	entry, ok := l.get(id)
	if !ok {
		return errors.Wrapf(ErrUnknownEntry, "entry %d", id)
	}
	if entry.State != StateConfirmed {
		return errors.Errorf("entry %d is %s", id, entry.State)
	}

	if err := l.backend.Delete(ctx, entry.Link); err != nil {
		l.l.Warn("failed to delete guitar", zap.String("link", entry.Link), zap.Error(err))
		l.emit(Event{Type: EventFailed, Entry: entry, Err: err})
		return err
	}

	if removed, ok := l.remove(id); ok {
		l.emit(Event{Type: EventRemoved, Entry: removed})
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (l *List) add(name, link string, state State) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	e := &Entry{ID: l.nextID, Name: name, Link: link, State: state}
	l.entries = append(l.entries, e)
	return *e
}

func (l *List) get(id uint64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return *l.entries[i], true
	}
	return Entry{}, false
}

func (l *List) update(id uint64, fn func(*Entry)) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		fn(l.entries[i])
		return *l.entries[i], true
	}
	return Entry{}, false
}

func (l *List) remove(id uint64) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return Entry{}, false
	}
	e := *l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	return e, true
}

// index must be called with mu held
func (l *List) index(id uint64) int {
	return slices.IndexFunc(l.entries, func(e *Entry) bool {
		return e.ID == id
	})
}

func (l *List) emit(event Event) {
	l.mu.Lock()
	ids := make([]uint64, 0, len(l.subscribers))
	for id := range l.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), len(ids))
	for i, id := range ids {
		fns[i] = l.subscribers[id]
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

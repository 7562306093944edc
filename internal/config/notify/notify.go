// Package notify provides change notification for keybinding sources.
//
// Sources (the default rule registry, the override file) publish a Change
// whenever their rule list changes. Consumers such as the dispatcher
// subscribe and drop any state derived from the old rules.
package notify

import (
	"sort"
	"sync"
)

// Well-known sources.
const (
	SourceDefaults  = "keybindings.defaults"
	SourceOverrides = "keybindings.overrides"
)

// ChangeType represents the type of change.
type ChangeType int

const (
	// ChangeAppend indicates rules were added to an append-only source.
	ChangeAppend ChangeType = iota

	// ChangeReload indicates the source's whole rule list was replaced.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeAppend:
		return "append"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one change to a source.
type Change struct {
	// Source identifies the source that changed.
	Source string

	// Type is the type of change.
	Type ChangeType

	// Count is the number of rules involved, if known.
	Count int
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type registration struct {
	source   string // empty means all sources
	observer Observer
}

// Notifier delivers changes synchronously, in subscription order.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]registration
	nextID    uint64
	closed    bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		observers: make(map[uint64]registration),
	}
}

// Subscribe registers an observer for changes from every source.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeSource("", observer)
}

// SubscribeSource registers an observer for changes from one source.
func (n *Notifier) SubscribeSource(source string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = registration{source: source, observer: observer}

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to all matching observers. Observers run outside
// the notifier's lock and may subscribe or unsubscribe.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.observers))
	for id, reg := range n.observers {
		if reg.source == "" || reg.source == change.Source {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.observers[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifyAppend is a convenience method for append changes.
func (n *Notifier) NotifyAppend(source string, count int) {
	n.Notify(Change{Source: source, Type: ChangeAppend, Count: count})
}

// NotifyReload is a convenience method for reload changes.
func (n *Notifier) NotifyReload(source string, count int) {
	n.Notify(Change{Source: source, Type: ChangeReload, Count: count})
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]registration)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

package keymap

import (
	"sync"

	"github.com/dshills/keychord/internal/config/notify"
)

// OverrideSource holds the user's keybinding overrides.
//
// Bindings are decoded once when they are set, so malformed fields are
// reported once per load. Every successful Set or Load publishes a
// notify.ChangeReload on notify.SourceOverrides.
type OverrideSource struct {
	mu       sync.RWMutex
	path     string
	bindings []Binding
	entries  []Entry

	loader   *Loader
	notifier *notify.Notifier
	sink     DiagnosticSink
}

// NewOverrideSource creates an empty override source. Either argument may
// be nil.
func NewOverrideSource(notifier *notify.Notifier, sink DiagnosticSink) *OverrideSource {
	return &OverrideSource{
		loader:   NewLoader(sink),
		notifier: notifier,
		sink:     sink,
	}
}

// Set replaces the overrides with bindings.
func (s *OverrideSource) Set(bindings []Binding) {
	entries := DecodeAll(bindings, false, s.sink)
	kept := make([]Binding, len(bindings))
	copy(kept, bindings)

	s.mu.Lock()
	s.bindings = kept
	s.entries = entries
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyReload(notify.SourceOverrides, len(entries))
	}
}

// Load reads overrides from path. On error the previous overrides are kept.
func (s *OverrideSource) Load(path string) error {
	bindings, err := s.loader.LoadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	s.Set(bindings)
	return nil
}

// Reload reads the file last passed to Load. Without one it does nothing.
func (s *OverrideSource) Reload() error {
	path := s.Path()
	if path == "" {
		return nil
	}
	return s.Load(path)
}

// Path returns the file last loaded, or "".
func (s *OverrideSource) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Bindings returns a copy of the raw override records.
func (s *OverrideSource) Bindings() []Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Entries returns the decoded overrides in order.
func (s *OverrideSource) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

package keymap

import (
	"sort"
	"sync"

	"github.com/dshills/keychord/internal/config/notify"
)

// Priority is the ordering class of a default contribution.
type Priority int

const (
	// PriorityBuiltin orders rules shipped with the application first.
	PriorityBuiltin Priority = 0

	// PriorityExternal orders externally contributed rules after builtins.
	// Each contribution is offset by its contribution index.
	PriorityExternal Priority = 1000
)

// Contribution is a batch of default bindings registered together.
type Contribution struct {
	// Source names the contributor for diagnostics.
	Source   string
	Priority Priority
	Bindings []Binding
}

// Registry is an append-only store of default rules.
//
// Every registration publishes a notify.ChangeAppend on
// notify.SourceDefaults. A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	rules    []*Rule
	builtins int
	external int
	notifier *notify.Notifier
	sink     DiagnosticSink
}

// NewRegistry creates an empty registry. Either argument may be nil.
func NewRegistry(notifier *notify.Notifier, sink DiagnosticSink) *Registry {
	return &Registry{
		notifier: notifier,
		sink:     sink,
	}
}

// Register decodes and stores a contribution, returning the number of rules
// added. Removal directives are not allowed in defaults and are reported
// and dropped.
func (r *Registry) Register(c Contribution) int {
	r.mu.Lock()

	weight1 := int(c.Priority)
	if c.Priority >= PriorityExternal {
		weight1 += r.external
		r.external++
	}

	added := 0
	for i, b := range c.Bindings {
		e := Decode(b, true, r.sink)
		if e.Removal != nil {
			report(r.sink, DiagnosticMalformed, "%s: removal %q is not allowed in default keybindings", c.Source, b.Command)
			continue
		}

		weight2 := i
		if c.Priority < PriorityExternal {
			weight2 = r.builtins
			r.builtins++
		}
		e.Rule.Weight1 = weight1
		e.Rule.Weight2 = weight2
		r.rules = append(r.rules, e.Rule)
		added++
	}
	r.mu.Unlock()

	if added > 0 && r.notifier != nil {
		r.notifier.NotifyAppend(notify.SourceDefaults, added)
	}
	return added
}

// RegisterBuiltin registers bindings with PriorityBuiltin.
func (r *Registry) RegisterBuiltin(bindings ...Binding) int {
	return r.Register(Contribution{Source: "builtin", Priority: PriorityBuiltin, Bindings: bindings})
}

// Snapshot returns the registered rules ordered by (Weight1, Weight2).
// The rules are shared, the slice is not.
func (r *Registry) Snapshot() []*Rule {
	r.mu.RLock()
	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight1 != out[j].Weight1 {
			return out[i].Weight1 < out[j].Weight1
		}
		return out[i].Weight2 < out[j].Weight2
	})
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

package input

import (
	"sort"
	"sync"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
	"github.com/dshills/keychord/internal/logging"
)

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// Hook observes or intercepts dispatch.
type Hook interface {
	// PreDispatch is called before a press is resolved.
	// Return true to consume the press; the handler then reports it as
	// handled and leaves chord state alone.
	PreDispatch(code key.Code, ctx when.Context) bool

	// PostDispatch is called after a press is resolved.
	PostDispatch(result Result, handled bool)
}

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages dispatch hooks ordered by priority.
type HookManager struct {
	mu     sync.RWMutex
	hooks  []HookRegistration
	nextID HookID
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{}
}

// Register adds a hook. The name may be empty.
func (m *HookManager) Register(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hooks {
		if m.hooks[i].ID == id {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// UnregisterByName removes every hook registered under name.
func (m *HookManager) UnregisterByName(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	kept := m.hooks[:0]
	for _, reg := range m.hooks {
		if reg.Name == name {
			removed = true
			continue
		}
		kept = append(kept, reg)
	}
	m.hooks = kept
	return removed
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// snapshot copies hooks for iteration outside the lock.
func (m *HookManager) snapshot() []Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.hooks) == 0 {
		return nil
	}
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

func (m *HookManager) runPre(code key.Code, ctx when.Context) bool {
	for _, hook := range m.snapshot() {
		if hook.PreDispatch(code, ctx) {
			return true
		}
	}
	return false
}

func (m *HookManager) runPost(result Result, handled bool) {
	for _, hook := range m.snapshot() {
		hook.PostDispatch(result, handled)
	}
}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreFunc  func(code key.Code, ctx when.Context) bool
	PostFunc func(result Result, handled bool)
}

// PreDispatch calls PreFunc if set.
func (h FuncHook) PreDispatch(code key.Code, ctx when.Context) bool {
	if h.PreFunc != nil {
		return h.PreFunc(code, ctx)
	}
	return false
}

// PostDispatch calls PostFunc if set.
func (h FuncHook) PostDispatch(result Result, handled bool) {
	if h.PostFunc != nil {
		h.PostFunc(result, handled)
	}
}

// LoggingHook logs every resolved press at debug level.
type LoggingHook struct {
	Logger *logging.Logger
}

// PreDispatch never consumes.
func (h LoggingHook) PreDispatch(key.Code, when.Context) bool { return false }

// PostDispatch logs the result.
func (h LoggingHook) PostDispatch(result Result, handled bool) {
	if !h.Logger.Enabled(logging.LevelDebug) {
		return
	}
	h.Logger.WithField("handled", handled).Debug("%s", result)
}

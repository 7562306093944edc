package input

import (
	"sync"

	"github.com/dshills/keychord/internal/input/when"
)

// ContextKeys is the set of context values rule conditions are evaluated
// against. It is safe for concurrent use.
type ContextKeys struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContextKeys creates an empty context key set.
func NewContextKeys() *ContextKeys {
	return &ContextKeys{values: make(map[string]any)}
}

// Set stores value under name.
func (c *ContextKeys) Set(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
}

// Get returns the value stored under name.
func (c *ContextKeys) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Delete removes name.
func (c *ContextKeys) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
}

// Reset removes every key.
func (c *ContextKeys) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]any)
}

// Snapshot returns a copy of the current values.
func (c *ContextKeys) Snapshot() when.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(when.Context, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

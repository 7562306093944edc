package command

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/keychord/internal/logging"
)

// Handler performs one command.
type Handler interface {
	Execute(ctx context.Context, args any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args any) error

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, args any) error {
	return f(ctx, args)
}

// Executor runs a command by id and waits for it.
type Executor interface {
	Execute(ctx context.Context, id string, args any) error
}

// Registry maps command ids to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler for id.
func (r *Registry) Register(id string, h Handler) error {
	if id == "" {
		return ErrEmptyCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, id)
	}
	r.handlers[id] = h
	return nil
}

// RegisterFunc adds a function handler for id.
func (r *Registry) RegisterFunc(id string, fn func(ctx context.Context, args any) error) error {
	return r.Register(id, HandlerFunc(fn))
}

// Unregister removes the handler for id.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[id]; !ok {
		return false
	}
	delete(r.handlers, id)
	return true
}

// Has reports whether id has a handler.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Execute runs the handler for id.
func (r *Registry) Execute(ctx context.Context, id string, args any) error {
	r.mu.RLock()
	h, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return h.Execute(ctx, args)
}

// RegisterLogged registers a handler for each id that only logs the call.
// Ids that already have a handler are left alone.
func RegisterLogged(r *Registry, logger *logging.Logger, ids ...string) {
	if logger == nil {
		logger = logging.Null()
	}
	for _, id := range ids {
		if r.Has(id) {
			continue
		}
		_ = r.RegisterFunc(id, func(_ context.Context, args any) error {
			logger.WithField("command", id).Info("executed (args=%v)", args)
			return nil
		})
	}
}

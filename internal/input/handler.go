package input

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/keychord/internal/config/notify"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/when"
	"github.com/dshills/keychord/internal/logging"
)

// Runner starts a command without waiting for it to finish.
type Runner interface {
	Run(ctx context.Context, command string, args any)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, command string, args any)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, command string, args any) {
	f(ctx, command, args)
}

// Config configures a Handler.
type Config struct {
	// Defaults supplies default rules. Nil means none.
	Defaults *keymap.Registry

	// Overrides supplies user rules. Nil means none.
	Overrides *keymap.OverrideSource

	// Notifier publishes changes of Defaults and Overrides. When nil the
	// handler must be told about changes through Invalidate.
	Notifier *notify.Notifier

	// Runner starts invoked commands. Nil drops them.
	Runner Runner

	// Diagnostics receives shadowing warnings from index rebuilds.
	Diagnostics keymap.DiagnosticSink

	// Logger defaults to a null logger.
	Logger *logging.Logger

	// Metrics may be nil.
	Metrics *Metrics

	// BaseContext is passed to the Runner. Defaults to context.Background().
	BaseContext context.Context
}

// Handler resolves key presses against the current rules and tracks chord
// state between presses.
type Handler struct {
	mu       sync.Mutex
	resolver *keymap.Resolver
	pending  *key.Code

	config  Config
	logger  *logging.Logger
	keys    *ContextKeys
	hooks   *HookManager
	subs    []*notify.Subscription
	baseCtx context.Context
}

// NewHandler creates a handler and subscribes it to rule changes.
func NewHandler(config Config) *Handler {
	h := &Handler{
		config:  config,
		logger:  config.Logger,
		keys:    NewContextKeys(),
		hooks:   NewHookManager(),
		baseCtx: config.BaseContext,
	}
	if h.logger == nil {
		h.logger = logging.Null()
	}
	h.logger = h.logger.WithComponent("input")
	if h.baseCtx == nil {
		h.baseCtx = context.Background()
	}

	if n := config.Notifier; n != nil {
		onChange := func(c notify.Change) {
			h.logger.Debug("%s changed (%s), dropping resolver", c.Source, c.Type)
			h.Invalidate()
		}
		h.subs = append(h.subs,
			n.SubscribeSource(notify.SourceDefaults, onChange),
			n.SubscribeSource(notify.SourceOverrides, onChange),
		)
	}
	return h
}

// Close unsubscribes the handler from rule changes.
func (h *Handler) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Context returns the context keys used by DispatchEvent.
func (h *Handler) Context() *ContextKeys {
	return h.keys
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Invalidate drops the cached resolver. The next query rebuilds it.
func (h *Handler) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resolver = nil
}

// Resolver returns the current resolver, building it if needed.
func (h *Handler) Resolver() *keymap.Resolver {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ensureResolver()
}

// ensureResolver must be called with h.mu held.
func (h *Handler) ensureResolver() *keymap.Resolver {
	if h.resolver != nil {
		return h.resolver
	}

	start := time.Now()
	var defaults []*keymap.Rule
	if h.config.Defaults != nil {
		defaults = h.config.Defaults.Snapshot()
	}
	var overrides []keymap.Entry
	if h.config.Overrides != nil {
		overrides = h.config.Overrides.Entries()
	}

	rules := keymap.Combine(defaults, overrides)
	h.resolver = keymap.NewResolver(rules, keymap.WithDiagnostics(h.config.Diagnostics))

	elapsed := time.Since(start)
	h.config.Metrics.observeRebuild(elapsed, len(rules))
	h.logger.WithFields(map[string]any{
		"defaults":  len(defaults),
		"overrides": len(overrides),
		"rules":     len(rules),
	}).Debug("resolver rebuilt in %s", elapsed)
	return h.resolver
}

// Resolve resolves code against the current chord state without changing
// it.
func (h *Handler) Resolve(ctx when.Context, code key.Code) Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolve(ctx, code)
}

// resolve must be called with h.mu held.
func (h *Handler) resolve(ctx when.Context, code key.Code) Result {
	res := Result{Outcome: NoMatch, Code: code}
	if code.IsModifierOnly() {
		return res
	}

	r := h.ensureResolver()
	var rule *keymap.Rule
	if h.pending != nil {
		rule = r.MatchChord(ctx, *h.pending, code)
	} else {
		rule = r.Match(ctx, code)
	}
	if rule == nil {
		return res
	}

	res.Rule = rule
	if h.pending == nil && rule.IsChord() {
		res.Outcome = AwaitChord
		return res
	}

	res.Outcome = Invoke
	res.Command = rule.Command
	res.Args = rule.Args
	res.Bubble = rule.Bubble
	return res
}

// Dispatch resolves code, updates chord state and starts the matched
// command. It reports whether the caller should suppress its own handling
// of the key.
func (h *Handler) Dispatch(ctx when.Context, code key.Code) bool {
	if code.IsModifierOnly() {
		res := Result{Outcome: NoMatch, Code: code}
		h.config.Metrics.observeDispatch(res.Outcome, false)
		h.hooks.runPost(res, false)
		return false
	}

	if h.hooks.runPre(code, ctx) {
		return true
	}

	h.mu.Lock()
	res := h.resolve(ctx, code)
	hadPending := h.pending != nil

	var handled bool
	switch res.Outcome {
	case AwaitChord:
		c := code
		h.pending = &c
		handled = true
	case Invoke:
		h.pending = nil
		handled = !res.Bubble
	default:
		h.pending = nil
		handled = hadPending
	}
	h.mu.Unlock()

	if res.Outcome == Invoke && res.Command != "" && h.config.Runner != nil {
		h.config.Runner.Run(h.baseCtx, res.Command, res.Args)
	}

	h.config.Metrics.observeDispatch(res.Outcome, handled)
	h.hooks.runPost(res, handled)
	return handled
}

// DispatchEvent dispatches ev against the handler's context keys.
func (h *Handler) DispatchEvent(ev key.Event) bool {
	return h.Dispatch(h.keys.Snapshot(), ev.Code())
}

// PendingChord returns the first press of a chord in progress.
func (h *Handler) PendingChord() (key.Code, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return 0, false
	}
	return *h.pending, true
}

// Reset abandons any chord in progress.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = nil
}

// LookupKeybindings returns the keybindings bound to command, most recent
// first.
func (h *Handler) LookupKeybindings(command string) []key.Keybinding {
	return h.Resolver().LookupKeybindings(command)
}

// LookupPrimaryKeybinding returns the preferred keybinding for command, or
// nil.
func (h *Handler) LookupPrimaryKeybinding(command string) *key.Keybinding {
	return h.Resolver().LookupPrimaryKeybinding(command)
}

// DefaultBoundCommands returns commands with at least one default rule.
func (h *Handler) DefaultBoundCommands() map[string]struct{} {
	return h.Resolver().DefaultBoundCommands()
}

// Package input dispatches key presses to commands.
//
// A Handler owns the chord state machine and a cached keymap.Resolver. The
// resolver is built from the default rule registry and the override source
// on first use and dropped whenever either one publishes a change, so
// configuration reloads never patch a live index.
//
// # Dispatch
//
// Each key press produces one of three results:
//
//   - NoMatch: no enabled rule is bound to the press
//   - AwaitChord: the press starts a chord; the next press completes it
//   - Invoke: a command is started through the Runner
//
// Dispatch reports whether the caller should suppress its own handling of
// the key. Invoked rules suppress unless they bubble, and a chord that was
// started but not completed suppresses the second press too.
//
// Modifier-only presses (a bare Ctrl or Shift) are ignored entirely.
//
// # Usage
//
//	n := notify.New()
//	defaults := keymap.NewRegistry(n, sink)
//	keymap.RegisterDefaults(defaults)
//	overrides := keymap.NewOverrideSource(n, sink)
//
//	h := input.NewHandler(input.Config{
//	    Defaults:  defaults,
//	    Overrides: overrides,
//	    Notifier:  n,
//	    Runner:    runner,
//	})
//	defer h.Close()
//
//	h.Context().Set("editorFocus", true)
//	handled := h.DispatchEvent(ev)
package input

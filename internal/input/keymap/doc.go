// Package keymap turns keybinding configuration into a resolver index.
//
// The pipeline is:
//
//	Registry (defaults) ─┐
//	                     ├─ Combine ─> []*Rule ─> NewResolver ─> *Resolver
//	OverrideSource ──────┘
//
// # Rules and entries
//
// Configuration is authored as Binding records:
//
//	{ "key": "ctrl+k ctrl+c", "command": "editor.addLineComment", "when": "editorFocus" }
//
// Decode turns a Binding into an Entry, which holds either a Rule or a
// RemovalDirective. Command ids carry two markers that are resolved here
// and never looked at again:
//
//	"-editor.save"  removes matching default rules instead of adding one
//	"^editor.copy"  dispatches editor.copy and lets the key event bubble
//
// A malformed key or when string does not reject the record: the field is
// dropped and a Diagnostic is reported. A rule without a keybinding is kept
// but never indexed.
//
// # Precedence
//
// Precedence is positional. Combine appends overrides after the remaining
// defaults, and the resolver prefers the most recently inserted candidate
// whose condition holds. Weights only order default contributions and the
// canonical listing.
//
// # Shadowing
//
// When a later rule for the same key press has a condition that contains
// every clause of an earlier rule's condition, and the commands differ, the
// earlier rule is shadowed: it disappears from command lookups and is
// skipped by dispatch, but it stays in the key-press bucket where
// Candidates can still show it.
package keymap

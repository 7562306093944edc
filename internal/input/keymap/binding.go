package keymap

import (
	"strings"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// Command id markers recognized by Decode.
const (
	// RemovalMarker prefixes a command id to turn the record into a
	// removal directive.
	RemovalMarker = "-"

	// BubbleMarker prefixes a command id to let the key event bubble after
	// the command is dispatched.
	BubbleMarker = "^"
)

// Binding is a keybinding record as authored in configuration.
type Binding struct {
	Key     string `json:"key" toml:"key" yaml:"key"`
	Command string `json:"command" toml:"command" yaml:"command"`
	When    string `json:"when,omitempty" toml:"when,omitempty" yaml:"when,omitempty"`
	Args    any    `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
}

// Rule binds a keybinding and condition to a command.
// Rules are immutable once built.
type Rule struct {
	// Keybinding is nil for an inert rule that is never indexed.
	Keybinding *key.Keybinding

	// Command is the command id without markers. Empty disables the key.
	Command string

	// Args is passed to the command executor unchanged.
	Args any

	// When is nil for "always", otherwise normalized.
	When when.Condition

	// Bubble lets the key event continue after dispatch.
	Bubble bool

	// IsDefault marks builtin or contributed rules, as opposed to overrides.
	IsDefault bool

	// Weight1 and Weight2 order default contributions. They never affect
	// dispatch.
	Weight1 int
	Weight2 int
}

// NewRule creates an override rule. A command prefixed with BubbleMarker
// sets Bubble. The condition is normalized.
func NewRule(kb key.Keybinding, command string, cond when.Condition) *Rule {
	command, bubble := stripBubble(command)
	return &Rule{
		Keybinding: &kb,
		Command:    command,
		When:       normalize(cond),
		Bubble:     bubble,
	}
}

// IsChord reports whether the rule is bound to a two-press keybinding.
func (r *Rule) IsChord() bool {
	return r.Keybinding != nil && r.Keybinding.IsChord()
}

// RawCommand returns the command id with the bubble marker re-applied.
func (r *Rule) RawCommand() string {
	if r.Bubble {
		return BubbleMarker + r.Command
	}
	return r.Command
}

// WhenText returns the serialized condition, or "" when absent.
func (r *Rule) WhenText() string {
	if r.When == nil {
		return ""
	}
	return r.When.Serialize()
}

// String returns a short description for logs.
func (r *Rule) String() string {
	var sb strings.Builder
	if r.Keybinding != nil {
		sb.WriteString(r.Keybinding.String())
	} else {
		sb.WriteString("<none>")
	}
	sb.WriteString(" -> ")
	sb.WriteString(r.RawCommand())
	if w := r.WhenText(); w != "" {
		sb.WriteString(" when ")
		sb.WriteString(w)
	}
	return sb.String()
}

// RemovalDirective deletes matching default rules during Combine.
type RemovalDirective struct {
	// Command is the target command id.
	Command string

	// Keybinding restricts removal to one keybinding. Nil matches any.
	Keybinding *key.Keybinding

	// When restricts removal to a structurally equal condition. Nil matches any.
	When when.Condition
}

// Matches reports whether d removes r.
func (d *RemovalDirective) Matches(r *Rule) bool {
	if r.Command != d.Command {
		return false
	}
	if d.Keybinding != nil {
		if r.Keybinding == nil || !r.Keybinding.Equals(*d.Keybinding) {
			return false
		}
	}
	if d.When != nil {
		if r.When == nil || !d.When.Equals(r.When) {
			return false
		}
	}
	return true
}

// Entry is a decoded override record. Exactly one field is set.
type Entry struct {
	Rule    *Rule
	Removal *RemovalDirective
}

// RuleEntry wraps a rule as an Entry.
func RuleEntry(r *Rule) Entry { return Entry{Rule: r} }

// RemovalEntry wraps a removal directive as an Entry.
func RemovalEntry(d *RemovalDirective) Entry { return Entry{Removal: d} }

// IsRemoval reports whether the entry is a removal directive.
func (e Entry) IsRemoval() bool { return e.Removal != nil }

// Decode converts a raw binding into an Entry.
//
// A key or when string that does not parse is reported to sink as
// DiagnosticMalformed and treated as absent. For a rule an absent key makes
// the rule inert; for a removal directive it matches any keybinding.
func Decode(b Binding, isDefault bool, sink DiagnosticSink) Entry {
	command := strings.TrimSpace(b.Command)

	cond, err := when.Deserialize(b.When)
	if err != nil {
		report(sink, DiagnosticMalformed, "ignoring when clause of %q: %v", command, err)
		cond = nil
	}

	var kb *key.Keybinding
	if spec := strings.TrimSpace(b.Key); spec != "" {
		parsed, err := key.ParseKeybinding(spec)
		if err != nil {
			report(sink, DiagnosticMalformed, "ignoring key %q of %q: %v", b.Key, command, err)
		} else {
			kb = &parsed
		}
	}

	if strings.HasPrefix(command, RemovalMarker) {
		return RemovalEntry(&RemovalDirective{
			Command:    strings.TrimPrefix(command, RemovalMarker),
			Keybinding: kb,
			When:       cond,
		})
	}

	if kb == nil && strings.TrimSpace(b.Key) == "" {
		report(sink, DiagnosticMalformed, "keybinding for %q has no key", command)
	}

	command, bubble := stripBubble(command)
	return RuleEntry(&Rule{
		Keybinding: kb,
		Command:    command,
		Args:       b.Args,
		When:       cond,
		Bubble:     bubble,
		IsDefault:  isDefault,
	})
}

// DecodeAll decodes bindings in order.
func DecodeAll(bindings []Binding, isDefault bool, sink DiagnosticSink) []Entry {
	entries := make([]Entry, 0, len(bindings))
	for _, b := range bindings {
		entries = append(entries, Decode(b, isDefault, sink))
	}
	return entries
}

func stripBubble(command string) (string, bool) {
	if strings.HasPrefix(command, BubbleMarker) {
		return strings.TrimPrefix(command, BubbleMarker), true
	}
	return command, false
}

func normalize(cond when.Condition) when.Condition {
	if cond == nil {
		return nil
	}
	n := cond.Normalize()
	if n == when.True() {
		return nil
	}
	return n
}

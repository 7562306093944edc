package key

import "strings"

// Keybinding is one key press, or two presses forming a chord.
//
// The zero value is not a valid keybinding. Keybinding values are comparable
// with ==, which is the same as Equals.
type Keybinding struct {
	first  Code
	second Code
}

// NewKeybinding returns a single-press keybinding.
func NewKeybinding(c Code) Keybinding {
	return Keybinding{first: c}
}

// NewChord returns a two-press keybinding.
func NewChord(first, second Code) Keybinding {
	return Keybinding{first: first, second: second}
}

// First returns the first (or only) press.
func (kb Keybinding) First() Code {
	return kb.first
}

// Second returns the second press of a chord, or zero.
func (kb Keybinding) Second() Code {
	return kb.second
}

// IsChord returns true if the keybinding has two presses.
func (kb Keybinding) IsChord() bool {
	return !kb.second.IsZero()
}

// Len returns the number of presses (1 or 2; 0 for the zero value).
func (kb Keybinding) Len() int {
	switch {
	case kb.first.IsZero():
		return 0
	case kb.IsChord():
		return 2
	default:
		return 1
	}
}

// Codes returns the presses in order.
func (kb Keybinding) Codes() []Code {
	if kb.IsChord() {
		return []Code{kb.first, kb.second}
	}
	return []Code{kb.first}
}

// Equals returns true if both keybindings have the same presses.
func (kb Keybinding) Equals(other Keybinding) bool {
	return kb == other
}

// String returns the canonical descriptor, like "ctrl+k ctrl+c".
func (kb Keybinding) String() string {
	if !kb.IsChord() {
		return kb.first.String()
	}
	var sb strings.Builder
	sb.WriteString(kb.first.String())
	sb.WriteByte(' ')
	sb.WriteString(kb.second.String())
	return sb.String()
}

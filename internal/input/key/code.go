package key

import (
	"strings"
	"unicode"
)

// Code is the opaque form of one key press (base key plus modifiers).
//
// Codes are plain integers: they are hashable, totally ordered and cheap to
// compare, which is what the resolver index needs. Two events describing the
// same physical combination always produce the same Code.
type Code uint64

const (
	keyBitsOffset = 32
	modBitsOffset = 48
	runeMask      = 1<<32 - 1
	keyMask       = 1<<16 - 1
)

// NewCode builds a Code.
//
// Letters are case-folded and an upper-case letter implies Shift. For other
// printable characters Shift is dropped because it is already part of the
// character. A modifier key always carries its own modifier bit.
func NewCode(k Key, r rune, mods Modifier) Code {
	switch {
	case k == KeyRune:
		if r == 0 {
			k = KeyNone
			break
		}
		if unicode.IsUpper(r) {
			r = unicode.ToLower(r)
			mods = mods.With(ModShift)
		} else if r != ' ' && !unicode.IsLetter(r) && unicode.IsPrint(r) {
			mods = mods.Without(ModShift)
		}
	case k.IsModifierKey():
		r = 0
		mods = mods.With(k.modifier())
	default:
		r = 0
	}
	return Code(uint64(uint32(r)) | uint64(k)<<keyBitsOffset | uint64(mods)<<modBitsOffset)
}

// Key returns the base key.
func (c Code) Key() Key {
	return Key(uint64(c) >> keyBitsOffset & keyMask)
}

// Rune returns the (case-folded) character for rune keys.
func (c Code) Rune() rune {
	return rune(uint64(c) & runeMask)
}

// Modifiers returns the modifier set.
func (c Code) Modifiers() Modifier {
	return Modifier(uint64(c) >> modBitsOffset)
}

// IsModifierOnly returns true when the code has no base key, that is a
// Shift, Ctrl, Alt or Meta press on its own.
func (c Code) IsModifierOnly() bool {
	return c.Key().IsModifierKey()
}

// IsZero returns true for the zero code, which no real key press produces.
func (c Code) IsZero() bool {
	return c == 0
}

// Event returns an Event equivalent to the code, without a timestamp.
func (c Code) Event() Event {
	return Event{Key: c.Key(), Rune: c.Rune(), Modifiers: c.Modifiers()}
}

// runeNames are characters whose descriptor is a word.
var runeNames = map[rune]string{
	' ': "space",
	'+': "plus",
}

// String returns the canonical descriptor, like "ctrl+shift+p".
func (c Code) String() string {
	k := c.Key()
	mods := c.Modifiers()

	var name string
	switch {
	case k == KeyRune:
		if n, ok := runeNames[c.Rune()]; ok {
			name = n
		} else {
			name = string(c.Rune())
		}
	case k.IsModifierKey():
		mods = mods.Without(k.modifier())
		name = k.String()
	default:
		name = k.String()
	}

	if mods.IsEmpty() {
		return name
	}
	var sb strings.Builder
	sb.WriteString(mods.String())
	sb.WriteByte('+')
	sb.WriteString(name)
	return sb.String()
}

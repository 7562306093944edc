package key

import (
	"fmt"
	"strings"
)

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Other special keys
	KeyPause
	KeyPrintScreen
	KeyCapsLock

	// Modifier keys pressed on their own. An event carrying one of these
	// has no base key.
	KeyShift
	KeyCtrl
	KeyAlt
	KeyMeta

	// KeyRune is used for character keys (letters, numbers, punctuation).
	// The actual character is stored in Event.Rune.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:        "none",
	KeyEscape:      "escape",
	KeyEnter:       "enter",
	KeyTab:         "tab",
	KeyBackspace:   "backspace",
	KeyDelete:      "delete",
	KeyInsert:      "insert",
	KeyHome:        "home",
	KeyEnd:         "end",
	KeyPageUp:      "pageup",
	KeyPageDown:    "pagedown",
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	KeyF1:          "f1",
	KeyF2:          "f2",
	KeyF3:          "f3",
	KeyF4:          "f4",
	KeyF5:          "f5",
	KeyF6:          "f6",
	KeyF7:          "f7",
	KeyF8:          "f8",
	KeyF9:          "f9",
	KeyF10:         "f10",
	KeyF11:         "f11",
	KeyF12:         "f12",
	KeyPause:       "pause",
	KeyPrintScreen: "printscreen",
	KeyCapsLock:    "capslock",
	KeyShift:       "shift",
	KeyCtrl:        "ctrl",
	KeyAlt:         "alt",
	KeyMeta:        "meta",
	KeyRune:        "rune",
}

// String returns the canonical lowercase name for the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsModifierKey returns true if the key is a modifier pressed on its own.
func (k Key) IsModifierKey() bool {
	return k >= KeyShift && k <= KeyMeta
}

// modifier returns the Modifier a modifier key implies.
func (k Key) modifier() Modifier {
	switch k {
	case KeyShift:
		return ModShift
	case KeyCtrl:
		return ModCtrl
	case KeyAlt:
		return ModAlt
	case KeyMeta:
		return ModMeta
	default:
		return ModNone
	}
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"escape":      KeyEscape,
	"esc":         KeyEscape,
	"enter":       KeyEnter,
	"return":      KeyEnter,
	"cr":          KeyEnter,
	"tab":         KeyTab,
	"backspace":   KeyBackspace,
	"bs":          KeyBackspace,
	"delete":      KeyDelete,
	"del":         KeyDelete,
	"insert":      KeyInsert,
	"ins":         KeyInsert,
	"home":        KeyHome,
	"end":         KeyEnd,
	"pageup":      KeyPageUp,
	"pgup":        KeyPageUp,
	"pagedown":    KeyPageDown,
	"pgdn":        KeyPageDown,
	"up":          KeyUp,
	"down":        KeyDown,
	"left":        KeyLeft,
	"right":       KeyRight,
	"f1":          KeyF1,
	"f2":          KeyF2,
	"f3":          KeyF3,
	"f4":          KeyF4,
	"f5":          KeyF5,
	"f6":          KeyF6,
	"f7":          KeyF7,
	"f8":          KeyF8,
	"f9":          KeyF9,
	"f10":         KeyF10,
	"f11":         KeyF11,
	"f12":         KeyF12,
	"pause":       KeyPause,
	"printscreen": KeyPrintScreen,
	"capslock":    KeyCapsLock,
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized. Modifier names are not
// keys here; use ModifierFromName.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}

package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec      = errors.New("empty key specification")
	ErrInvalidSpec    = errors.New("invalid key specification")
	ErrTooManyPresses = errors.New("keybinding has more than two presses")
)

// Parse parses a single key descriptor into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "enter", "escape", "tab", "backspace", "space"
//   - Modifier keys on their own: "shift", "ctrl"
//   - With modifiers: "ctrl+s", "alt+f4", "ctrl+shift+p", "ctrl++"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if spec != "+" && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseSingle(spec)
}

// ParseCode parses a single key descriptor into a Code.
func ParseCode(spec string) (Code, error) {
	ev, err := Parse(spec)
	if err != nil {
		return 0, err
	}
	return ev.Code(), nil
}

// ParseKeybinding parses a keybinding descriptor: one press, or two presses
// separated by whitespace.
func ParseKeybinding(descriptor string) (Keybinding, error) {
	parts := strings.Fields(descriptor)
	switch len(parts) {
	case 0:
		return Keybinding{}, ErrEmptySpec
	case 1, 2:
	default:
		return Keybinding{}, fmt.Errorf("%w: %q", ErrTooManyPresses, descriptor)
	}

	first, err := ParseCode(parts[0])
	if err != nil {
		return Keybinding{}, err
	}
	if len(parts) == 1 {
		return NewKeybinding(first), nil
	}
	second, err := ParseCode(parts[1])
	if err != nil {
		return Keybinding{}, err
	}
	return NewChord(first, second), nil
}

// MustParseKeybinding parses a descriptor and panics on error.
// Use only for known-valid descriptors in initialization code.
func MustParseKeybinding(descriptor string) Keybinding {
	kb, err := ParseKeybinding(descriptor)
	if err != nil {
		panic("invalid keybinding: " + descriptor + ": " + err.Error())
	}
	return kb
}

// parseVimStyle parses the inside of "<...>", like "C-s", "A-F4", "CR".
func parseVimStyle(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->" names the minus key
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods = mods.With(ModCtrl)
		case "a":
			mods = mods.With(ModAlt)
		case "s":
			mods = mods.With(ModShift)
		case "m", "d": // D is Vim's notation for Command/Meta
			mods = mods.With(ModMeta)
		case "":
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "ctrl+s" style notation.
func parseModifierStyle(spec string) (Event, error) {
	var keyPart string
	if strings.HasSuffix(spec, "++") {
		keyPart = "+"
		spec = strings.TrimSuffix(spec, "++")
	} else {
		i := strings.LastIndexByte(spec, '+')
		keyPart = spec[i+1:]
		spec = spec[:i]
	}

	var mods Modifier
	for _, p := range strings.Split(spec, "+") {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseSingle parses a single character or key name.
func parseSingle(spec string) (Event, error) {
	if ev, ok := parseNamed(spec, ModNone); ok {
		return ev, nil
	}

	runes := []rune(spec)
	if len(runes) == 1 {
		return NewRuneEvent(runes[0], ModNone), nil
	}

	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if ev, ok := parseNamed(keyPart, mods); ok {
		return ev, nil
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		// Key names are case-insensitive once a modifier is spelled out.
		return NewRuneEvent(unicode.ToLower(runes[0]), mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// parseNamed resolves key names, character aliases and modifier keys.
func parseNamed(name string, mods Modifier) (Event, bool) {
	if len([]rune(name)) == 1 {
		return Event{}, false
	}
	lower := strings.ToLower(name)

	switch lower {
	case "space":
		return NewRuneEvent(' ', mods), true
	case "plus":
		return NewRuneEvent('+', mods), true
	case "minus":
		return NewRuneEvent('-', mods), true
	case "lt":
		return NewRuneEvent('<', mods), true
	case "gt":
		return NewRuneEvent('>', mods), true
	case "bar":
		return NewRuneEvent('|', mods), true
	case "bslash":
		return NewRuneEvent('\\', mods), true
	}

	if k := KeyFromName(lower); k != KeyNone {
		return NewSpecialEvent(k, mods), true
	}
	if k := modifierKeyFor(lower); k != KeyNone {
		return NewSpecialEvent(k, mods), true
	}
	return Event{}, false
}

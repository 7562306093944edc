package key

import "testing"

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "none"},
		{KeyEscape, "escape"},
		{KeyEnter, "enter"},
		{KeyPageDown, "pagedown"},
		{KeyF12, "f12"},
		{KeyShift, "shift"},
		{KeyRune, "rune"},
		{Key(999), "key(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mods Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "ctrl"},
		{ModShift | ModCtrl, "ctrl+shift"},
		{ModMeta | ModAlt | ModShift | ModCtrl, "ctrl+shift+alt+meta"},
	}

	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.want {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mods, got, tt.want)
		}
	}
}

func TestNewCodeFoldsCase(t *testing.T) {
	upper := NewCode(KeyRune, 'A', ModNone)
	shifted := NewCode(KeyRune, 'a', ModShift)

	if upper != shifted {
		t.Errorf("'A' = %v, shift+a = %v, want equal", upper, shifted)
	}
	if upper.Rune() != 'a' {
		t.Errorf("Rune() = %q, want 'a'", upper.Rune())
	}
	if !upper.Modifiers().Has(ModShift) {
		t.Error("upper-case letter should imply Shift")
	}
}

func TestNewCodeDropsShiftForSymbols(t *testing.T) {
	if got, want := NewCode(KeyRune, '!', ModShift), NewCode(KeyRune, '!', ModNone); got != want {
		t.Errorf("shift+! = %v, want %v", got, want)
	}
	if NewCode(KeyRune, ' ', ModShift) == NewCode(KeyRune, ' ', ModNone) {
		t.Error("shift+space should differ from space")
	}
}

func TestCodeAccessors(t *testing.T) {
	c := NewCode(KeyF5, 'x', ModCtrl|ModAlt)

	if c.Key() != KeyF5 {
		t.Errorf("Key() = %v, want %v", c.Key(), KeyF5)
	}
	if c.Rune() != 0 {
		t.Errorf("Rune() = %q, want 0 for special keys", c.Rune())
	}
	if c.Modifiers() != ModCtrl|ModAlt {
		t.Errorf("Modifiers() = %v, want ctrl+alt", c.Modifiers())
	}
	if c.IsModifierOnly() {
		t.Error("F5 should not be modifier-only")
	}
	if got := c.Event().Code(); got != c {
		t.Errorf("Event().Code() = %v, want %v", got, c)
	}
}

func TestCodeModifierOnly(t *testing.T) {
	c := NewSpecialEvent(KeyCtrl, ModNone).Code()

	if !c.IsModifierOnly() {
		t.Error("bare ctrl should be modifier-only")
	}
	if !c.Modifiers().Has(ModCtrl) {
		t.Error("modifier key should carry its own modifier")
	}
	if got := c.String(); got != "ctrl" {
		t.Errorf("String() = %q, want %q", got, "ctrl")
	}
}

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{NewCode(KeyRune, 'p', ModCtrl|ModShift), "ctrl+shift+p"},
		{NewCode(KeyRune, ' ', ModNone), "space"},
		{NewCode(KeyRune, '+', ModCtrl), "ctrl+plus"},
		{NewCode(KeyEnter, 0, ModAlt), "alt+enter"},
		{NewCode(KeyShift, 0, ModCtrl), "ctrl+shift"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCodeOrdering(t *testing.T) {
	a := NewCode(KeyRune, 'a', ModNone)
	b := NewCode(KeyRune, 'b', ModNone)
	ctrlA := NewCode(KeyRune, 'a', ModCtrl)

	if !(a < b) {
		t.Error("codes should order by rune within the same key and modifiers")
	}
	if !(b < ctrlA) {
		t.Error("modifiers should be the most significant component")
	}
}

func TestEventEquals(t *testing.T) {
	e1 := NewRuneEvent('A', ModNone)
	e2 := NewRuneEvent('a', ModShift)

	if !e1.Equals(e2) {
		t.Error("events for the same physical key should be equal")
	}
	if e1.String() != "shift+a" {
		t.Errorf("String() = %q, want %q", e1.String(), "shift+a")
	}
}

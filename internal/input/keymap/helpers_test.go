package keymap

import (
	"testing"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// rule builds a rule from descriptor strings for tests.
func rule(t *testing.T, keys, command, cond string) *Rule {
	t.Helper()
	kb, err := key.ParseKeybinding(keys)
	if err != nil {
		t.Fatalf("ParseKeybinding(%q) error = %v", keys, err)
	}
	c, err := when.Deserialize(cond)
	if err != nil {
		t.Fatalf("Deserialize(%q) error = %v", cond, err)
	}
	return NewRule(kb, command, c)
}

func defaultRule(t *testing.T, keys, command, cond string) *Rule {
	t.Helper()
	r := rule(t, keys, command, cond)
	r.IsDefault = true
	return r
}

func code(t *testing.T, spec string) key.Code {
	t.Helper()
	c, err := key.ParseCode(spec)
	if err != nil {
		t.Fatalf("ParseCode(%q) error = %v", spec, err)
	}
	return c
}

func commands(rules []*Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Command
	}
	return out
}

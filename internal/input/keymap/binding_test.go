package keymap

import (
	"testing"
)

func TestDecodeRule(t *testing.T) {
	var diags DiagnosticList
	e := Decode(Binding{Key: "ctrl+s", Command: "file.save", When: "editorFocus && !readonly"}, true, &diags)

	if e.IsRemoval() {
		t.Fatal("Decode() returned a removal directive")
	}
	r := e.Rule
	if r.Command != "file.save" {
		t.Errorf("Command = %q, want %q", r.Command, "file.save")
	}
	if r.Keybinding == nil || r.Keybinding.String() != "ctrl+s" {
		t.Errorf("Keybinding = %v, want ctrl+s", r.Keybinding)
	}
	if got := r.WhenText(); got != "!readonly && editorFocus" {
		t.Errorf("WhenText() = %q, want %q", got, "!readonly && editorFocus")
	}
	if !r.IsDefault {
		t.Error("IsDefault = false, want true")
	}
	if r.Bubble {
		t.Error("Bubble = true, want false")
	}
	if n := len(diags.Items()); n != 0 {
		t.Errorf("diagnostics = %d, want 0", n)
	}
}

func TestDecodeBubble(t *testing.T) {
	e := Decode(Binding{Key: "ctrl+s", Command: "^save"}, false, nil)
	if e.Rule == nil {
		t.Fatal("Decode() returned no rule")
	}
	if e.Rule.Command != "save" {
		t.Errorf("Command = %q, want %q", e.Rule.Command, "save")
	}
	if !e.Rule.Bubble {
		t.Error("Bubble = false, want true")
	}
	if got := e.Rule.RawCommand(); got != "^save" {
		t.Errorf("RawCommand() = %q, want %q", got, "^save")
	}
}

func TestDecodeRemoval(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		hasKey  bool
		hasWhen bool
	}{
		{"command only", Binding{Command: "-file.save"}, false, false},
		{"with key", Binding{Key: "ctrl+s", Command: "-file.save"}, true, false},
		{"with when", Binding{Command: "-file.save", When: "editorFocus"}, false, true},
		{"invalid key matches any", Binding{Key: "ctrl+nope", Command: "-file.save"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Decode(tt.binding, false, nil)
			if !e.IsRemoval() {
				t.Fatal("IsRemoval() = false, want true")
			}
			if e.Rule != nil {
				t.Error("Rule set on a removal entry")
			}
			d := e.Removal
			if d.Command != "file.save" {
				t.Errorf("Command = %q, want %q", d.Command, "file.save")
			}
			if (d.Keybinding != nil) != tt.hasKey {
				t.Errorf("Keybinding = %v, want present=%v", d.Keybinding, tt.hasKey)
			}
			if (d.When != nil) != tt.hasWhen {
				t.Errorf("When = %v, want present=%v", d.When, tt.hasWhen)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name      string
		binding   Binding
		wantKey   bool
		wantWhen  bool
		wantDiags int
	}{
		{"bad key", Binding{Key: "ctrl+", Command: "a"}, false, false, 1},
		{"too many presses", Binding{Key: "a b c", Command: "a"}, false, false, 1},
		{"missing key", Binding{Command: "a"}, false, false, 1},
		{"bad when", Binding{Key: "a", Command: "a", When: "x == "}, true, false, 1},
		{"bad both", Binding{Key: "nope+a", Command: "a", When: "&&"}, false, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags DiagnosticList
			e := Decode(tt.binding, false, &diags)
			if e.Rule == nil {
				t.Fatal("malformed record should still decode to a rule")
			}
			if (e.Rule.Keybinding != nil) != tt.wantKey {
				t.Errorf("Keybinding = %v, want present=%v", e.Rule.Keybinding, tt.wantKey)
			}
			if (e.Rule.When != nil) != tt.wantWhen {
				t.Errorf("When = %v, want present=%v", e.Rule.When, tt.wantWhen)
			}
			if got := diags.Count(DiagnosticMalformed); got != tt.wantDiags {
				t.Errorf("malformed diagnostics = %d, want %d: %v", got, tt.wantDiags, diags.Items())
			}
		})
	}
}

func TestRemovalDirectiveMatches(t *testing.T) {
	save := defaultRule(t, "ctrl+s", "file.save", "editorFocus")

	tests := []struct {
		name string
		d    *RemovalDirective
		want bool
	}{
		{"command", &RemovalDirective{Command: "file.save"}, true},
		{"other command", &RemovalDirective{Command: "file.open"}, false},
		{"same key", &RemovalDirective{Command: "file.save", Keybinding: rule(t, "ctrl+s", "x", "").Keybinding}, true},
		{"other key", &RemovalDirective{Command: "file.save", Keybinding: rule(t, "ctrl+w", "x", "").Keybinding}, false},
		{"same when", &RemovalDirective{Command: "file.save", When: rule(t, "a", "x", "editorFocus").When}, true},
		{"other when", &RemovalDirective{Command: "file.save", When: rule(t, "a", "x", "textFocus").When}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Matches(save); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	r := rule(t, "ctrl+k ctrl+c", "^edit.comment", "editorFocus")
	want := "ctrl+k ctrl+c -> ^edit.comment when editorFocus"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

package keymap

import (
	"testing"

	"github.com/dshills/keychord/internal/config/notify"
)

func TestOverrideSourceSet(t *testing.T) {
	n := notify.New()
	var changes []notify.Change
	n.SubscribeSource(notify.SourceOverrides, func(c notify.Change) {
		changes = append(changes, c)
	})

	var diags DiagnosticList
	s := NewOverrideSource(n, &diags)
	s.Set([]Binding{
		{Key: "ctrl+s", Command: "custom.save"},
		{Key: "ctrl+w", Command: "-workbench.closeEditor"},
		{Key: "bogus+key", Command: "broken"},
	})

	entries := s.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	if !entries[1].IsRemoval() {
		t.Error("entry 1 should be a removal directive")
	}
	if entries[2].Rule == nil || entries[2].Rule.Keybinding != nil {
		t.Errorf("entry 2 = %+v, want an inert rule", entries[2])
	}
	if got := diags.Count(DiagnosticMalformed); got != 1 {
		t.Errorf("malformed diagnostics = %d, want 1", got)
	}

	if len(changes) != 1 || changes[0].Type != notify.ChangeReload {
		t.Errorf("changes = %+v, want one reload", changes)
	}
	if got := len(s.Bindings()); got != 3 {
		t.Errorf("Bindings() len = %d, want 3", got)
	}
}

func TestOverrideSourceLoad(t *testing.T) {
	s := NewOverrideSource(nil, nil)
	if err := s.Reload(); err != nil {
		t.Errorf("Reload() without a path error = %v", err)
	}

	path := writeFile(t, "keys.json", `[{ "key": "ctrl+s", "command": "custom.save" }]`)
	if err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
	if n := len(s.Entries()); n != 1 {
		t.Fatalf("Entries() len = %d, want 1", n)
	}

	broken := writeFile(t, "broken.json", `[{`)
	if err := s.Load(broken); err == nil {
		t.Fatal("Load(broken) error = nil")
	}
	if n := len(s.Entries()); n != 1 {
		t.Errorf("Entries() after failed load len = %d, want previous 1", n)
	}
	if s.Path() != path {
		t.Errorf("Path() after failed load = %q, want %q", s.Path(), path)
	}
}

func TestOverridesEndToEnd(t *testing.T) {
	var diags DiagnosticList
	reg := NewRegistry(nil, &diags)
	reg.RegisterBuiltin(
		Binding{Key: "ctrl+s", Command: "file.save", When: "editorFocus"},
		Binding{Key: "ctrl+w", Command: "workbench.closeEditor"},
	)

	src := NewOverrideSource(nil, &diags)
	src.Set([]Binding{
		{Key: "ctrl+w", Command: "-workbench.closeEditor"},
		{Key: "ctrl+s", Command: "custom.save", When: "editorFocus"},
	})

	res := NewResolver(Combine(reg.Snapshot(), src.Entries()), WithDiagnostics(&diags))

	if got := res.Match(nil, code(t, "ctrl+w")); got != nil {
		t.Errorf("Match(ctrl+w) = %v, want nil after removal", got)
	}
	got := res.Match(map[string]any{"editorFocus": true}, code(t, "ctrl+s"))
	if got == nil || got.Command != "custom.save" {
		t.Errorf("Match(ctrl+s) = %v, want custom.save", got)
	}
	if n := diags.Count(DiagnosticShadowed); n != 1 {
		t.Errorf("shadow diagnostics = %d, want 1", n)
	}
}

package keymap

import (
	"reflect"
	"testing"

	"github.com/dshills/keychord/internal/config/notify"
)

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry(nil, nil)

	r.Register(Contribution{Source: "ext-a", Priority: PriorityExternal, Bindings: []Binding{
		{Key: "ctrl+1", Command: "a.one"},
		{Key: "ctrl+2", Command: "a.two"},
	}})
	r.RegisterBuiltin(Binding{Key: "ctrl+s", Command: "file.save"})
	r.Register(Contribution{Source: "ext-b", Priority: PriorityExternal, Bindings: []Binding{
		{Key: "ctrl+3", Command: "b.one"},
	}})
	r.RegisterBuiltin(Binding{Key: "ctrl+o", Command: "file.open"})

	got := commands(r.Snapshot())
	want := []string{"file.save", "file.open", "a.one", "a.two", "b.one"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}

	for _, rule := range r.Snapshot() {
		if !rule.IsDefault {
			t.Errorf("%s: IsDefault = false, want true", rule)
		}
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
}

func TestRegistryRejectsRemovals(t *testing.T) {
	var diags DiagnosticList
	r := NewRegistry(nil, &diags)

	n := r.RegisterBuiltin(
		Binding{Key: "ctrl+s", Command: "file.save"},
		Binding{Command: "-file.open"},
	)
	if n != 1 {
		t.Errorf("RegisterBuiltin() = %d, want 1", n)
	}
	if got := diags.Count(DiagnosticMalformed); got != 1 {
		t.Errorf("malformed diagnostics = %d, want 1", got)
	}
}

func TestRegistryNotifies(t *testing.T) {
	n := notify.New()
	var changes []notify.Change
	n.SubscribeSource(notify.SourceDefaults, func(c notify.Change) {
		changes = append(changes, c)
	})

	r := NewRegistry(n, nil)
	RegisterDefaults(r)
	r.RegisterBuiltin()

	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	if changes[0].Type != notify.ChangeAppend {
		t.Errorf("Type = %v, want %v", changes[0].Type, notify.ChangeAppend)
	}
	if changes[0].Count != len(DefaultBindings()) {
		t.Errorf("Count = %d, want %d", changes[0].Count, len(DefaultBindings()))
	}
}

func TestDefaultBindingsParse(t *testing.T) {
	var diags DiagnosticList
	r := NewRegistry(nil, &diags)
	RegisterDefaults(r)

	if items := diags.Items(); len(items) != 0 {
		t.Errorf("default bindings produced diagnostics: %v", items)
	}

	var bubble, chords int
	for _, rule := range r.Snapshot() {
		if rule.Bubble {
			bubble++
		}
		if rule.IsChord() {
			chords++
		}
	}
	if bubble == 0 {
		t.Error("default bindings contain no bubble rule")
	}
	if chords == 0 {
		t.Error("default bindings contain no chord")
	}
}

func TestKnownCommandsIncludesUnbound(t *testing.T) {
	r := NewRegistry(nil, nil)
	RegisterDefaults(r)
	res := NewResolver(r.Snapshot())

	unbound := res.UnboundCommands(KnownCommands())
	if len(unbound) == 0 {
		t.Fatal("UnboundCommands(KnownCommands()) is empty")
	}
	for _, c := range unbound {
		if _, ok := res.DefaultBoundCommands()[c]; ok {
			t.Errorf("%q reported unbound but has a default binding", c)
		}
	}
}

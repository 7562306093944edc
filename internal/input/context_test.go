package input

import "testing"

func TestContextKeys(t *testing.T) {
	c := NewContextKeys()
	c.Set("editorFocus", true)
	c.Set("resourceLangId", "go")

	snap := c.Snapshot()
	if snap["editorFocus"] != true || snap["resourceLangId"] != "go" {
		t.Errorf("Snapshot() = %v", snap)
	}

	snap["editorFocus"] = false
	if v, _ := c.Get("editorFocus"); v != true {
		t.Error("Snapshot() shares storage with ContextKeys")
	}

	c.Delete("resourceLangId")
	if _, ok := c.Get("resourceLangId"); ok {
		t.Error("Get() after Delete() found the key")
	}

	c.Reset()
	if n := len(c.Snapshot()); n != 0 {
		t.Errorf("Snapshot() after Reset() len = %d, want 0", n)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Outcome: NoMatch, Code: press(t, "a")}, "a: no match"},
		{Result{Outcome: AwaitChord, Code: press(t, "ctrl+k")}, "(ctrl+k) was pressed, waiting for second key of chord"},
		{Result{Outcome: Invoke, Code: press(t, "ctrl+s"), Command: "file.save"}, "ctrl+s -> file.save"},
		{Result{Outcome: Invoke, Code: press(t, "ctrl+c"), Command: "copy", Bubble: true}, "ctrl+c -> copy (bubble)"},
	}

	for _, tt := range tests {
		if got := tt.res.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

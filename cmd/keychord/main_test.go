package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with a config path that does not exist so
// the user's own configuration never leaks into a test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KEYCHORD_KEYBINDINGS", "")
	t.Setenv("KEYCHORD_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultsCommand(t *testing.T) {
	out, err := execute(t, "defaults")
	if err != nil {
		t.Fatalf("defaults error = %v", err)
	}
	if !strings.HasPrefix(out, "[\n") {
		t.Errorf("output should start with '[', got %q", out[:min(len(out), 20)])
	}
	want := `{ "key": "ctrl+s",                 "command": "file.save", "when": "editorFocus" }`
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q", want)
	}
	if !strings.Contains(out, "// Here are other available commands:") {
		t.Error("output missing unbound commands footer")
	}
	if !strings.Contains(out, "// - editor.foldAll") {
		t.Error("output missing editor.foldAll in unbound list")
	}
}

func TestDefaultsNoUnbound(t *testing.T) {
	out, err := execute(t, "defaults", "--no-unbound")
	if err != nil {
		t.Fatalf("defaults error = %v", err)
	}
	if !strings.HasSuffix(out, "]\n") {
		t.Errorf("output should end with ']', got %q", out[max(0, len(out)-20):])
	}
}

func TestDefaultsIgnoresRemovals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	content := "- key: ctrl+s\n  command: -file.save\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--keybindings", path, "defaults")
	if err != nil {
		t.Fatalf("defaults error = %v", err)
	}
	if !strings.Contains(out, `"command": "file.save"`) {
		t.Error("removed builtin missing from the defaults listing")
	}
	if strings.Contains(out, "// - file.save\n") {
		t.Error("removed builtin listed as unbound")
	}
}

func TestLookupCommand(t *testing.T) {
	out, err := execute(t, "lookup", "file.save", "editor.foldAll")
	if err != nil {
		t.Fatalf("lookup error = %v", err)
	}
	if !strings.Contains(out, "file.save: ctrl+s\n") {
		t.Errorf("output = %q, want file.save: ctrl+s", out)
	}
	if !strings.Contains(out, "editor.foldAll: not bound\n") {
		t.Errorf("output = %q, want editor.foldAll: not bound", out)
	}
}

func TestResolveChord(t *testing.T) {
	out, err := execute(t, "resolve", "ctrl+k", "s")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", lines)
	}
	if !strings.Contains(lines[0], "waiting for second key of chord") {
		t.Errorf("line 0 = %q, want chord prompt", lines[0])
	}
	if !strings.Contains(lines[1], "file.saveAll") {
		t.Errorf("line 1 = %q, want file.saveAll", lines[1])
	}
}

func TestResolveContext(t *testing.T) {
	out, err := execute(t, "resolve", "ctrl+s")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, "no match") {
		t.Errorf("without context output = %q, want no match", out)
	}

	out, err = execute(t, "resolve", "-c", "editorFocus", "ctrl+s")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, "file.save") {
		t.Errorf("with context output = %q, want file.save", out)
	}
}

func TestResolveOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	content := "- key: ctrl+s\n  command: workbench.toggleSidebar\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--keybindings", path, "resolve", "ctrl+s")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, "workbench.toggleSidebar") {
		t.Errorf("output = %q, want workbench.toggleSidebar", out)
	}
}

func TestResolveDisabledChordHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	content := "- key: ctrl+alt+j s\n  command: file.save\n  when: editorFocus\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--keybindings", path, "resolve", "ctrl+alt+j")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, "no match  (ctrl+alt+j starts chords, none apply in this context)") {
		t.Errorf("output = %q, want chord hint", out)
	}

	out, err = execute(t, "--keybindings", path, "-c", "editorFocus", "resolve", "ctrl+alt+j")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if strings.Contains(out, "starts chords") {
		t.Errorf("output = %q, want no hint when the chord applies", out)
	}
}

func TestResolveInvalidKey(t *testing.T) {
	if _, err := execute(t, "resolve", "ctrl+nope+x"); err == nil {
		t.Error("resolve with invalid key should fail")
	}
}

func TestParseContext(t *testing.T) {
	got, err := parseContext([]string{"editorFocus", "lang=go", "count=3", "readonly=false"})
	if err != nil {
		t.Fatalf("parseContext error = %v", err)
	}
	want := map[string]any{"editorFocus": true, "lang": "go", "count": 3.0, "readonly": false}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("context[%q] = %v, want %v", k, got[k], v)
		}
	}
	if _, err := parseContext([]string{"=x"}); err == nil {
		t.Error("parseContext(=x) should fail")
	}
}

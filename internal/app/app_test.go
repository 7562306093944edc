package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/config/watcher"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/when"
)

type calls struct {
	mu  sync.Mutex
	ids []string
}

func (c *calls) record(id string) func(context.Context, any) error {
	return func(context.Context, any) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.ids = append(c.ids, id)
		return nil
	}
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

func newApp(t *testing.T, cfg config.Config) *Application {
	t.Helper()
	app, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func mustCode(t *testing.T, spec string) key.Code {
	t.Helper()
	c, err := key.ParseCode(spec)
	if err != nil {
		t.Fatalf("ParseCode(%q) error = %v", spec, err)
	}
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewDefaults(t *testing.T) {
	app := newApp(t, config.Default())

	if app.Defaults().Len() != len(keymap.DefaultBindings()) {
		t.Errorf("Defaults().Len() = %d, want %d", app.Defaults().Len(), len(keymap.DefaultBindings()))
	}
	for _, id := range keymap.KnownCommands() {
		if !app.Commands().Has(id) {
			t.Errorf("command %q not registered", id)
		}
	}
	if kb := app.Handler().LookupPrimaryKeybinding("file.save"); kb == nil || kb.String() != "ctrl+s" {
		t.Errorf("LookupPrimaryKeybinding(file.save) = %v, want ctrl+s", kb)
	}
}

func TestDispatchRunsCommand(t *testing.T) {
	app := newApp(t, config.Default())

	var c calls
	app.Commands().Unregister("file.save")
	if err := app.Commands().RegisterFunc("file.save", c.record("file.save")); err != nil {
		t.Fatal(err)
	}

	ctx := when.Context{"editorFocus": true}
	if !app.Handler().Dispatch(ctx, mustCode(t, "ctrl+s")) {
		t.Fatal("Dispatch(ctrl+s) = false, want true")
	}
	app.Runner().Wait()

	if got := c.list(); len(got) != 1 || got[0] != "file.save" {
		t.Errorf("executed = %v, want [file.save]", got)
	}
}

func TestOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	writeFile(t, path, `[
		// remove the default save binding
		{ "key": "ctrl+s", "command": "-file.save" },
		{ "key": "ctrl+s", "command": "workbench.toggleSidebar" },
	]`)

	cfg := config.Default()
	cfg.Keybindings = path
	app := newApp(t, cfg)

	res := app.Handler().Resolve(when.Context{"editorFocus": true}, mustCode(t, "ctrl+s"))
	if res.Command != "workbench.toggleSidebar" {
		t.Errorf("Resolve(ctrl+s).Command = %q, want workbench.toggleSidebar", res.Command)
	}
	if kbs := app.Handler().LookupKeybindings("file.save"); len(kbs) != 0 {
		t.Errorf("LookupKeybindings(file.save) = %v, want none", kbs)
	}
}

func TestMissingOverrideFile(t *testing.T) {
	cfg := config.Default()
	cfg.Keybindings = filepath.Join(t.TempDir(), "absent.json")
	app := newApp(t, cfg)

	if n := len(app.Overrides().Entries()); n != 0 {
		t.Errorf("override entries = %d, want 0", n)
	}

	writeFile(t, cfg.Keybindings, `[{ "key": "f5", "command": "workbench.reloadWindow" }]`)
	if err := app.ReloadOverrides(); err != nil {
		t.Fatalf("ReloadOverrides() error = %v", err)
	}
	res := app.Handler().Resolve(nil, mustCode(t, "f5"))
	if res.Command != "workbench.reloadWindow" {
		t.Errorf("Resolve(f5).Command = %q, want workbench.reloadWindow", res.Command)
	}
}

func TestBrokenOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	writeFile(t, path, `{"not": "an array"}`)

	cfg := config.Default()
	cfg.Keybindings = path
	_, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true})

	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "keybindings" {
		t.Fatalf("New() error = %v, want InitError for keybindings", err)
	}
	if !errors.Is(err, keymap.ErrNotArray) {
		t.Errorf("New() error = %v, want ErrNotArray", err)
	}
}

func TestApplyFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	writeFile(t, path, `[{ "key": "f5", "command": "workbench.reloadWindow" }]`)

	cfg := config.Default()
	cfg.Keybindings = path
	app := newApp(t, cfg)

	writeFile(t, path, `[{ "key": "f6", "command": "workbench.reloadWindow" }]`)
	if err := app.applyFileChange(path, watcher.OpWrite); err != nil {
		t.Fatalf("applyFileChange(write) error = %v", err)
	}
	if kb := app.Handler().LookupPrimaryKeybinding("workbench.reloadWindow"); kb == nil || kb.String() != "f6" {
		t.Errorf("after write, primary = %v, want f6", kb)
	}

	if err := app.applyFileChange(path, watcher.OpRemove); err != nil {
		t.Fatalf("applyFileChange(remove) error = %v", err)
	}
	if kb := app.Handler().LookupPrimaryKeybinding("workbench.reloadWindow"); kb != nil {
		t.Errorf("after remove, primary = %v, want nil", kb)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	writeFile(t, path, `[]`)

	cfg := config.Default()
	cfg.Keybindings = path
	cfg.Debounce = "20ms"
	app, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	writeFile(t, path, `[{ "key": "f7", "command": "editor.foldAll" }]`)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if kb := app.Handler().LookupPrimaryKeybinding("editor.foldAll"); kb != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("override file change was not picked up")
}

func TestLuaCommand(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	cfg.Commands = []config.CommandConfig{{ID: "demo.hello", Script: `log("hello " .. args.name)`}}
	app, err := New(Options{Config: &cfg, LogOutput: &logs, NoWatch: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	app.Runner().Run(context.Background(), "demo.hello", map[string]any{"name": "lua"})
	app.Runner().Wait()

	if !bytes.Contains(logs.Bytes(), []byte("hello lua")) {
		t.Errorf("log output = %q, want it to contain %q", logs.String(), "hello lua")
	}
}

func TestLuaCommandCompileError(t *testing.T) {
	cfg := config.Default()
	cfg.Commands = []config.CommandConfig{{ID: "demo.bad", Script: "this is not lua"}}
	_, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true})

	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "command demo.bad" {
		t.Errorf("New() error = %v, want InitError for command demo.bad", err)
	}
}

func TestContextFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Context = map[string]any{"editorFocus": true}
	app := newApp(t, cfg)

	if v, ok := app.Handler().Context().Get("editorFocus"); !ok || v != true {
		t.Errorf("Context().Get(editorFocus) = %v, %v", v, ok)
	}
}

func TestDiagnosticsCollected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	writeFile(t, path, `[{ "key": "ctrl+nope+q", "command": "file.save" }]`)

	var extra keymap.DiagnosticList
	cfg := config.Default()
	cfg.Keybindings = path
	app, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true, Diagnostics: &extra})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if n := extra.Count(keymap.DiagnosticMalformed); n == 0 {
		t.Error("extra sink got no malformed diagnostics")
	}
	if len(app.Diagnostics()) != len(extra.Items()) {
		t.Errorf("Diagnostics() = %d items, extra sink = %d", len(app.Diagnostics()), len(extra.Items()))
	}
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := config.Default()
	app, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true, Registerer: reg})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	app.Handler().Dispatch(when.Context{"editorFocus": true}, mustCode(t, "ctrl+s"))
	app.Runner().Wait()

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"keychord_input_dispatches_total", "keychord_command_executions_total"} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	cfg := config.Default()
	app, err := New(Options{Config: &cfg, LogOutput: &bytes.Buffer{}, NoWatch: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

package keymap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Loader errors
var (
	ErrUnsupportedFormat = errors.New("unsupported keybinding file format")
	ErrNotArray          = errors.New("keybindings must be an array")
	ErrInvalidJSON       = errors.New("invalid JSON")
)

// LoadError reports a keybinding file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load keybindings %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads keybinding files.
//
// Supported formats, chosen by extension:
//
//	.json, .jsonc  array of {key, command, when, args} objects; comments allowed
//	.toml          [[keybinding]] tables
//	.yaml, .yml    list of mappings
type Loader struct {
	sink DiagnosticSink
}

// NewLoader creates a loader that reports dropped entries to sink.
func NewLoader(sink DiagnosticSink) *Loader {
	return &Loader{sink: sink}
}

// LoadFile reads path and returns its bindings.
func (l *Loader) LoadFile(path string) ([]Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var bindings []Binding
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		bindings, err = l.LoadJSON(data)
	case ".toml":
		bindings, err = l.LoadTOML(data)
	case ".yaml", ".yml":
		bindings, err = l.LoadYAML(data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return bindings, nil
}

// LoadJSON parses a JSON keybinding array.
//
// Entries are read one at a time: an entry that is not an object, or whose
// command is not a string, is reported and skipped. A key or when of the
// wrong type is treated as absent.
func (l *Loader) LoadJSON(data []byte) ([]Binding, error) {
	data = jsonc.ToJSON(data)
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, ErrNotArray
	}

	var bindings []Binding
	var n int64 = -1
	root.ForEach(func(_, entry gjson.Result) bool {
		n++
		if !entry.IsObject() {
			report(l.sink, DiagnosticMalformed, "keybinding %d: expected an object", n)
			return true
		}

		command := entry.Get("command")
		if command.Type != gjson.String {
			report(l.sink, DiagnosticMalformed, "keybinding %d: missing command", n)
			return true
		}

		b := Binding{
			Key:     stringField(l.sink, entry, "key", n),
			Command: command.String(),
			When:    stringField(l.sink, entry, "when", n),
		}
		if args := entry.Get("args"); args.Exists() {
			b.Args = args.Value()
		}
		bindings = append(bindings, b)
		return true
	})
	return bindings, nil
}

func stringField(sink DiagnosticSink, entry gjson.Result, name string, n int64) string {
	v := entry.Get(name)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.Type != gjson.String {
		report(sink, DiagnosticMalformed, "keybinding %d: %s must be a string", n, name)
		return ""
	}
	return v.String()
}

type tomlFile struct {
	Keybindings []Binding `toml:"keybinding"`
}

// LoadTOML parses [[keybinding]] tables.
func (l *Loader) LoadTOML(data []byte) ([]Binding, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return f.Keybindings, nil
}

// LoadYAML parses a YAML list of keybindings.
func (l *Loader) LoadYAML(data []byte) ([]Binding, error) {
	var bindings []Binding
	if err := yaml.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return bindings, nil
}

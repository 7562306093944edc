package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Config is the application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Keybindings is the override file. Relative paths are resolved
	// against the directory of the config file.
	Keybindings string `toml:"keybindings"`

	// Watch reloads the override file when it changes.
	Watch bool `toml:"watch"`

	// Debounce is a duration string such as "100ms".
	Debounce string `toml:"debounce"`

	// MetricsAddr serves Prometheus metrics when not empty.
	MetricsAddr string `toml:"metrics_addr"`

	// Context holds initial context keys for condition evaluation.
	Context map[string]any `toml:"context"`

	// Commands defines Lua-scripted commands.
	Commands []CommandConfig `toml:"commands"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// CommandConfig defines one scripted command.
type CommandConfig struct {
	ID     string `toml:"id"`
	Script string `toml:"script"`
	File   string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Watch:    true,
		Debounce: DefaultDebounce.String(),
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".keychord", "config.toml")
	}
	return filepath.Join(dir, "keychord", "config.toml")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, ErrFileNotFound) {
		cfg = Default()
		cfg.applyEnv(os.LookupEnv)
		return cfg, nil
	}
	return cfg, err
}

// LoadFile reads path over the defaults and applies environment overrides.
// A missing file returns ErrFileNotFound.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	cfg.Path = path
	cfg.applyEnv(os.LookupEnv)
	cfg.resolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides settings from KEYCHORD_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("KEYCHORD_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("KEYCHORD_KEYBINDINGS"); ok {
		c.Keybindings = v
	}
	if v, ok := lookup("KEYCHORD_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
}

func (c *Config) resolvePaths(dir string) {
	if c.Keybindings != "" && !filepath.IsAbs(c.Keybindings) {
		c.Keybindings = filepath.Join(dir, c.Keybindings)
	}
	for i := range c.Commands {
		if f := c.Commands[i].File; f != "" && !filepath.IsAbs(f) {
			c.Commands[i].File = filepath.Join(dir, f)
		}
	}
}

// Validate checks values that would fail later.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, c.LogLevel)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i, cmd := range c.Commands {
		if cmd.ID == "" {
			return fmt.Errorf("%w: commands[%d] has no id", ErrInvalidCommand, i)
		}
		if (cmd.Script == "") == (cmd.File == "") {
			return fmt.Errorf("%w: %s needs exactly one of script or file", ErrInvalidCommand, cmd.ID)
		}
		if seen[cmd.ID] {
			return fmt.Errorf("%w: %s defined twice", ErrInvalidCommand, cmd.ID)
		}
		seen[cmd.ID] = true
	}
	return nil
}

// DebounceDuration parses Debounce. Empty means DefaultDebounce.
func (c Config) DebounceDuration() (time.Duration, error) {
	if c.Debounce == "" {
		return DefaultDebounce, nil
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: debounce %q", ErrInvalidValue, c.Debounce)
	}
	return d, nil
}

// Source returns the Lua source of a command, reading File if set.
func (cc CommandConfig) Source() (string, error) {
	if cc.Script != "" {
		return cc.Script, nil
	}
	data, err := os.ReadFile(cc.File)
	if err != nil {
		return "", fmt.Errorf("command %s: %w", cc.ID, err)
	}
	return string(data), nil
}

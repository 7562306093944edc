// Package app wires the keychord components together and manages their
// lifecycle.
package app

import (
	"errors"
	"io"
	"io/fs"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/config/notify"
	"github.com/dshills/keychord/internal/config/watcher"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
)

// Application owns every long-lived component.
type Application struct {
	mu sync.Mutex

	cfg    config.Config
	logger *logging.Logger

	// Rule sources
	notifier  *notify.Notifier
	defaults  *keymap.Registry
	overrides *keymap.OverrideSource

	// Execution
	commands *command.Registry
	runner   *command.Runner
	scripts  []*command.LuaHandler

	handler     *input.Handler
	watcher     *watcher.Watcher
	diagnostics *keymap.DiagnosticList
	sink        keymap.DiagnosticSink

	closed bool
	opts   Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Ignored when Config is set.
	ConfigPath string

	// Config replaces loading from ConfigPath.
	Config *config.Config

	// LogOutput receives log lines. Defaults to stderr.
	LogOutput io.Writer

	// LogLevel overrides the configured level when not empty.
	LogLevel string

	// Registerer receives dispatch and execution metrics. Nil disables
	// metrics.
	Registerer prometheus.Registerer

	// Diagnostics receives every diagnostic in addition to the log.
	Diagnostics keymap.DiagnosticSink

	// NoWatch disables override file watching regardless of the config.
	NoWatch bool
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:        opts,
		diagnostics: &keymap.DiagnosticList{},
	}
	if err := app.bootstrap(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration and logging
	if err := app.initConfig(); err != nil {
		return err
	}

	// 2. Rule sources
	app.notifier = notify.New()
	app.defaults = keymap.NewRegistry(app.notifier, app.sink)
	n := keymap.RegisterDefaults(app.defaults)
	app.logger.Debug("registered %d default keybindings", n)

	app.overrides = keymap.NewOverrideSource(app.notifier, app.sink)
	if path := app.cfg.Keybindings; path != "" {
		if err := app.overrides.Load(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return &InitError{Component: "keybindings", Err: err}
			}
			app.logger.Info("override file %s does not exist yet", path)
		}
	}

	// 3. Commands
	if err := app.initCommands(); err != nil {
		return err
	}

	// 4. Dispatcher
	var inputMetrics *input.Metrics
	if app.opts.Registerer != nil {
		inputMetrics = input.NewMetrics(app.opts.Registerer)
	}
	app.handler = input.NewHandler(input.Config{
		Defaults:    app.defaults,
		Overrides:   app.overrides,
		Notifier:    app.notifier,
		Runner:      app.runner,
		Diagnostics: app.sink,
		Logger:      app.logger,
		Metrics:     inputMetrics,
	})
	app.handler.Hooks().Register(input.LoggingHook{Logger: app.logger.WithComponent("dispatch")}, "log", input.HookPriorityLow)
	for name, value := range app.cfg.Context {
		app.handler.Context().Set(name, value)
	}

	// 5. Watcher
	return app.initWatcher()
}

func (app *Application) initConfig() error {
	switch {
	case app.opts.Config != nil:
		app.cfg = *app.opts.Config
	case app.opts.ConfigPath != "":
		cfg, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.cfg = cfg
	default:
		app.cfg = config.Default()
	}

	level := app.cfg.LogLevel
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	app.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Output: app.opts.LogOutput,
		Prefix: "keychord",
	})

	sinks := diagnosticFanout{app.diagnostics, keymap.LogSink{Logger: app.logger.WithComponent("keymap")}}
	if app.opts.Diagnostics != nil {
		sinks = append(sinks, app.opts.Diagnostics)
	}
	app.sink = sinks
	return nil
}

func (app *Application) initCommands() error {
	app.commands = command.NewRegistry()

	for _, cc := range app.cfg.Commands {
		src, err := cc.Source()
		if err != nil {
			return &InitError{Component: "command " + cc.ID, Err: err}
		}
		h, err := command.NewLuaHandler(cc.ID, src, app.logger)
		if err != nil {
			return &InitError{Component: "command " + cc.ID, Err: err}
		}
		app.scripts = append(app.scripts, h)
		if err := app.commands.Register(cc.ID, h); err != nil {
			return &InitError{Component: "command " + cc.ID, Err: err}
		}
	}
	command.RegisterLogged(app.commands, app.logger, keymap.KnownCommands()...)

	opts := []command.RunnerOption{
		command.WithDiagnostics(app.sink),
		command.WithLogger(app.logger),
	}
	if app.opts.Registerer != nil {
		opts = append(opts, command.WithMetrics(command.NewMetrics(app.opts.Registerer)))
	}
	app.runner = command.NewRunner(app.commands, opts...)
	return nil
}

func (app *Application) initWatcher() error {
	path := app.cfg.Keybindings
	if path == "" || !app.cfg.Watch || app.opts.NoWatch {
		return nil
	}

	debounce, err := app.cfg.DebounceDuration()
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}

	log := app.logger.WithComponent("watcher")
	w, err := watcher.New(
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) {
			log.Warn("watch error: %v", err)
		}),
	)
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	app.watcher = w

	w.OnChange(func(ev watcher.Event) {
		log.Debug("%s: %s", ev.Path, ev.Op)
		if err := app.applyFileChange(path, ev.Op); err != nil {
			log.Warn("reloading %s: %v", path, err)
		}
	})
	if err := w.Watch(path); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	return nil
}

// applyFileChange updates the overrides after the file at path changed.
// A removed file clears the overrides.
func (app *Application) applyFileChange(path string, op watcher.Operation) error {
	switch op {
	case watcher.OpRemove, watcher.OpRename:
		app.logger.Info("override file %s removed, clearing overrides", path)
		app.overrides.Set(nil)
		return nil
	default:
		return app.overrides.Load(path)
	}
}

// ReloadOverrides re-reads the configured override file.
func (app *Application) ReloadOverrides() error {
	if app.overrides.Path() == "" && app.cfg.Keybindings != "" {
		return app.overrides.Load(app.cfg.Keybindings)
	}
	return app.overrides.Reload()
}

// Close stops the watcher, waits for running commands and releases
// scripted command states. It is safe to call more than once.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	return app.cleanup()
}

// cleanup releases whatever bootstrap managed to create.
func (app *Application) cleanup() error {
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	if app.handler != nil {
		app.handler.Close()
	}
	if app.runner != nil {
		app.runner.Wait()
	}
	for _, s := range app.scripts {
		s.Close()
	}
	if app.notifier != nil {
		app.notifier.Close()
	}
	return err
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config { return app.cfg }

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger { return app.logger }

// Handler returns the key dispatcher.
func (app *Application) Handler() *input.Handler { return app.handler }

// Defaults returns the default rule registry.
func (app *Application) Defaults() *keymap.Registry { return app.defaults }

// Overrides returns the user override source.
func (app *Application) Overrides() *keymap.OverrideSource { return app.overrides }

// Commands returns the command registry.
func (app *Application) Commands() *command.Registry { return app.commands }

// Runner returns the asynchronous command runner.
func (app *Application) Runner() *command.Runner { return app.runner }

// Diagnostics returns every diagnostic reported so far.
func (app *Application) Diagnostics() []keymap.Diagnostic { return app.diagnostics.Items() }

// diagnosticFanout reports to every sink in order.
type diagnosticFanout []keymap.DiagnosticSink

func (f diagnosticFanout) Report(d keymap.Diagnostic) {
	for _, s := range f {
		s.Report(d)
	}
}

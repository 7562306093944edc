package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// Runner executes commands asynchronously.
//
// Each call gets an invocation id and its own goroutine. Errors and panics
// are reported to the diagnostics sink as DiagnosticExecution and logged;
// they never reach the caller.
type Runner struct {
	exec    Executor
	sink    keymap.DiagnosticSink
	logger  *logging.Logger
	metrics *Metrics
	timeout time.Duration

	wg sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDiagnostics sets the sink for execution failures.
func WithDiagnostics(sink keymap.DiagnosticSink) RunnerOption {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets execution metrics.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTimeout bounds each execution. Zero disables the bound.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner for exec.
func NewRunner(exec Executor, opts ...RunnerOption) *Runner {
	r := &Runner{
		exec:    exec,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Null()
	}
	r.logger = r.logger.WithComponent("command")
	return r
}

// Start begins executing command and returns its invocation id.
func (r *Runner) Start(ctx context.Context, command string, args any) string {
	id := uuid.NewString()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(ctx, id, command, args)
	}()
	return id
}

// Run begins executing command.
func (r *Runner) Run(ctx context.Context, command string, args any) {
	r.Start(ctx, command, args)
}

// Wait blocks until every started command has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(ctx context.Context, id, command string, args any) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log := r.logger.WithFields(map[string]any{
		"invocation": id,
		"command":    command,
	})

	start := time.Now()
	err := r.call(ctx, command, args)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		r.metrics.observe(command, statusOK, elapsed)
		log.Debug("done in %s", elapsed)
	case errors.Is(err, ErrUnknownCommand):
		r.metrics.observe(command, statusUnknown, elapsed)
		log.Warn("%v", err)
		r.report(command, err)
	default:
		r.metrics.observe(command, statusError, elapsed)
		log.Warn("failed: %v", err)
		r.report(command, err)
	}
}

func (r *Runner) call(ctx context.Context, command string, args any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command panicked: %v", p)
		}
	}()
	return r.exec.Execute(ctx, command, args)
}

func (r *Runner) report(command string, err error) {
	if r.sink == nil {
		return
	}
	r.sink.Report(keymap.Diagnostic{
		Kind:    keymap.DiagnosticExecution,
		Message: fmt.Sprintf("running %q: %v", command, err),
	})
}

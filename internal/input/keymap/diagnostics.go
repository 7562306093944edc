package keymap

import (
	"fmt"
	"sync"

	"github.com/dshills/keychord/internal/logging"
)

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind int

const (
	// DiagnosticMalformed reports a key or when string that could not be
	// parsed, or a record that had to be dropped.
	DiagnosticMalformed DiagnosticKind = iota

	// DiagnosticShadowed reports a default rule made unreachable by an
	// override.
	DiagnosticShadowed

	// DiagnosticExecution reports a command that failed to execute.
	DiagnosticExecution
)

// String returns the kind name.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticMalformed:
		return "malformed"
	case DiagnosticShadowed:
		return "shadowed"
	case DiagnosticExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal problem found while building or using rules.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

// String returns "kind: message".
func (d Diagnostic) String() string {
	return d.Kind.String() + ": " + d.Message
}

// DiagnosticSink receives diagnostics.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(d Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// Discard is a sink that drops every diagnostic.
var Discard DiagnosticSink = DiagnosticFunc(func(Diagnostic) {})

// DiagnosticList collects diagnostics. It is safe for concurrent use.
type DiagnosticList struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report appends d.
func (l *DiagnosticList) Report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, d)
}

// Items returns a copy of the collected diagnostics.
func (l *DiagnosticList) Items() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Count returns how many diagnostics of kind were collected.
func (l *DiagnosticList) Count(kind DiagnosticKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, d := range l.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// LogSink writes diagnostics to a logger as warnings.
type LogSink struct {
	Logger *logging.Logger
}

// Report logs d.
func (s LogSink) Report(d Diagnostic) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithField("kind", d.Kind.String()).Warn("%s", d.Message)
}

func report(sink DiagnosticSink, kind DiagnosticKind, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Report(Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

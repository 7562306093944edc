package input

import (
	"fmt"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// Outcome is the kind of a dispatch result.
type Outcome uint8

const (
	// NoMatch means no enabled rule is bound to the press.
	NoMatch Outcome = iota
	// AwaitChord means the press is the first half of a chord.
	AwaitChord
	// Invoke means a command should run.
	Invoke
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no_match"
	case AwaitChord:
		return "await_chord"
	case Invoke:
		return "invoke"
	default:
		return "unknown"
	}
}

// Result is the resolution of one key press.
type Result struct {
	Outcome Outcome

	// Code is the press that was resolved.
	Code key.Code

	// Command, Args and Bubble are set for Invoke.
	Command string
	Args    any
	Bubble  bool

	// Rule is the winning rule for AwaitChord and Invoke.
	Rule *keymap.Rule
}

// String returns a short description for logs and status lines.
func (r Result) String() string {
	switch r.Outcome {
	case AwaitChord:
		return fmt.Sprintf("(%s) was pressed, waiting for second key of chord", r.Code)
	case Invoke:
		if r.Bubble {
			return fmt.Sprintf("%s -> %s (bubble)", r.Code, r.Command)
		}
		return fmt.Sprintf("%s -> %s", r.Code, r.Command)
	default:
		return fmt.Sprintf("%s: no match", r.Code)
	}
}

package keymap

import (
	"sort"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// Candidate is a rule as it sits in a resolver bucket.
type Candidate struct {
	Rule *Rule

	// Shadowed is set when a later rule in the same bucket made this one
	// unreachable.
	Shadowed bool
}

type chordKey struct {
	first, second key.Code
}

// Resolver indexes an ordered rule list for dispatch and lookup.
//
// A Resolver is immutable after NewResolver returns and safe for
// concurrent reads.
type Resolver struct {
	flat   map[key.Code][]*Candidate
	chords map[chordKey][]*Candidate

	// lookup holds non-shadowed rules per command in insertion order.
	lookup       map[string][]*Rule
	defaultBound map[string]struct{}

	sink     DiagnosticSink
	reported map[*Rule]struct{}
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDiagnostics sets the sink that receives shadowing warnings.
func WithDiagnostics(sink DiagnosticSink) ResolverOption {
	return func(r *Resolver) {
		r.sink = sink
	}
}

// NewResolver builds an index from rules. Order is precedence: later rules
// win over earlier ones for the same key press.
func NewResolver(rules []*Rule, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		flat:         make(map[key.Code][]*Candidate),
		chords:       make(map[chordKey][]*Candidate),
		lookup:       make(map[string][]*Rule),
		defaultBound: make(map[string]struct{}),
		reported:     make(map[*Rule]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, rule := range rules {
		if rule == nil || rule.Keybinding == nil {
			continue
		}
		if rule.IsDefault && rule.Command != "" {
			r.defaultBound[rule.Command] = struct{}{}
		}

		kb := *rule.Keybinding
		if kb.IsChord() {
			ck := chordKey{kb.First(), kb.Second()}
			r.chords[ck] = r.insert(r.chords[ck], rule)
		}
		r.flat[kb.First()] = r.insert(r.flat[kb.First()], rule)

		if rule.Command != "" {
			r.lookup[rule.Command] = append(r.lookup[rule.Command], rule)
		}
	}

	r.reported = nil
	return r
}

// insert appends rule to bucket after marking the candidates it shadows.
func (r *Resolver) insert(bucket []*Candidate, rule *Rule) []*Candidate {
	for _, c := range bucket {
		if c.Shadowed || c.Rule.Command == rule.Command {
			continue
		}
		if c.Rule.IsChord() && rule.IsChord() && !c.Rule.Keybinding.Equals(*rule.Keybinding) {
			continue
		}
		if !when.EntirelyIncluded(c.Rule.When, rule.When) {
			continue
		}

		c.Shadowed = true
		r.removeLookup(c.Rule)
		if c.Rule.IsDefault && !rule.IsDefault {
			r.reportShadow(c.Rule, rule)
		}
	}
	return append(bucket, &Candidate{Rule: rule})
}

func (r *Resolver) removeLookup(rule *Rule) {
	list := r.lookup[rule.Command]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == rule {
			list = append(list[:i], list[i+1:]...)
		}
	}
	if len(list) == 0 {
		delete(r.lookup, rule.Command)
		return
	}
	r.lookup[rule.Command] = list
}

func (r *Resolver) reportShadow(shadowed, by *Rule) {
	if _, ok := r.reported[shadowed]; ok {
		return
	}
	r.reported[shadowed] = struct{}{}
	report(r.sink, DiagnosticShadowed, "default keybinding %s is shadowed by %s", shadowed, by)
}

// Match returns the winning rule for a single press, or nil.
// Candidates are scanned from last inserted to first; shadowed candidates
// are skipped.
func (r *Resolver) Match(ctx when.Context, code key.Code) *Rule {
	return match(r.flat[code], ctx)
}

// MatchChord returns the winning rule for the chord (first, second), or nil.
func (r *Resolver) MatchChord(ctx when.Context, first, second key.Code) *Rule {
	return match(r.chords[chordKey{first, second}], ctx)
}

func match(bucket []*Candidate, ctx when.Context) *Rule {
	for i := len(bucket) - 1; i >= 0; i-- {
		c := bucket[i]
		if c.Shadowed {
			continue
		}
		if c.Rule.When == nil || c.Rule.When.Evaluate(ctx) {
			return c.Rule
		}
	}
	return nil
}

// Candidates returns a copy of the flat bucket for code, shadowed entries
// included, in insertion order.
func (r *Resolver) Candidates(code key.Code) []Candidate {
	return copyBucket(r.flat[code])
}

// ChordCandidates returns a copy of the chord bucket for (first, second).
func (r *Resolver) ChordCandidates(first, second key.Code) []Candidate {
	return copyBucket(r.chords[chordKey{first, second}])
}

func copyBucket(bucket []*Candidate) []Candidate {
	if len(bucket) == 0 {
		return nil
	}
	out := make([]Candidate, len(bucket))
	for i, c := range bucket {
		out[i] = *c
	}
	return out
}

// HasChordPrefix reports whether any rule starts with code as the first
// press of a chord.
func (r *Resolver) HasChordPrefix(code key.Code) bool {
	for _, c := range r.flat[code] {
		if c.Rule.IsChord() {
			return true
		}
	}
	return false
}

// LookupKeybindings returns the keybindings of non-shadowed rules for
// command, most recently inserted first.
func (r *Resolver) LookupKeybindings(command string) []key.Keybinding {
	list := r.lookup[command]
	out := make([]key.Keybinding, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, *list[i].Keybinding)
	}
	return out
}

// LookupPrimaryKeybinding returns the most recently inserted non-shadowed
// keybinding for command, or nil.
func (r *Resolver) LookupPrimaryKeybinding(command string) *key.Keybinding {
	list := r.lookup[command]
	if len(list) == 0 {
		return nil
	}
	kb := *list[len(list)-1].Keybinding
	return &kb
}

// DefaultBoundCommands returns the commands bound by at least one default
// rule.
func (r *Resolver) DefaultBoundCommands() map[string]struct{} {
	out := make(map[string]struct{}, len(r.defaultBound))
	for c := range r.defaultBound {
		out[c] = struct{}{}
	}
	return out
}

// UnboundCommands returns the sorted commands of all that no default rule
// binds.
func (r *Resolver) UnboundCommands(all []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range all {
		if _, ok := r.defaultBound[c]; ok {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

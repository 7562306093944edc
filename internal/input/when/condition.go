package when

import (
	"fmt"
	"sort"
	"strings"
)

// Context holds the values a condition is evaluated against.
type Context map[string]any

// Condition is a boolean expression over context variables.
type Condition interface {
	// Evaluate reports whether the condition holds in ctx.
	Evaluate(ctx Context) bool

	// Normalize returns the canonical form of the condition.
	Normalize() Condition

	// Serialize returns the textual form. For normalized conditions the
	// output is stable regardless of the order clauses were written in.
	Serialize() string

	// Equals reports whether both conditions have the same normalized form.
	Equals(other Condition) bool
}

// True returns a condition that always holds.
func True() Condition { return constExpr(true) }

// False returns a condition that never holds.
func False() Condition { return constExpr(false) }

// Has returns a condition that holds when key is truthy.
func Has(key string) Condition { return hasExpr{key: key} }

// Not returns a condition that holds when key is not truthy.
func Not(key string) Condition { return notExpr{key: key} }

// Equal returns a condition that holds when key's value equals value.
func Equal(key, value string) Condition { return equalsExpr{key: key, value: value} }

// NotEqual returns a condition that holds when key's value differs from value.
func NotEqual(key, value string) Condition { return notEqualsExpr{key: key, value: value} }

// And returns the conjunction of conds.
func And(conds ...Condition) Condition { return andExpr(conds) }

// Or returns the disjunction of conds.
func Or(conds ...Condition) Condition { return orExpr(conds) }

func equal(a, b Condition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Normalize().Serialize() == b.Normalize().Serialize()
}

// truthy follows the usual context-key semantics: missing, false, zero
// and empty values are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type constExpr bool

func (c constExpr) Evaluate(Context) bool { return bool(c) }
func (c constExpr) Normalize() Condition  { return c }
func (c constExpr) Equals(o Condition) bool {
	return equal(c, o)
}
func (c constExpr) Serialize() string {
	if c {
		return "true"
	}
	return "false"
}

type hasExpr struct{ key string }

func (e hasExpr) Evaluate(ctx Context) bool { return truthy(ctx[e.key]) }
func (e hasExpr) Normalize() Condition      { return e }
func (e hasExpr) Serialize() string         { return e.key }
func (e hasExpr) Equals(o Condition) bool   { return equal(e, o) }

type notExpr struct{ key string }

func (e notExpr) Evaluate(ctx Context) bool { return !truthy(ctx[e.key]) }
func (e notExpr) Normalize() Condition      { return e }
func (e notExpr) Serialize() string         { return "!" + e.key }
func (e notExpr) Equals(o Condition) bool   { return equal(e, o) }

type equalsExpr struct{ key, value string }

func (e equalsExpr) Evaluate(ctx Context) bool {
	v, ok := ctx[e.key]
	return ok && stringValue(v) == e.value
}

func (e equalsExpr) Normalize() Condition {
	switch e.value {
	case "true":
		return hasExpr{key: e.key}
	case "false":
		return notExpr{key: e.key}
	}
	return e
}

func (e equalsExpr) Serialize() string       { return e.key + " == " + quote(e.value) }
func (e equalsExpr) Equals(o Condition) bool { return equal(e, o) }
func (e equalsExpr) clauses() []string       { return []string{e.Serialize()} }

type notEqualsExpr struct{ key, value string }

func (e notEqualsExpr) Evaluate(ctx Context) bool {
	v, ok := ctx[e.key]
	return !ok || stringValue(v) != e.value
}

func (e notEqualsExpr) Normalize() Condition {
	switch e.value {
	case "true":
		return notExpr{key: e.key}
	case "false":
		return hasExpr{key: e.key}
	}
	return e
}

func (e notEqualsExpr) Serialize() string       { return e.key + " != " + quote(e.value) }
func (e notEqualsExpr) Equals(o Condition) bool { return equal(e, o) }
func (e notEqualsExpr) clauses() []string       { return []string{e.Serialize()} }

type andExpr []Condition

func (e andExpr) Evaluate(ctx Context) bool {
	for _, c := range e {
		if !c.Evaluate(ctx) {
			return false
		}
	}
	return true
}

func (e andExpr) Serialize() string       { return join(e, " && ") }
func (e andExpr) Equals(o Condition) bool { return equal(e, o) }

// clauses returns the serialized conjuncts.
func (e andExpr) clauses() []string {
	out := make([]string, len(e))
	for i, c := range e {
		out[i] = c.Serialize()
	}
	return out
}

func (e andExpr) Normalize() Condition {
	var terms []Condition
	var disjunctions []orExpr
	for _, c := range e {
		switch n := c.Normalize().(type) {
		case constExpr:
			if !n {
				return False()
			}
		case andExpr:
			terms = append(terms, n...)
		case orExpr:
			disjunctions = append(disjunctions, n)
		default:
			terms = append(terms, n)
		}
	}

	if len(disjunctions) > 0 {
		// Distribute over the first disjunction so the result stays an
		// OR of ANDs.
		first, rest := disjunctions[0], disjunctions[1:]
		out := make(orExpr, 0, len(first))
		for _, alt := range first {
			conj := make(andExpr, 0, len(terms)+len(rest)+1)
			conj = append(conj, terms...)
			conj = append(conj, alt)
			for _, r := range rest {
				conj = append(conj, r)
			}
			out = append(out, conj)
		}
		return out.Normalize()
	}

	terms = sortUnique(terms)
	switch len(terms) {
	case 0:
		return True()
	case 1:
		return terms[0]
	}
	return andExpr(terms)
}

type orExpr []Condition

func (e orExpr) Evaluate(ctx Context) bool {
	for _, c := range e {
		if c.Evaluate(ctx) {
			return true
		}
	}
	return false
}

func (e orExpr) Serialize() string       { return join(e, " || ") }
func (e orExpr) Equals(o Condition) bool { return equal(e, o) }

func (e orExpr) Normalize() Condition {
	var terms []Condition
	for _, c := range e {
		switch n := c.Normalize().(type) {
		case constExpr:
			if n {
				return True()
			}
		case orExpr:
			terms = append(terms, n...)
		default:
			terms = append(terms, n)
		}
	}

	terms = sortUnique(terms)
	switch len(terms) {
	case 0:
		return False()
	case 1:
		return terms[0]
	}
	return orExpr(terms)
}

func sortUnique(conds []Condition) []Condition {
	seen := make(map[string]bool, len(conds))
	out := make([]Condition, 0, len(conds))
	for _, c := range conds {
		s := c.Serialize()
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Serialize() < out[j].Serialize()
	})
	return out
}

func join(conds []Condition, sep string) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.Serialize()
	}
	return strings.Join(parts, sep)
}

// quote renders a comparison value. A value holding both quote characters
// is single-quoted with its single quotes doubled.
func quote(v string) string {
	if v != "" && isBareValue(v) {
		return v
	}
	hasSingle := strings.ContainsRune(v, '\'')
	switch {
	case hasSingle && strings.ContainsRune(v, '"'):
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case hasSingle:
		return `"` + v + `"`
	}
	return "'" + v + "'"
}

package when

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned for condition text that cannot be parsed.
var ErrSyntax = errors.New("invalid condition")

// Deserialize parses condition text and returns it normalized.
//
// Empty text, and text that normalizes to "true", yield a nil Condition
// ("always true") and no error. Callers
// that want invalid text to degrade to "always true" can ignore the error;
// the returned Condition is nil in that case too.
func Deserialize(text string) (Condition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var alternatives []Condition
	for _, alt := range splitTopLevel(text, "||") {
		var clauses []Condition
		for _, part := range splitTopLevel(alt, "&&") {
			c, err := parseClause(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, text, err)
			}
			clauses = append(clauses, c)
		}
		alternatives = append(alternatives, And(clauses...))
	}
	n := Or(alternatives...).Normalize()
	if n == True() {
		return nil, nil
	}
	return n, nil
}

// MustDeserialize parses condition text and panics on error.
// Use only for known-valid conditions in initialization code.
func MustDeserialize(text string) Condition {
	c, err := Deserialize(text)
	if err != nil {
		panic(err)
	}
	return c
}

// splitTopLevel splits s at sep, ignoring separators inside quotes.
func splitTopLevel(s, sep string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case strings.HasPrefix(s[i:], sep):
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func parseClause(s string) (Condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty operand")
	}

	for _, op := range []string{"==", "!="} {
		if i := indexOutsideQuotes(s, op); i >= 0 {
			k := strings.TrimSpace(s[:i])
			if !isKey(k) {
				return nil, fmt.Errorf("invalid key %q", k)
			}
			v, err := parseValue(strings.TrimSpace(s[i+len(op):]))
			if err != nil {
				return nil, err
			}
			if op == "==" {
				return Equal(k, v), nil
			}
			return NotEqual(k, v), nil
		}
	}

	switch s {
	case "true":
		return True(), nil
	case "false":
		return False(), nil
	}

	if strings.HasPrefix(s, "!") {
		k := strings.TrimSpace(s[1:])
		if !isKey(k) {
			return nil, fmt.Errorf("invalid key %q", k)
		}
		return Not(k), nil
	}

	if !isKey(s) {
		return nil, fmt.Errorf("invalid key %q", s)
	}
	return Has(s), nil
}

func parseValue(s string) (string, error) {
	if s == "" {
		return "", errors.New("missing value")
	}
	if q := s[0]; q == '\'' || q == '"' {
		if len(s) < 2 || s[len(s)-1] != q {
			return "", errors.New("unterminated quote")
		}
		return unquote(s[1:len(s)-1], q)
	}
	if !isBareValue(s) {
		return "", fmt.Errorf("invalid value %q", s)
	}
	return s, nil
}

// unquote decodes the body of a value quoted with q, where a doubled q
// stands for one literal q.
func unquote(body string, q byte) (string, error) {
	if strings.IndexByte(body, q) < 0 {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == q {
			if i+1 >= len(body) || body[i+1] != q {
				return "", fmt.Errorf("stray %c in quoted value", q)
			}
			i++
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

func indexOutsideQuotes(s, op string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case strings.HasPrefix(s[i:], op):
			return i
		}
	}
	return -1
}

func isKey(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	return isBareValue(s)
}

func isBareValue(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-', r == ':', r == '/':
		default:
			return false
		}
	}
	return s != ""
}

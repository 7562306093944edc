package when

// clauser is implemented by conditions that can list their conjuncts
// without going through text.
type clauser interface {
	clauses() []string
}

// Clauses returns the normalized clause set of c: the serialized conjuncts
// of a conjunction, or the whole serialization for anything else. Clauses
// never come from splitting text, so quoted values may contain "&&".
// A nil condition has no clauses.
func Clauses(c Condition) []string {
	if c == nil {
		return nil
	}
	n := c.Normalize()
	if n == True() {
		return nil
	}
	if cl, ok := n.(clauser); ok {
		return cl.clauses()
	}
	return []string{n.Serialize()}
}

// EntirelyIncluded reports whether every clause of in is also a clause of
// by. A nil in (always true) is included in anything; a nil by includes
// only a nil in.
func EntirelyIncluded(in, by Condition) bool {
	if in == nil {
		return true
	}
	if by == nil {
		return false
	}

	have := make(map[string]struct{})
	for _, c := range Clauses(by) {
		have[c] = struct{}{}
	}
	for _, c := range Clauses(in) {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

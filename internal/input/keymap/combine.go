package keymap

// Combine merges default rules with decoded overrides.
//
// Removal directives delete matching defaults and are then discarded.
// Override rules are appended in order, so they always follow the
// remaining defaults. The defaults slice is not modified.
func Combine(defaults []*Rule, overrides []Entry) []*Rule {
	result := make([]*Rule, len(defaults), len(defaults)+len(overrides))
	copy(result, defaults)

	var added []*Rule
	for _, e := range overrides {
		switch {
		case e.Removal != nil:
			result = removeMatching(result, e.Removal)
		case e.Rule != nil:
			added = append(added, e.Rule)
		}
	}
	return append(result, added...)
}

// removeMatching deletes every rule matched by d, scanning from the end.
func removeMatching(rules []*Rule, d *RemovalDirective) []*Rule {
	for i := len(rules) - 1; i >= 0; i-- {
		if d.Matches(rules[i]) {
			rules = append(rules[:i], rules[i+1:]...)
		}
	}
	return rules
}

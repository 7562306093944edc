// Package when implements "when" conditions: boolean expressions over named
// context variables that enable or disable a keybinding.
//
// The grammar is a disjunction of conjunctions:
//
//	editorFocus
//	!editorReadonly
//	resourceLangId == go
//	panel != 'terminal'
//	editorFocus && !editorReadonly || inQuickOpen
//
// Conditions are always compared in normalized form. Normalization flattens
// nested operators, removes duplicate clauses, orders clauses by their
// serialization and folds comparisons against true/false into plain or
// negated keys, so two conditions that differ only in clause order serialize
// identically.
//
// A nil Condition means "always true".
package when

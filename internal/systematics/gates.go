package systematics

import "strings"

// Gate restricts a systematic to a subset of categories, by name.
type Gate func(category string) bool

// PrefixGate admits categories whose name starts with prefix.
func PrefixGate(prefix string) Gate {
	return func(category string) bool {
		return strings.HasPrefix(category, prefix)
	}
}

// ExactGate admits only the category with exactly the given name.
func ExactGate(name string) Gate {
	return func(category string) bool {
		return category == name
	}
}

// GateTable maps a systematic name to its category gate. Systematics
// absent from the table apply to every category.
//
// The gates key off category-name conventions (prefix/exact match), so
// renaming categories requires updating this table in lockstep.
type GateTable map[string]Gate

// Applies reports whether the named systematic applies to the category.
func (t GateTable) Applies(syst, category string) bool {
	gate, ok := t[syst]
	if !ok {
		return true
	}
	return gate(category)
}

// DefaultGates returns the built-in gate table: the tt+bb Q2-scale
// uncertainty only acts in the six-jet categories, and the top-pT
// correction is only derived for the inclusive selection.
func DefaultGates() GateTable {
	return GateTable{
		"Q2scale_ttjets_bb": PrefixGate("j6"),
		"CMS_ttH_topPtcorr": ExactGate("incl"),
	}
}

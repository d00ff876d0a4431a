package category

// Mode says how an override string combines with the default table.
type Mode int

const (
	// ModeReplace uses the override tokens as the whole table.
	ModeReplace Mode = iota
	// ModeAdd appends the override tokens after the default table.
	ModeAdd
	// ModeRemove drops default entries whose name matches an override token.
	ModeRemove
)

// splitOverride strips the mode sigil off an override string.
// A leading '+' selects ModeAdd, a leading '-' ModeRemove; anything
// else is a full replacement.
func splitOverride(override string) (Mode, string) {
	switch {
	case len(override) > 0 && override[0] == '+':
		return ModeAdd, override[1:]
	case len(override) > 0 && override[0] == '-':
		return ModeRemove, override[1:]
	default:
		return ModeReplace, override
	}
}

// Select applies a command-line override string to the default category
// list. An empty override returns the defaults unchanged. Name matching
// is case-sensitive exact equality; removal tokens match by name only,
// their jet/parton fields are ignored. Duplicate names are retained in
// order; duplicate detection is the card builder's job.
func Select(defaults []Category, override string) ([]Category, error) {
	if override == "" {
		return defaults, nil
	}

	mode, rest := splitOverride(override)
	toks, err := parseList(rest)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeAdd:
		out := make([]Category, 0, len(defaults)+len(toks))
		out = append(out, defaults...)
		return append(out, toks...), nil
	case ModeRemove:
		drop := make(map[string]bool, len(toks))
		for _, t := range toks {
			drop[t.Name] = true
		}
		var out []Category
		for _, c := range defaults {
			if !drop[c.Name] {
				out = append(out, c)
			}
		}
		return out, nil
	default:
		return toks, nil
	}
}

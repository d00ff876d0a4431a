package systematics

import "fmt"

// BTagMode selects how b-tagging efficiency uncertainties enter the
// datacard.
type BTagMode int

const (
	// BTagOff drops the b-tag systematics entirely.
	BTagOff BTagMode = iota
	// BTagRate folds the shifted templates into lnN rate rows.
	BTagRate
	// BTagShape emits the shifted templates as shape rows.
	BTagShape
	// BTagPerCategory decorrelates the shape rows across categories.
	BTagPerCategory
)

var btagModeNames = map[string]BTagMode{
	"off":      BTagOff,
	"rate":     BTagRate,
	"shape":    BTagShape,
	"category": BTagPerCategory,
}

// ParseBTagMode maps the command-line mode string to a BTagMode.
func ParseBTagMode(s string) (BTagMode, error) {
	m, ok := btagModeNames[s]
	if !ok {
		return BTagOff, fmt.Errorf("invalid b-tag mode %q (want off, rate, shape or category)", s)
	}
	return m, nil
}

func (m BTagMode) String() string {
	switch m {
	case BTagOff:
		return "off"
	case BTagRate:
		return "rate"
	case BTagShape:
		return "shape"
	case BTagPerCategory:
		return "category"
	}
	return fmt.Sprintf("BTagMode(%d)", int(m))
}

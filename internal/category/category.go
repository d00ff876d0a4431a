// Package category holds the analysis category table and the override
// selector applied on top of it.
//
// A category is one analysis bin, identified by name and optionally
// constrained in jet multiplicity and parton count. Category names feed
// the histogram naming convention <process>_<discriminant>_<category>,
// which is why they must not contain underscores.
package category

import (
	"fmt"
	"strconv"
	"strings"
)

// Unspecified marks an absent jet or parton constraint. It is distinct
// from zero: a category constrained to zero jets is a real constraint.
const Unspecified = -1

// Category is one analysis bin.
type Category struct {
	Name    string
	Jets    int
	Partons int
}

// Parse decodes a token of the form "name", "name:jets" or
// "name:jets:partons". Omitted numeric fields resolve to Unspecified.
func Parse(token string) (Category, error) {
	parts := strings.Split(token, ":")
	if len(parts) > 3 {
		return Category{}, fmt.Errorf("category token %q: at most two numeric fields allowed", token)
	}

	name := parts[0]
	if name == "" {
		return Category{}, fmt.Errorf("category token %q: empty name", token)
	}
	if strings.Contains(name, "_") {
		return Category{}, fmt.Errorf("category name %q must not contain underscores", name)
	}

	c := Category{Name: name, Jets: Unspecified, Partons: Unspecified}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return Category{}, fmt.Errorf("category token %q: jet field %q is not an integer", token, parts[1])
		}
		c.Jets = n
	}
	if len(parts) > 2 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return Category{}, fmt.Errorf("category token %q: parton field %q is not an integer", token, parts[2])
		}
		c.Partons = n
	}
	return c, nil
}

// String re-encodes the category in the token form accepted by Parse.
func (c Category) String() string {
	switch {
	case c.Partons != Unspecified:
		return fmt.Sprintf("%s:%d:%d", c.Name, c.Jets, c.Partons)
	case c.Jets != Unspecified:
		return fmt.Sprintf("%s:%d", c.Name, c.Jets)
	default:
		return c.Name
	}
}

// defaultTable is the built-in category list in compact encoding:
// whitespace-separated tokens in the form accepted by Parse.
const defaultTable = "incl j4p2:4:2 j4p3:4:3 j4p4:4:4 j5p3:5:3 j5p4:5:4 j6p2:6:2 j6p3:6:3 j6p4:6:4"

// DefaultTable returns the built-in ordered category list.
func DefaultTable() []Category {
	cats, err := parseList(defaultTable)
	if err != nil {
		// The table is a compile-time literal; a parse failure is a bug.
		panic(err)
	}
	return cats
}

func parseList(s string) ([]Category, error) {
	var cats []Category
	for _, tok := range strings.Fields(s) {
		c, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

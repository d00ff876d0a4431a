// Package systematics describes the nuisance parameters entering the
// datacard: their definitions, which categories they apply to, and the
// treatment of the b-tagging efficiency uncertainties.
package systematics

import "strings"

// Kind is the datacard row type of a systematic.
type Kind string

const (
	// LogNormal is a rate-only uncertainty (lnN row).
	LogNormal Kind = "lnN"
	// Shape is a template-morphing uncertainty (shape row).
	Shape Kind = "shape"
)

// Systematic is one nuisance-parameter definition.
type Systematic struct {
	Name  string  `yaml:"name"`
	Kind  Kind    `yaml:"kind"`
	Value float64 `yaml:"value,omitempty"` // lnN size; unused for shapes
	BTag  bool    `yaml:"btag,omitempty"`  // subject to the b-tag mode
}

// DefaultTable returns the built-in systematic definitions, in datacard
// row order.
func DefaultTable() []Systematic {
	return []Systematic{
		{Name: "lumi", Kind: LogNormal, Value: 1.022},
		{Name: "CMS_ttH_eff_lep", Kind: LogNormal, Value: 1.014},
		{Name: "CMS_ttH_pu", Kind: LogNormal, Value: 1.010},
		{Name: "QCDscale_ttH", Kind: LogNormal, Value: 1.067},
		{Name: "QCDscale_ttbar", Kind: LogNormal, Value: 1.030},
		{Name: "pdf_gg", Kind: LogNormal, Value: 1.026},
		{Name: "CMS_scale_j", Kind: Shape},
		{Name: "CMS_res_j", Kind: Shape},
		{Name: "CMS_ttH_topPtcorr", Kind: Shape},
		{Name: "Q2scale_ttjets_bb", Kind: Shape},
		{Name: "CMS_ttH_CSVLF", Kind: Shape, BTag: true},
		{Name: "CMS_ttH_CSVHF", Kind: Shape, BTag: true},
		{Name: "CMS_ttH_CSVLFStats1", Kind: Shape, BTag: true},
		{Name: "CMS_ttH_CSVHFStats1", Kind: Shape, BTag: true},
		{Name: "CMS_ttH_CSVCErr1", Kind: Shape, BTag: true},
		{Name: "CMS_ttH_CSVCErr2", Kind: Shape, BTag: true},
	}
}

// ParseDisabled splits a whitespace-separated list of systematic names
// into a suppression set. An empty string yields an empty set.
func ParseDisabled(s string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range strings.Fields(s) {
		out[name] = true
	}
	return out
}

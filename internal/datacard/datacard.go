// Package datacard builds the combine-style datacard text from the
// resolved category list, the systematic tables and the histogram
// yields of the input file.
//
// Histograms follow the naming convention
// <process>_<discriminant>_<category>, with systematic-shifted
// templates suffixed _<systematic>Up and _<systematic>Down. Category
// and discriminant names therefore must not contain underscores.
package datacard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"cardgen/internal/category"
	"cardgen/internal/systematics"
)

// Source yields histogram names and integrated rates from the input
// file. *histio.Store satisfies it.
type Source interface {
	Names() []string
	Rate(name string) (float64, error)
}

// Inputs carries everything the builder consumes.
type Inputs struct {
	Discriminant string
	Categories   []category.Category
	Signals      []string
	Backgrounds  []string
	DataProcess  string
	Systematics  []systematics.Systematic
	Gates        systematics.GateTable
	Disabled     map[string]bool
	BTag         systematics.BTagMode
	ShapesFile   string
	Source       Source
	Summary      bool
	SummaryW     io.Writer // defaults to stderr
	Logger       *zap.Logger
}

// column is one (category, process) pair with a histogram in the file.
type column struct {
	cat   string
	proc  string
	index int
	rate  float64
}

// card is the fully resolved datacard, ready to render.
type card struct {
	in      Inputs
	columns []column
	obs     map[string]float64 // category -> observed yield
	nprocs  int                // distinct processes across all columns
	rows    []systRow
}

// systRow is one rendered nuisance-parameter line.
type systRow struct {
	name    string
	kind    systematics.Kind
	entries []string // one per column
}

// Build resolves all yields and systematic rows, then writes the card
// to w. Any failure aborts before the first byte of output.
func Build(w io.Writer, in Inputs) error {
	if in.Logger == nil {
		in.Logger = zap.NewNop()
	}
	if in.SummaryW == nil {
		in.SummaryW = os.Stderr
	}

	c, err := resolve(in)
	if err != nil {
		return err
	}

	if err := c.render(w); err != nil {
		return err
	}

	if in.Summary {
		if err := c.summarize(in.SummaryW); err != nil {
			return err
		}
	}
	return nil
}

func resolve(in Inputs) (*card, error) {
	if len(in.Categories) == 0 {
		return nil, fmt.Errorf("no categories selected")
	}
	if strings.Contains(in.Discriminant, "_") {
		return nil, fmt.Errorf("discriminant %q must not contain underscores", in.Discriminant)
	}
	seen := make(map[string]bool, len(in.Categories))
	for _, cat := range in.Categories {
		if seen[cat.Name] {
			return nil, fmt.Errorf("duplicate category %q in the resolved list", cat.Name)
		}
		seen[cat.Name] = true
	}

	have := make(map[string]bool)
	for _, n := range in.Source.Names() {
		have[n] = true
	}

	in.Logger.Info("resolving datacard",
		zap.Int("categories", len(in.Categories)),
		zap.Int("histograms", len(have)),
		zap.String("discriminant", in.Discriminant),
		zap.Stringer("btag-mode", in.BTag),
	)

	c := &card{
		in:  in,
		obs: make(map[string]float64, len(in.Categories)),
	}

	// Process indices follow the combine convention: signals get
	// non-positive indices, backgrounds count up from one.
	index := make(map[string]int, len(in.Signals)+len(in.Backgrounds))
	order := make([]string, 0, len(in.Signals)+len(in.Backgrounds))
	for i, p := range in.Signals {
		index[p] = -i
		order = append(order, p)
	}
	for i, p := range in.Backgrounds {
		index[p] = i + 1
		order = append(order, p)
	}

	procs := make(map[string]bool)
	for _, cat := range in.Categories {
		var nsig int
		for _, proc := range order {
			name := histName(proc, in.Discriminant, cat.Name)
			if !have[name] {
				continue
			}
			rate, err := in.Source.Rate(name)
			if err != nil {
				return nil, err
			}
			in.Logger.Debug("column",
				zap.String("category", cat.Name),
				zap.String("process", proc),
				zap.Float64("rate", rate),
			)
			c.columns = append(c.columns, column{
				cat:   cat.Name,
				proc:  proc,
				index: index[proc],
				rate:  rate,
			})
			procs[proc] = true
			if index[proc] <= 0 {
				nsig++
			}
		}
		if nsig == 0 {
			return nil, fmt.Errorf("category %q has no signal histogram", cat.Name)
		}

		obs, err := in.Source.Rate(histName(in.DataProcess, in.Discriminant, cat.Name))
		if err != nil {
			return nil, fmt.Errorf("no observation for category %q: %w", cat.Name, err)
		}
		c.obs[cat.Name] = obs
	}
	c.nprocs = len(procs)

	c.rows = c.systRows(have)
	return c, nil
}

func histName(proc, disc, cat string) string {
	return proc + "_" + disc + "_" + cat
}

// systRows renders every enabled systematic into per-column entries,
// honoring the gate table and the b-tag mode.
func (c *card) systRows(have map[string]bool) []systRow {
	var rows []systRow
	for _, s := range c.in.Systematics {
		if c.in.Disabled[s.Name] {
			c.in.Logger.Debug("systematic disabled", zap.String("name", s.Name))
			continue
		}
		if s.BTag {
			rows = append(rows, c.btagRows(s, have)...)
			continue
		}
		row := systRow{name: s.Name, kind: s.Kind}
		for _, col := range c.columns {
			row.entries = append(row.entries, c.plainEntry(s, col, have))
		}
		rows = appendLive(rows, row)
	}
	return rows
}

// plainEntry renders one non-b-tag systematic for one column.
func (c *card) plainEntry(s systematics.Systematic, col column, have map[string]bool) string {
	if !c.in.Gates.Applies(s.Name, col.cat) {
		return "-"
	}
	if s.Kind == systematics.Shape {
		if !c.hasShifts(col, s.Name, have) {
			return "-"
		}
		return "1"
	}
	return trimFloat(s.Value)
}

// btagRows renders one b-tag systematic according to the b-tag mode.
func (c *card) btagRows(s systematics.Systematic, have map[string]bool) []systRow {
	switch c.in.BTag {
	case systematics.BTagOff:
		return nil

	case systematics.BTagRate:
		row := systRow{name: s.Name, kind: systematics.LogNormal}
		for _, col := range c.columns {
			row.entries = append(row.entries, c.rateEntry(s, col, have))
		}
		return appendLive(nil, row)

	case systematics.BTagPerCategory:
		// Decorrelate across categories: one nuisance per category,
		// acting only on that category's columns.
		var rows []systRow
		for _, cat := range c.in.Categories {
			row := systRow{name: s.Name + cat.Name, kind: systematics.Shape}
			for _, col := range c.columns {
				if col.cat == cat.Name && c.hasShifts(col, s.Name, have) {
					row.entries = append(row.entries, "1")
				} else {
					row.entries = append(row.entries, "-")
				}
			}
			rows = appendLive(rows, row)
		}
		return rows

	default: // BTagShape
		row := systRow{name: s.Name, kind: systematics.Shape}
		for _, col := range c.columns {
			if c.hasShifts(col, s.Name, have) {
				row.entries = append(row.entries, "1")
			} else {
				row.entries = append(row.entries, "-")
			}
		}
		return appendLive(nil, row)
	}
}

// rateEntry folds the Up/Down templates of one column into an
// asymmetric lnN entry kDown/kUp.
func (c *card) rateEntry(s systematics.Systematic, col column, have map[string]bool) string {
	if col.rate == 0 || !c.hasShifts(col, s.Name, have) {
		return "-"
	}
	base := histName(col.proc, c.in.Discriminant, col.cat)
	up, err := c.in.Source.Rate(base + "_" + s.Name + "Up")
	if err != nil {
		return "-"
	}
	down, err := c.in.Source.Rate(base + "_" + s.Name + "Down")
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.3f/%.3f", down/col.rate, up/col.rate)
}

func (c *card) hasShifts(col column, syst string, have map[string]bool) bool {
	base := histName(col.proc, c.in.Discriminant, col.cat)
	return have[base+"_"+syst+"Up"] && have[base+"_"+syst+"Down"]
}

// appendLive drops rows in which no column participates.
func appendLive(rows []systRow, row systRow) []systRow {
	for _, e := range row.entries {
		if e != "-" {
			return append(rows, row)
		}
	}
	return rows
}

const separator = "----------------------------------------------------------------------------------------------------"

// render writes the resolved card.
func (c *card) render(w io.Writer) error {
	fmt.Fprintf(w, "# Datacard produced by cardgen (discriminant: %s)\n", c.in.Discriminant)
	fmt.Fprintf(w, "imax %d  number of categories\n", len(c.in.Categories))
	fmt.Fprintf(w, "jmax %d  number of processes minus one\n", c.nprocs-1)
	fmt.Fprintf(w, "kmax %d  number of nuisance parameters\n", len(c.rows))
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "shapes * * %s $PROCESS_%s_$CHANNEL $PROCESS_%s_$CHANNEL_$SYSTEMATIC\n",
		c.in.ShapesFile, c.in.Discriminant, c.in.Discriminant)
	fmt.Fprintln(w, separator)

	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "bin")
	for _, cat := range c.in.Categories {
		fmt.Fprintf(tw, "\t%s", cat.Name)
	}
	fmt.Fprintf(tw, "\nobservation")
	for _, cat := range c.in.Categories {
		fmt.Fprintf(tw, "\t%s", trimFloat(c.obs[cat.Name]))
	}
	fmt.Fprintln(tw)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, separator)

	tw = tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "bin")
	for _, col := range c.columns {
		fmt.Fprintf(tw, "\t%s", col.cat)
	}
	fmt.Fprintf(tw, "\nprocess")
	for _, col := range c.columns {
		fmt.Fprintf(tw, "\t%s", col.proc)
	}
	fmt.Fprintf(tw, "\nprocess")
	for _, col := range c.columns {
		fmt.Fprintf(tw, "\t%d", col.index)
	}
	fmt.Fprintf(tw, "\nrate")
	for _, col := range c.columns {
		fmt.Fprintf(tw, "\t%.4f", col.rate)
	}
	fmt.Fprintln(tw)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, separator)

	tw = tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	for _, row := range c.rows {
		fmt.Fprintf(tw, "%s\t%s", row.name, row.kind)
		for _, e := range row.entries {
			fmt.Fprintf(tw, "\t%s", e)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// summarize prints the per-category yield table.
func (c *card) summarize(w io.Writer) error {
	sig := make(map[string]float64, len(c.in.Categories))
	bkg := make(map[string]float64, len(c.in.Categories))
	for _, col := range c.columns {
		if col.index <= 0 {
			sig[col.cat] += col.rate
		} else {
			bkg[col.cat] += col.rate
		}
	}

	tw := tabwriter.NewWriter(w, 1, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "category\tsignal\tbackground\tdata")
	for _, cat := range c.in.Categories {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%s\n",
			cat.Name, sig[cat.Name], bkg[cat.Name], trimFloat(c.obs[cat.Name]))
	}
	return tw.Flush()
}

// trimFloat renders a float without trailing zero noise.
func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cardgen/internal/category"
)

// categoriesCmd shows the effective category table
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the effective category table",
	Long: `Prints the category list after applying the -c override to the
built-in table, without touching any ROOT file.

Example:
  cardgen categories -c "+boosted:7:4"
  cardgen categories -c "-incl"`,
	RunE: showCategories,
}

func showCategories(cmd *cobra.Command, args []string) error {
	cats, err := category.Select(category.DefaultTable(), categoriesFl)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tjets\tpartons")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, field(c.Jets), field(c.Partons))
	}
	return tw.Flush()
}

// field renders a jet/parton constraint, "-" when unspecified.
func field(v int) string {
	if v == category.Unspecified {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesFl, "categories", "c", "", `Category override: "a b" replaces, "+a" adds, "-a" removes`)
}

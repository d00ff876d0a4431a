package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cardgen/internal/category"
	"cardgen/internal/config"
	"cardgen/internal/datacard"
	"cardgen/internal/histio"
	"cardgen/internal/logging"
	"cardgen/internal/systematics"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Build flags
	discriminant string
	outfile      string
	categoriesFl string
	disabledFl   string
	btagFl       string
	noSummary    bool

	// Logger
	logger *zap.Logger
)

// rootCmd generates the datacard from one input ROOT file.
var rootCmd = &cobra.Command{
	Use:   "cardgen [flags] input.root",
	Short: "Generate a statistical datacard from ROOT histograms",
	Long: `cardgen derives a combine-style datacard from the discriminant
histograms of an analysis ROOT file: per-category signal and background
yields, nuisance-parameter rows with conditional applicability, and a
selectable treatment of the b-tagging efficiency uncertainties.

Histograms are looked up as <process>_<discriminant>_<category>, with
systematic shifts suffixed Up/Down. The category table can be replaced
("cat1 cat2"), extended ("+cat:jets:partons") or pruned ("-cat") via -c.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

// runBuild is the whole pipeline: options are already parsed, so
// resolve the b-tag mode, the output stream and the category list, open
// the input file and hand everything to the card builder. Every step is
// fatal on error, nothing is retried.
func runBuild(cmd *cobra.Command, args []string) error {
	mode, err := systematics.ParseBTagMode(btagFl)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if discriminant != "" {
		cfg.Discriminant = discriminant
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out, closeOut, err := resolveOutput(outfile)
	if err != nil {
		return err
	}
	defer closeOut()

	cats, err := category.Select(category.DefaultTable(), categoriesFl)
	if err != nil {
		return err
	}

	store, err := histio.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("building datacard",
		zap.String("input", args[0]),
		zap.String("output", outName(outfile)),
		zap.Int("categories", len(cats)),
	)

	return datacard.Build(out, datacard.Inputs{
		Discriminant: cfg.Discriminant,
		Categories:   cats,
		Signals:      cfg.Processes.Signals,
		Backgrounds:  cfg.Processes.Backgrounds,
		DataProcess:  cfg.Processes.Data,
		Systematics:  cfg.Systematics,
		Gates:        cfg.GateTable(),
		Disabled:     systematics.ParseDisabled(disabledFl),
		BTag:         mode,
		ShapesFile:   args[0],
		Source:       store,
		Summary:      !noSummary,
		SummaryW:     os.Stderr,
		Logger:       logger,
	})
}

// loadConfig reads the config file when one is given, otherwise the
// built-in defaults with environment overrides applied.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg := config.DefaultConfig()
	cfg.ApplyEnv()
	return cfg, nil
}

// resolveOutput opens the named file for writing, or hands back stdout
// when no name is given.
func resolveOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create %q: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func outName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a cardgen YAML config")

	rootCmd.Flags().StringVarP(&discriminant, "discriminant", "d", "", `Discriminant histogram name (default "MVA", no underscores)`)
	rootCmd.Flags().StringVarP(&outfile, "outfile", "o", "", "Output path (default: stdout)")
	rootCmd.Flags().StringVarP(&categoriesFl, "categories", "c", "", `Category override: "a b" replaces, "+a" adds, "-a" removes`)
	rootCmd.Flags().StringVarP(&disabledFl, "disable-systematic", "s", "", "Whitespace-separated systematic names to suppress")
	rootCmd.Flags().StringVarP(&btagFl, "btag-mode", "b", "off", "B-tag uncertainty treatment: off|rate|shape|category")
	rootCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Suppress the per-category yield summary")

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

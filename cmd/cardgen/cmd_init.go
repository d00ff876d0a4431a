package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardgen/internal/config"
)

// initCmd writes the built-in configuration to a file for editing
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a YAML file",
	Long: `Writes the built-in process lists, systematic definitions and gate
rules to a YAML file, as a starting point for a customized setup.

Defaults to cardgen.yaml in the working directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "cardgen.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}

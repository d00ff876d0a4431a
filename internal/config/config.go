// Package config holds the run configuration of the datacard generator:
// process lists, systematic definitions and gate rules. Values come from
// built-in defaults, an optional YAML file, and environment overrides,
// in that order; command-line flags win over all of them.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cardgen/internal/systematics"
)

// Config holds all cardgen configuration.
type Config struct {
	// Discriminant is the default discriminant histogram name.
	Discriminant string `yaml:"discriminant"`

	// Processes entering the card.
	Processes ProcessConfig `yaml:"processes"`

	// Systematics are the nuisance-parameter rows, in card order.
	Systematics []systematics.Systematic `yaml:"systematics"`

	// Gates restrict systematics to category subsets.
	Gates []GateRule `yaml:"gates"`
}

// ProcessConfig lists the processes entering the card.
type ProcessConfig struct {
	Signals     []string `yaml:"signals"`
	Backgrounds []string `yaml:"backgrounds"`
	Data        string   `yaml:"data"`
}

// GateRule is the serializable form of one gate-table entry. Exactly one
// of Prefix or Exact must be set.
type GateRule struct {
	Systematic string `yaml:"systematic"`
	Prefix     string `yaml:"prefix,omitempty"`
	Exact      string `yaml:"exact,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Discriminant: "MVA",
		Processes: ProcessConfig{
			Signals: []string{"ttH"},
			Backgrounds: []string{
				"ttbarOther", "ttbarPlusB", "ttbarPlusBBbar", "ttbarPlus2B",
				"ttbarPlusCCbar", "singlet", "wjets", "zjets", "diboson", "ttw", "ttz",
			},
			Data: "data_obs",
		},
		Systematics: systematics.DefaultTable(),
		Gates: []GateRule{
			{Systematic: "Q2scale_ttjets_bb", Prefix: "j6"},
			{Systematic: "CMS_ttH_topPtcorr", Exact: "incl"},
		},
	}
}

// Load reads a config file and applies environment overrides on top.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CARDGEN_DISCRIMINANT"); v != "" {
		c.Discriminant = v
	}
	if v := os.Getenv("CARDGEN_DATA_PROCESS"); v != "" {
		c.Processes.Data = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Discriminant == "" {
		return fmt.Errorf("discriminant name is required")
	}
	if strings.Contains(c.Discriminant, "_") {
		return fmt.Errorf("discriminant %q must not contain underscores", c.Discriminant)
	}
	if len(c.Processes.Signals) == 0 {
		return fmt.Errorf("at least one signal process is required")
	}
	if c.Processes.Data == "" {
		return fmt.Errorf("data process name is required")
	}

	seen := make(map[string]bool, len(c.Systematics))
	for _, s := range c.Systematics {
		if s.Name == "" {
			return fmt.Errorf("systematic with empty name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate systematic %q", s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case systematics.LogNormal:
			if s.Value <= 1.0 {
				return fmt.Errorf("systematic %q: lnN size %g must exceed unity", s.Name, s.Value)
			}
		case systematics.Shape:
		default:
			return fmt.Errorf("systematic %q: unknown kind %q", s.Name, s.Kind)
		}
	}

	for _, g := range c.Gates {
		if g.Systematic == "" {
			return fmt.Errorf("gate rule with empty systematic name")
		}
		if (g.Prefix == "") == (g.Exact == "") {
			return fmt.Errorf("gate for %q: exactly one of prefix or exact must be set", g.Systematic)
		}
	}
	return nil
}

// GateTable builds the runtime gate table from the configured rules.
func (c *Config) GateTable() systematics.GateTable {
	table := make(systematics.GateTable, len(c.Gates))
	for _, g := range c.Gates {
		if g.Prefix != "" {
			table[g.Systematic] = systematics.PrefixGate(g.Prefix)
		} else {
			table[g.Systematic] = systematics.ExactGate(g.Exact)
		}
	}
	return table
}

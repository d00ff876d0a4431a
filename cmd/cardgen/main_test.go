package main

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFlags() {
	verbose = false
	configPath = ""
	discriminant = ""
	outfile = ""
	categoriesFl = ""
	disabledFl = ""
	btagFl = "off"
	noSummary = false
}

func TestRoot_BogusBTagMode(t *testing.T) {
	resetFlags()
	defer resetFlags()

	out := filepath.Join(t.TempDir(), "card.txt")
	rootCmd.SetArgs([]string{"--btag-mode", "bogus", "--outfile", out, "input.root"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected usage error for bogus b-tag mode")
	}

	// The mode is parsed before the output destination is resolved,
	// so nothing may have been created.
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file was created despite the usage error")
	}
}

func TestRoot_MissingPositionalArg(t *testing.T) {
	resetFlags()
	defer resetFlags()

	rootCmd.SetArgs([]string{"--btag-mode", "off"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected usage error for missing input file")
	}
}

func TestResolveOutput_Stdout(t *testing.T) {
	w, closeFn, err := resolveOutput("")
	if err != nil {
		t.Fatalf("resolveOutput: %v", err)
	}
	defer closeFn()
	if w != os.Stdout {
		t.Error("empty path must resolve to stdout")
	}
}

func TestResolveOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.txt")
	w, closeFn, err := resolveOutput(path)
	if err != nil {
		t.Fatalf("resolveOutput: %v", err)
	}
	if w == os.Stdout {
		t.Error("named path must not resolve to stdout")
	}
	closeFn()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestInit_RefusesOverwrite(t *testing.T) {
	resetFlags()
	defer resetFlags()

	path := filepath.Join(t.TempDir(), "cardgen.yaml")
	if err := os.WriteFile(path, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"init", path})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error when the config file already exists")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "keep" {
		t.Errorf("existing config was clobbered: %q, %v", data, err)
	}
}

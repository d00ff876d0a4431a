package histio

import (
	"math"
	"path/filepath"
	"testing"

	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
)

// writeTestFile creates a ROOT file with two histograms.
func writeTestFile(t *testing.T, path string) {
	t.Helper()

	f, err := riofs.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}

	h1 := hbook.NewH1D(10, 0, 1)
	h1.Fill(0.1, 1.5)
	h1.Fill(0.7, 2.5)

	h2 := hbook.NewH1D(5, 0, 1)
	h2.Fill(0.5, 3.0)

	if err := f.Put("ttH_MVA_j4p2", rhist.NewH1DFrom(h1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := f.Put("data_obs_MVA_j4p2", rhist.NewH1DFrom(h2)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histos.root")
	writeTestFile(t, path)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	names := s.Names()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	if !seen["ttH_MVA_j4p2"] || !seen["data_obs_MVA_j4p2"] {
		t.Fatalf("missing histogram keys, got %v", names)
	}

	rate, err := s.Rate("ttH_MVA_j4p2")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if math.Abs(rate-4.0) > 1e-9 {
		t.Errorf("Rate = %v, want 4", rate)
	}

	h, err := s.Hist("data_obs_MVA_j4p2")
	if err != nil {
		t.Fatalf("Hist: %v", err)
	}
	if math.Abs(h.SumW()-3.0) > 1e-9 {
		t.Errorf("converted SumW = %v, want 3", h.SumW())
	}

	if _, err := s.Rate("nosuch"); err == nil {
		t.Error("expected error for missing histogram")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nosuch.root")); err == nil {
		t.Error("expected error for missing file")
	}
}

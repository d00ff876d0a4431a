// Package histio reads 1-D histograms from a ROOT file.
//
// It wraps go-hep's groot reader behind the small surface the card
// builder needs: key listing, integrated rates, and hbook conversion
// for bin-level inspection. Files are opened read-only; the generator
// never mutates its input.
package histio

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// Store is a read-only view of the histograms in a ROOT file.
type Store struct {
	f *riofs.File
}

// Open opens the ROOT file at path.
func Open(path string) (*Store, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	return &Store{f: f}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.f.Close()
}

// Names returns the top-level key names in the file, in file order.
func (s *Store) Names() []string {
	keys := s.f.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name())
	}
	return names
}

// Rate returns the sum of weights of the named histogram.
func (s *Store) Rate(name string) (float64, error) {
	h, err := s.h1(name)
	if err != nil {
		return 0, err
	}
	return h.SumW(), nil
}

// Hist converts the named histogram to hbook form for bin-level access.
func (s *Store) Hist(name string) (*hbook.H1D, error) {
	h, err := s.h1(name)
	if err != nil {
		return nil, err
	}
	return rootcnv.H1D(h), nil
}

func (s *Store) h1(name string) (rhist.H1, error) {
	obj, err := s.f.Get(name)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", name, err)
	}
	h, ok := obj.(rhist.H1)
	if !ok {
		return nil, fmt.Errorf("object %q is not a 1-D histogram (%T)", name, obj)
	}
	return h, nil
}

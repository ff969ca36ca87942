// Package packer implements the best-fit bin-packing allocator (C7) that
// assigns merged mod particle content into the byte capacity of each
// vanilla PCF file, as described in spec.md §4.7.
package packer

import (
	"errors"
	"sort"

	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
)

// ErrNoFit is returned by Bins.Pack when no bin has enough remaining
// capacity to accept the incoming Pcf.
var ErrNoFit = errors.New("📦 no bin has enough capacity to fit this pcf")

// Bin is a capacity-bound Pcf slot seeded from one vanilla file: its
// capacity is that file's original on-disk byte size, and Pcf starts out
// schema-compatible but empty (see pcf.NewEmpty).
type Bin struct {
	Capacity uint64
	Name     string
	Pcf      *pcf.Pcf
}

// NewBin returns a Bin with the given capacity, name, and starting Pcf.
func NewBin(capacity uint64, name string, seed *pcf.Pcf) *Bin {
	return &Bin{Capacity: capacity, Name: name, Pcf: seed}
}

// Bins is a best-fit-decreasing allocator over a set of Bin. Bins are kept
// sorted heaviest-first so that Pack always prefers to keep growing a
// fuller bin over spreading content across many partially-filled ones.
type Bins struct {
	bins []*Bin
}

// NewBins constructs a Bins from the given bins, sorted heaviest-first.
func NewBins(bins []*Bin) *Bins {
	b := &Bins{bins: append([]*Bin(nil), bins...)}
	b.resort()
	return b
}

func (b *Bins) resort() {
	sort.SliceStable(b.bins, func(i, j int) bool {
		return b.bins[i].Pcf.EncodedSize() > b.bins[j].Pcf.EncodedSize()
	})
}

// Len returns the number of bins.
func (b *Bins) Len() int { return len(b.bins) }

// All returns the bins in their current (heaviest-first) order. Callers
// must not mutate the returned slice.
func (b *Bins) All() []*Bin { return b.bins }

// Pack merges from into the first bin (heaviest-first) whose merged size
// would not exceed its capacity, per spec.md §4.7:
//
//  1. iterate bins heaviest-first, computing the hypothetical merged size
//     via the C6 predictor without performing the merge;
//  2. merge into the first bin that fits, assert that the merged Pcf's
//     EncodedSize equals the MergedSize prediction (a drift here is a
//     programming bug, not a runtime condition — see the panic below),
//     then re-sort;
//  3. if nothing fits, return ErrNoFit.
func (b *Bins) Pack(from *pcf.Pcf) error {
	for _, bin := range b.bins {
		estimated := bin.Pcf.MergedSize(from)
		if uint64(estimated) > bin.Capacity {
			continue
		}

		if err := bin.Pcf.MergeInto(from); err != nil {
			return err
		}

		if actual := bin.Pcf.EncodedSize(); actual != estimated {
			// Tripwire: pcf.MergedSize and pcf.EncodedSize have diverged, so
			// the two halves of the size predictor are out of lockstep with
			// each other — a bug in this repository, not a recoverable
			// condition a caller could work around.
			panic("packer: predicted merged size does not match actual encoded size after merge")
		}

		b.resort()
		return nil
	}

	return ErrNoFit
}

package packer

import (
	"testing"

	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
)

func oneSystemPcf(name string) *pcf.Pcf {
	p := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "untitled", dmx.Signature{})
	p.Root.Systems = append(p.Root.Systems, systemNamed(name))
	return p
}

// systemNamed is a small helper mirroring pkg/pcf's own test fixtures: a
// bare particle system with no operators or children.
func systemNamed(name string) pcf.ParticleSystem {
	return pcf.ParticleSystem{Name: name, Attributes: dmx.NewAttributeMap()}
}

// TestPackChoosesOnlyBinThatFits is spec.md §8 S5: two bins seeded empty
// from two vanilla files of different sizes; an incoming Pcf sized to fit
// only the larger bin leaves the other untouched.
func TestPackChoosesOnlyBinThatFits(t *testing.T) {
	vanilla1 := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "vanilla1", dmx.Signature{})
	vanilla2 := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "vanilla2", dmx.Signature{})

	incoming := oneSystemPcf("mod_sys")

	smallCap := uint64(vanilla1.EncodedSize())
	bigCap := uint64(vanilla1.MergedSize(incoming)) + 64

	b1 := NewBin(smallCap, "vanilla1.pcf", vanilla1)
	b2 := NewBin(bigCap, "vanilla2.pcf", vanilla2)
	bins := NewBins([]*Bin{b1, b2})

	if err := bins.Pack(incoming); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if len(b1.Pcf.Root.Systems) != 0 {
		t.Errorf("bin 1 should be untouched, has %d systems", len(b1.Pcf.Root.Systems))
	}
	if len(b2.Pcf.Root.Systems) != 1 {
		t.Fatalf("bin 2 should contain the merged system, has %d", len(b2.Pcf.Root.Systems))
	}
	if got := uint64(b2.Pcf.EncodedSize()); got > b2.Capacity {
		t.Errorf("bin 2 encoded size %d exceeds its capacity %d", got, b2.Capacity)
	}
}

func TestPackNoFit(t *testing.T) {
	vanilla := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "vanilla", dmx.Signature{})
	bins := NewBins([]*Bin{NewBin(uint64(vanilla.EncodedSize()), "vanilla.pcf", vanilla)})

	incoming := oneSystemPcf("mod_sys")
	if err := bins.Pack(incoming); err != ErrNoFit {
		t.Fatalf("expected ErrNoFit, got %v", err)
	}
}

func TestPackResortsHeaviestFirst(t *testing.T) {
	vanillaA := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "a", dmx.Signature{})
	vanillaB := pcf.NewEmpty(dmx.VersionBinary2Pcf1, "b", dmx.Signature{})

	huge := uint64(1 << 20)
	bins := NewBins([]*Bin{
		NewBin(huge, "a.pcf", vanillaA),
		NewBin(huge, "b.pcf", vanillaB),
	})

	// Grow bin B past bin A by merging two systems into it directly, then
	// packing a third item and confirming it lands in the now-heavier B
	// first (heaviest-first iteration order).
	if err := bins.All()[1].Pcf.MergeInto(oneSystemPcf("s1")); err != nil {
		t.Fatalf("seed merge: %v", err)
	}
	if err := bins.All()[1].Pcf.MergeInto(oneSystemPcf("s2")); err != nil {
		t.Fatalf("seed merge: %v", err)
	}
	bins = NewBins(bins.All())

	if bins.All()[0].Name != "b.pcf" {
		t.Fatalf("expected the heavier bin first after resort, got %q", bins.All()[0].Name)
	}

	if err := bins.Pack(oneSystemPcf("s3")); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if first := bins.All()[0]; first.Name != "b.pcf" || len(first.Pcf.Root.Systems) != 3 {
		t.Fatalf("expected the third item in the heavier bin b.pcf, got %q with %d systems", first.Name, len(first.Pcf.Root.Systems))
	}
}

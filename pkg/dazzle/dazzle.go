// Package dazzle is the consumer-facing facade over dmx, pcf, packer, and
// vpk: the handful of calls a mod installer actually needs, wired together
// the way spec.md §6 describes them, without requiring the caller to know
// the layout of any of the underlying packages.
package dazzle

import (
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/dresswithpockets/dazzle-core/internal/defaults"
	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
	"github.com/dresswithpockets/dazzle-core/pkg/packer"
	"github.com/dresswithpockets/dazzle-core/pkg/pcf"
	"github.com/dresswithpockets/dazzle-core/pkg/vpk"
)

// DecodeDmx reads a raw DMX binary document from r. logger may be nil.
func DecodeDmx(r io.Reader, logger hclog.Logger) (*dmx.Dmx, error) {
	return dmx.Decode(r, logger)
}

// EncodeDmx writes d back out in its own binary encoding.
func EncodeDmx(d *dmx.Dmx, w io.Writer) error {
	return d.Encode(w)
}

// DecodePcf reads a PCF file from r and validates it into a typed Pcf.
func DecodePcf(r io.Reader, logger hclog.Logger) (*pcf.Pcf, error) {
	d, err := dmx.Decode(r, logger)
	if err != nil {
		return nil, err
	}
	return pcf.FromDmx(d)
}

// EncodePcf projects p back into a generic DMX document and writes it.
func EncodePcf(p *pcf.Pcf, w io.Writer) error {
	return p.ToDmx().Encode(w)
}

// StripDefaults returns a copy of p with every known particle-system and
// operator attribute that still equals its shipped-game default removed,
// using the reference tables in internal/defaults.
func StripDefaults(p *pcf.Pcf) *pcf.Pcf {
	return p.DefaultsStripped(defaults.ParticleSystemDefaults(), defaults.OperatorDefaults())
}

// StripDefaultsNth is StripDefaults restricted to the first `to` systems,
// using the flat (functionName-independent) operator defaults table.
func StripDefaultsNth(p *pcf.Pcf, to int) *pcf.Pcf {
	return p.DefaultsStrippedNth(to, defaults.ParticleSystemDefaults(), defaults.FlatOperatorDefaults())
}

// SplitConnected splits p into one Pcf per connected component of its
// particle-system child graph, each stripped of now-unused symbols.
func SplitConnected(p *pcf.Pcf) []*pcf.Pcf {
	return p.IntoConnected()
}

// NewBin seeds a packer.Bin with the given byte capacity and starting
// schema, ready to receive merges via Pack.
func NewBin(capacity uint64, name string, seed *pcf.Pcf) *packer.Bin {
	return packer.NewBin(capacity, name, seed)
}

// PackBins returns a best-fit-decreasing allocator over bins, sorted
// heaviest-first.
func PackBins(bins []*packer.Bin) *packer.Bins {
	return packer.NewBins(bins)
}

// ReadVpk decodes a VPK directory index at dirPath. logger may be nil.
func ReadVpk(dirPath string, logger hclog.Logger) (*vpk.Vpk, error) {
	return vpk.Read(dirPath, logger)
}

// PatchFile overwrites the bytes of an existing VPK entry in place.
func PatchFile(v *vpk.Vpk, logicalPath string, size int64, r io.Reader, logger hclog.Logger) error {
	return v.PatchWithLogger(logicalPath, size, r, logger)
}

// WriteVpk builds a new multi-part VPK named vpkName under destDir from
// every file under sourceDir.
func WriteVpk(sourceDir, destDir, vpkName string, splitSize uint32, logger hclog.Logger) error {
	return vpk.Write(sourceDir, destDir, vpkName, splitSize, logger)
}

package pcf

import "github.com/dresswithpockets/dazzle-core/pkg/dmx"

// Operator is a DmeParticleOperator leaf: a functionName plus scalar
// parameters only (spec §3.4 invariant 3 — Attributes never contains the
// functionName key itself).
type Operator struct {
	Name         string
	FunctionName string
	Signature    dmx.Signature
	Attributes   *dmx.AttributeMap
}

func (o Operator) clone() Operator {
	return Operator{
		Name:         o.Name,
		FunctionName: o.FunctionName,
		Signature:    o.Signature,
		Attributes:   o.Attributes.Clone(),
	}
}

// Child is a DmeParticleChild leaf: a reference to another particle system
// by index into the owning Pcf's Systems slice.
type Child struct {
	Name       string
	Signature  dmx.Signature
	Child      int // index into Pcf.Root.Systems
	Attributes *dmx.AttributeMap
}

func (c Child) clone() Child {
	return Child{
		Name:       c.Name,
		Signature:  c.Signature,
		Child:      c.Child,
		Attributes: c.Attributes.Clone(),
	}
}

// ParticleSystem is a DmeParticleSystemDefinition: a named element whose
// attributes are either scalar data or one of the seven reserved groups.
type ParticleSystem struct {
	Name       string
	Signature  dmx.Signature
	Children   []Child
	Constraints, Emitters, Forces, Initializers, Operators, Renderers []Operator
	Attributes *dmx.AttributeMap
}

func (p ParticleSystem) clone() ParticleSystem {
	out := ParticleSystem{
		Name:       p.Name,
		Signature:  p.Signature,
		Attributes: p.Attributes.Clone(),
	}
	for _, c := range p.Children {
		out.Children = append(out.Children, c.clone())
	}
	cloneOps := func(ops []Operator) []Operator {
		if ops == nil {
			return nil
		}
		out := make([]Operator, len(ops))
		for i, o := range ops {
			out[i] = o.clone()
		}
		return out
	}
	out.Constraints = cloneOps(p.Constraints)
	out.Emitters = cloneOps(p.Emitters)
	out.Forces = cloneOps(p.Forces)
	out.Initializers = cloneOps(p.Initializers)
	out.Operators = cloneOps(p.Operators)
	out.Renderers = cloneOps(p.Renderers)
	return out
}

// operatorGroups returns the six operator-group slices in the fixed export
// order: constraints, emitters, forces, initializers, operators, renderers.
func (p *ParticleSystem) operatorGroups() []*[]Operator {
	return []*[]Operator{&p.Constraints, &p.Emitters, &p.Forces, &p.Initializers, &p.Operators, &p.Renderers}
}

func operatorGroupNames() []string {
	return []string{"constraints", "emitters", "forces", "initializers", "operators", "renderers"}
}

// Root is the single root element of a PCF: a name, signature, the ordered
// list of particle systems it references, and any other (non-reserved)
// attributes.
type Root struct {
	Name          string
	Signature     dmx.Signature
	Systems       []ParticleSystem
	Attributes    *dmx.AttributeMap // excludes particleSystemDefinitions
}

// Pcf is the typed, validated particle-graph view over a dmx.Dmx document
// described in spec.md §3.4.
type Pcf struct {
	Version dmx.Version
	Symbols *Symbols
	Root    Root
}

// Clone returns a deep, independent copy.
func (p *Pcf) Clone() *Pcf {
	out := &Pcf{
		Version: p.Version,
		Symbols: p.Symbols.Clone(),
		Root: Root{
			Name:       p.Root.Name,
			Signature:  p.Root.Signature,
			Attributes: p.Root.Attributes.Clone(),
		},
	}
	for _, sys := range p.Root.Systems {
		out.Root.Systems = append(out.Root.Systems, sys.clone())
	}
	return out
}

// NewEmpty returns a PCF schema-compatible with an existing one but with no
// systems and no non-mandatory root attributes — the shape the bin packer
// (C7) seeds each bin with.
func NewEmpty(version dmx.Version, rootName string, rootSignature dmx.Signature) *Pcf {
	return &Pcf{
		Version: version,
		Symbols: newDefaultSymbols(),
		Root: Root{
			Name:       rootName,
			Signature:  rootSignature,
			Attributes: dmx.NewAttributeMap(),
		},
	}
}

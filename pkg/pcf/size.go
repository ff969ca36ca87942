package pcf

import "github.com/dresswithpockets/dazzle-core/pkg/dmx"

// attrEntryBytes is the {nameIdx, typeCode, payload} triple every attribute
// occupies inside an element's attribute block.
func attrEntryBytes(a dmx.Attribute) int {
	return 2 + 1 + a.EncodedSize()
}

func attrMapBytes(m *dmx.AttributeMap) int {
	n := 0
	m.Each(func(_ dmx.SymbolIdx, a dmx.Attribute) { n += attrEntryBytes(a) })
	return n
}

// childElementBytes is the full size of one Child's element record plus its
// attribute block: the element-table record, the 4-byte attribute count,
// the "child" Element attribute itself, and the child's other attributes.
func childElementBytes(c Child) int {
	// element record: 2 (typeIdx) + len(name)+1 + 16 (signature)
	record := 2 + len(c.Name) + 1 + 16
	attrBlock := 4 + (2 + 1 + 4) + attrMapBytes(c.Attributes)
	return record + attrBlock
}

// operatorElementBytes is the analogous size for one Operator: its element
// record, the 4-byte attribute count, the functionName String attribute,
// and the operator's other (scalar) attributes.
func operatorElementBytes(o Operator) int {
	record := 2 + len(o.Name) + 1 + 16
	attrBlock := 4 + (2 + 1 + len(o.FunctionName) + 1) + attrMapBytes(o.Attributes)
	return record + attrBlock
}

func (p *ParticleSystem) groups() [][]Operator {
	return [][]Operator{p.Constraints, p.Emitters, p.Forces, p.Initializers, p.Operators, p.Renderers}
}

// systemElementBytes is one ParticleSystem's element record plus its own
// attribute block: the record, the 4-byte attribute count, its scalar
// attributes, and — for every non-empty reserved group — a 2+1+4 header
// for the group's ElementArray attribute plus 4 bytes per referenced index.
func systemElementBytes(sys *ParticleSystem) int {
	record := 2 + len(sys.Name) + 1 + 16
	attrBlock := 4 + attrMapBytes(sys.Attributes)
	if len(sys.Children) > 0 {
		attrBlock += 2 + 1 + 4 + 4*len(sys.Children)
	}
	for _, group := range sys.groups() {
		if len(group) > 0 {
			attrBlock += 2 + 1 + 4 + 4*len(group)
		}
	}
	return record + attrBlock
}

// subElementBytes is the total size contributed by one system's children
// and operator-group leaves: their own element records plus attribute
// blocks (but not the system's own record/attrs, counted separately).
func subElementBytes(sys *ParticleSystem) int {
	n := 0
	for _, c := range sys.Children {
		n += childElementBytes(c)
	}
	for _, group := range sys.groups() {
		for _, op := range group {
			n += operatorElementBytes(op)
		}
	}
	return n
}

// EncodedSize returns the exact byte length this Pcf would have if encoded
// to DMX right now, computed purely from the model (spec.md §4.6) — never
// by actually encoding.
func (p *Pcf) EncodedSize() int {
	n := len(p.Version.Magic())

	// ToDmx inserts the well-known child/operator names on demand, so the
	// symbol block is sized from a copy with those names ensured the same way.
	symbols := p.Symbols.Clone()
	for _, sys := range p.Root.Systems {
		if len(sys.Children) > 0 {
			symbols.ensureParticleChild()
			symbols.ensureChild()
			symbols.ensureGroupSymbol("children")
		}
		for gi, group := range sys.groups() {
			if len(group) > 0 {
				symbols.ensureParticleOperator()
				symbols.ensureFunctionName()
				symbols.ensureGroupSymbol(operatorGroupNames()[gi])
			}
		}
	}
	n += symbols.Base.EncodedSize()

	// element count prefix (4) + root's record
	n += 4
	n += 2 + len(p.Root.Name) + 1 + 16

	for i := range p.Root.Systems {
		n += systemElementBytes(&p.Root.Systems[i])
		n += subElementBytes(&p.Root.Systems[i])
	}

	// root attribute block: 4 (count) + particleSystemDefinitions header (2+1+4)
	// + 4 bytes per referenced system + every other root attribute.
	n += 4 + (2 + 1 + 4) + 4*len(p.Root.Systems)
	n += attrMapBytes(p.Root.Attributes)

	return n
}

// MergedSize returns the exact byte length p would have after Merge(from),
// computed incrementally from p's current size plus only what from would
// add — without performing the merge. This must equal
// p.Clone().Merge(from).EncodedSize() for any valid p, from of equal
// version (the cornerstone property of spec.md §4.6/§8).
func (p *Pcf) MergedSize(from *Pcf) int {
	// union carries both symbol tables and both system lists, own only p's;
	// their difference is what from adds, on-demand export names included.
	union := &Pcf{Version: p.Version, Symbols: p.Symbols.Clone(), Root: Root{Attributes: dmx.NewAttributeMap()}}
	union.Root.Systems = append(append(union.Root.Systems, p.Root.Systems...), from.Root.Systems...)
	for _, s := range from.Symbols.Base.Iter() {
		union.Symbols.Base.Insert(s)
	}
	own := &Pcf{Version: p.Version, Symbols: p.Symbols, Root: Root{Systems: p.Root.Systems, Attributes: dmx.NewAttributeMap()}}
	n := p.EncodedSize() + union.EncodedSize() - own.EncodedSize()

	from.Root.Attributes.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
		str, _ := from.Symbols.Base.Get(name)
		if intoIdx, ok := p.Symbols.Base.IndexOf(str); ok {
			if _, present := p.Root.Attributes.Get(intoIdx); present {
				return
			}
		}
		n += attrEntryBytes(attr)
	})

	return n
}

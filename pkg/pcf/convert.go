package pcf

import "github.com/dresswithpockets/dazzle-core/pkg/dmx"

// FromDmx projects a decoded dmx.Dmx document into a typed Pcf. It checks
// the mandatory symbols, the root element's type and its
// particleSystemDefinitions list, the type of every referenced system and
// child element, each child's "child" link, each operator's functionName
// (and its type, when the DmeParticleOperator symbol is present), and
// rejects Element/ElementArray attributes on a system outside the seven
// reserved groups. Child and operator attributes are copied without a kind
// check, and a particleSystemDefinitions attribute on a non-root element is
// not looked for. Validation failures abort the whole import; the single
// exception is a DmeParticleChild whose "child" target is the NoElement
// sentinel, which is silently dropped.
func FromDmx(d *dmx.Dmx) (*Pcf, error) {
	if len(d.Elements) == 0 {
		return nil, ErrNoElements
	}

	symbols, err := newSymbolsFromDmx(d.Strings)
	if err != nil {
		return nil, err
	}

	rootEl := d.Elements[0]
	if rootEl.TypeIdx != symbols.element {
		return nil, ErrInvalidRootElement
	}

	defsAttr, ok := rootEl.Attributes.Get(symbols.particleSystemDefinitions)
	if !ok || defsAttr.Kind != dmx.KindElementArray {
		return nil, ErrMissingRootDefinitions
	}

	systemIndices := make(map[dmx.ElementIdx]int, len(defsAttr.ElementArray))
	systems := make([]ParticleSystem, 0, len(defsAttr.ElementArray))
	for newIdx, oldIdx := range defsAttr.ElementArray {
		if int(oldIdx) >= len(d.Elements) {
			return nil, ErrMissingParticleSystem
		}
		el := d.Elements[oldIdx]
		if el.TypeIdx != symbols.particleSystemDefinition {
			return nil, ErrInvalidParticleSystem
		}
		systemIndices[oldIdx] = newIdx
		systems = append(systems, ParticleSystem{
			Name:       el.Name,
			Signature:  el.Signature,
			Attributes: dmx.NewAttributeMap(),
		})
	}

	rootAttrs := dmx.NewAttributeMap()
	rootEl.Attributes.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
		if name == symbols.particleSystemDefinitions {
			return
		}
		rootAttrs.Set(name, attr)
	})

	for i, oldIdx := range defsAttr.ElementArray {
		el := d.Elements[oldIdx]
		sys := &systems[i]

		var convErr error
		el.Attributes.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
			if convErr != nil {
				return
			}
			switch {
			case matchesGroup(symbols.children, name):
				sys.Children, convErr = importChildren(d, attr, systemIndices, symbols)
			case matchesGroup(symbols.constraints, name):
				sys.Constraints, convErr = importOperators(d, attr, symbols)
			case matchesGroup(symbols.emitters, name):
				sys.Emitters, convErr = importOperators(d, attr, symbols)
			case matchesGroup(symbols.forces, name):
				sys.Forces, convErr = importOperators(d, attr, symbols)
			case matchesGroup(symbols.initializers, name):
				sys.Initializers, convErr = importOperators(d, attr, symbols)
			case matchesGroup(symbols.operators, name):
				sys.Operators, convErr = importOperators(d, attr, symbols)
			case matchesGroup(symbols.renderers, name):
				sys.Renderers, convErr = importOperators(d, attr, symbols)
			case attr.Kind == dmx.KindElement || attr.Kind == dmx.KindElementArray:
				convErr = ErrUnexpectedElementReference
			default:
				sys.Attributes.Set(name, attr)
			}
		})
		if convErr != nil {
			return nil, convErr
		}
	}

	return &Pcf{
		Version: d.Version,
		Symbols: symbols,
		Root: Root{
			Name:       rootEl.Name,
			Signature:  rootEl.Signature,
			Systems:    systems,
			Attributes: rootAttrs,
		},
	}, nil
}

func matchesGroup(ref symbolRef, name dmx.SymbolIdx) bool {
	idx, ok := ref.get()
	return ok && idx == name
}

func importChildren(d *dmx.Dmx, attr dmx.Attribute, systemIndices map[dmx.ElementIdx]int, symbols *Symbols) ([]Child, error) {
	if attr.Kind != dmx.KindElementArray {
		return nil, ErrUnexpectedElementReference
	}
	childIdx, haveChildSymbol := symbols.child.get()

	out := make([]Child, 0, len(attr.ElementArray))
	for _, oldIdx := range attr.ElementArray {
		if int(oldIdx) >= len(d.Elements) {
			return nil, ErrMissingParticleChild
		}
		el := d.Elements[oldIdx]
		if pcIdx, ok := symbols.particleChild.get(); !ok || el.TypeIdx != pcIdx {
			return nil, ErrInvalidParticleChild
		}

		var childAttr dmx.Attribute
		found := false
		if haveChildSymbol {
			childAttr, found = el.Attributes.Get(childIdx)
		}
		if !found || childAttr.Kind != dmx.KindElement {
			return nil, ErrMissingChild
		}
		if childAttr.Element == dmx.NoElement {
			continue
		}
		target, ok := systemIndices[childAttr.Element]
		if !ok {
			return nil, ErrMissingParticleSystem
		}

		attrs := dmx.NewAttributeMap()
		el.Attributes.Each(func(name dmx.SymbolIdx, a dmx.Attribute) {
			if name == childIdx {
				return
			}
			attrs.Set(name, a)
		})

		out = append(out, Child{
			Name:       el.Name,
			Signature:  el.Signature,
			Child:      target,
			Attributes: attrs,
		})
	}
	return out, nil
}

func importOperators(d *dmx.Dmx, attr dmx.Attribute, symbols *Symbols) ([]Operator, error) {
	if attr.Kind != dmx.KindElementArray {
		return nil, ErrUnexpectedElementReference
	}
	out := make([]Operator, 0, len(attr.ElementArray))
	for _, oldIdx := range attr.ElementArray {
		if int(oldIdx) >= len(d.Elements) {
			return nil, ErrMissingOperator
		}
		el := d.Elements[oldIdx]
		if popIdx, ok := symbols.particleOperator.get(); ok && el.TypeIdx != popIdx {
			return nil, ErrInvalidParticleOperator
		}

		fnIdx, ok := symbols.functionName.get()
		var fnAttr dmx.Attribute
		found := false
		if ok {
			fnAttr, found = el.Attributes.Get(fnIdx)
		}
		if !found || fnAttr.Kind != dmx.KindString {
			return nil, ErrMissingFunctionName
		}

		attrs := dmx.NewAttributeMap()
		el.Attributes.Each(func(name dmx.SymbolIdx, a dmx.Attribute) {
			if ok && name == fnIdx {
				return
			}
			attrs.Set(name, a)
		})

		out = append(out, Operator{
			Name:         el.Name,
			FunctionName: fnAttr.String,
			Signature:    el.Signature,
			Attributes:   attrs,
		})
	}
	return out, nil
}

// ToDmx exports a Pcf back into a generic dmx.Dmx document, laying out
// elements in the fixed order described in spec.md §4.4: root at 0, then
// every particle system, then — iterating systems in order — each
// system's children and six operator groups in that order.
func (p *Pcf) ToDmx() *dmx.Dmx {
	symbols := p.Symbols.Clone()
	elements := make([]dmx.Element, 1+len(p.Root.Systems))

	systemIdx := func(i int) dmx.ElementIdx { return dmx.ElementIdx(i + 1) }

	for i, sys := range p.Root.Systems {
		elements[systemIdx(i)] = dmx.NewElement(symbols.particleSystemDefinition, sys.Name, sys.Signature)
	}

	for i := range p.Root.Systems {
		sys := &p.Root.Systems[i]
		sysElIdx := systemIdx(i)

		var childIndices []dmx.ElementIdx
		for _, c := range sys.Children {
			el := dmx.NewElement(symbols.ensureParticleChild(), c.Name, c.Signature)
			c.Attributes.Each(func(name dmx.SymbolIdx, a dmx.Attribute) {
				el.Attributes.Set(name, a)
			})
			el.Attributes.Set(symbols.ensureChild(), dmx.NewElementAttr(systemIdx(c.Child)))
			elements = append(elements, el)
			childIndices = append(childIndices, dmx.ElementIdx(len(elements)-1))
		}

		groupIndices := make([][]dmx.ElementIdx, 6)
		for gi, groupPtr := range sys.operatorGroups() {
			for _, op := range *groupPtr {
				el := dmx.NewElement(symbols.ensureParticleOperator(), op.Name, op.Signature)
				op.Attributes.Each(func(name dmx.SymbolIdx, a dmx.Attribute) {
					el.Attributes.Set(name, a)
				})
				el.Attributes.Set(symbols.ensureFunctionName(), dmx.NewStringAttr(op.FunctionName))
				elements = append(elements, el)
				groupIndices[gi] = append(groupIndices[gi], dmx.ElementIdx(len(elements)-1))
			}
		}

		sysAttrs := sys.Attributes.Clone()
		if len(childIndices) > 0 {
			sysAttrs.Set(symbols.ensureGroupSymbol("children"), dmx.NewElementArrayAttr(childIndices))
		}
		names := operatorGroupNames()
		for gi, idxs := range groupIndices {
			if len(idxs) > 0 {
				sysAttrs.Set(symbols.ensureGroupSymbol(names[gi]), dmx.NewElementArrayAttr(idxs))
			}
		}
		elements[sysElIdx].Attributes = sysAttrs
	}

	rootAttrs := p.Root.Attributes.Clone()
	defs := make([]dmx.ElementIdx, len(p.Root.Systems))
	for i := range p.Root.Systems {
		defs[i] = systemIdx(i)
	}
	rootAttrs.Set(symbols.particleSystemDefinitions, dmx.NewElementArrayAttr(defs))
	elements[0] = dmx.NewElement(symbols.element, p.Root.Name, p.Root.Signature)
	elements[0].Attributes = rootAttrs

	return &dmx.Dmx{Version: p.Version, Strings: symbols.Base, Elements: elements}
}

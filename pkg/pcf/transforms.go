package pcf

import (
	"sort"

	"github.com/dresswithpockets/dazzle-core/pkg/dmx"
)

// ParticleDefaults maps a scalar attribute name to the value considered its
// default — used by DefaultsStripped/DefaultsStrippedNth to drop attributes
// that carry no information beyond what the game already assumes.
type ParticleDefaults map[string]dmx.Attribute

// OperatorDefaults maps an operator's functionName to its own
// ParticleDefaults, so that (for example) a fade-and-kill operator's
// defaults never get applied to an alpha-random operator's attribute of the
// same name.
type OperatorDefaults map[string]ParticleDefaults

func resolveParticleDefaults(symbols *Symbols, defaults ParticleDefaults) map[dmx.SymbolIdx]dmx.Attribute {
	out := make(map[dmx.SymbolIdx]dmx.Attribute, len(defaults))
	for name, attr := range defaults {
		if idx, ok := symbols.Base.IndexOf(name); ok {
			out[idx] = attr
		}
	}
	return out
}

func stripDefaultAttrs(attrs *dmx.AttributeMap, defaults map[dmx.SymbolIdx]dmx.Attribute) *dmx.AttributeMap {
	out := dmx.NewAttributeMap()
	attrs.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
		if def, ok := defaults[name]; ok && attr.Equal(def) {
			return
		}
		out.Set(name, attr)
	})
	return out
}

// DefaultsStripped returns a copy of p with every particle-system attribute
// matching particleDefaults, and every operator attribute matching the
// defaults table for its own functionName, removed. Every system is
// considered, regardless of position.
func (p *Pcf) DefaultsStripped(particleDefaults ParticleDefaults, operatorDefaults OperatorDefaults) *Pcf {
	out := p.Clone()

	resolvedParticle := resolveParticleDefaults(out.Symbols, particleDefaults)
	resolvedOperator := make(map[string]map[dmx.SymbolIdx]dmx.Attribute, len(operatorDefaults))
	for fn, defaults := range operatorDefaults {
		resolvedOperator[fn] = resolveParticleDefaults(out.Symbols, defaults)
	}

	stripOperator := func(o *Operator) {
		defaults, ok := resolvedOperator[o.FunctionName]
		if !ok {
			return
		}
		o.Attributes = stripDefaultAttrs(o.Attributes, defaults)
	}

	for i := range out.Root.Systems {
		sys := &out.Root.Systems[i]
		sys.Attributes = stripDefaultAttrs(sys.Attributes, resolvedParticle)
		for _, group := range sys.operatorGroups() {
			for j := range *group {
				stripOperator(&(*group)[j])
			}
		}
	}

	return out
}

// DefaultsStrippedNth is like DefaultsStripped, but only the first `to`
// systems are touched, and operatorDefaults is a single flat table applied
// uniformly to every operator regardless of its functionName.
func (p *Pcf) DefaultsStrippedNth(to int, particleDefaults ParticleDefaults, operatorDefaults ParticleDefaults) *Pcf {
	out := p.Clone()

	resolvedParticle := resolveParticleDefaults(out.Symbols, particleDefaults)
	resolvedOperator := resolveParticleDefaults(out.Symbols, operatorDefaults)

	for i := range out.Root.Systems {
		if i >= to {
			break
		}
		sys := &out.Root.Systems[i]
		sys.Attributes = stripDefaultAttrs(sys.Attributes, resolvedParticle)
		for _, group := range sys.operatorGroups() {
			for j := range *group {
				op := &(*group)[j]
				op.Attributes = stripDefaultAttrs(op.Attributes, resolvedOperator)
			}
		}
	}

	return out
}

// UnusedSymbolsStripped returns a copy of p whose symbol table contains
// only the names actually referenced — the three mandatory base symbols,
// every attribute name in use, and every reserved group/well-known symbol
// whose group is non-empty. Symbol order is preserved for the symbols that
// survive, and every attribute-name reference and cached well-known index
// is remapped to match.
func (p *Pcf) UnusedSymbolsStripped() *Pcf {
	out := p.Clone()

	used := map[dmx.SymbolIdx]bool{
		out.Symbols.element:                  true,
		out.Symbols.particleSystemDefinitions: true,
		out.Symbols.particleSystemDefinition:  true,
	}
	mark := func(attrs *dmx.AttributeMap) {
		attrs.Each(func(name dmx.SymbolIdx, _ dmx.Attribute) { used[name] = true })
	}

	mark(out.Root.Attributes)

	var hasChild, hasConstraint, hasEmitter, hasForce, hasInitializer, hasOperator, hasRenderer bool

	for i := range out.Root.Systems {
		sys := &out.Root.Systems[i]
		mark(sys.Attributes)

		if len(sys.Children) > 0 {
			hasChild = true
			for _, c := range sys.Children {
				mark(c.Attributes)
			}
		}
		if len(sys.Constraints) > 0 {
			hasConstraint = true
			for _, o := range sys.Constraints {
				mark(o.Attributes)
			}
		}
		if len(sys.Emitters) > 0 {
			hasEmitter = true
			for _, o := range sys.Emitters {
				mark(o.Attributes)
			}
		}
		if len(sys.Forces) > 0 {
			hasForce = true
			for _, o := range sys.Forces {
				mark(o.Attributes)
			}
		}
		if len(sys.Initializers) > 0 {
			hasInitializer = true
			for _, o := range sys.Initializers {
				mark(o.Attributes)
			}
		}
		if len(sys.Operators) > 0 {
			hasOperator = true
			for _, o := range sys.Operators {
				mark(o.Attributes)
			}
		}
		if len(sys.Renderers) > 0 {
			hasRenderer = true
			for _, o := range sys.Renderers {
				mark(o.Attributes)
			}
		}
	}

	markOptional := func(ref symbolRef) {
		if idx, ok := ref.get(); ok {
			used[idx] = true
		}
	}

	if hasChild {
		markOptional(out.Symbols.child)
		markOptional(out.Symbols.particleChild)
		markOptional(out.Symbols.children)
	}
	if hasConstraint || hasEmitter || hasForce || hasInitializer || hasOperator || hasRenderer {
		markOptional(out.Symbols.particleOperator)
		markOptional(out.Symbols.functionName)
	}
	if hasConstraint {
		markOptional(out.Symbols.constraints)
	}
	if hasEmitter {
		markOptional(out.Symbols.emitters)
	}
	if hasForce {
		markOptional(out.Symbols.forces)
	}
	if hasInitializer {
		markOptional(out.Symbols.initializers)
	}
	if hasOperator {
		markOptional(out.Symbols.operators)
	}
	if hasRenderer {
		markOptional(out.Symbols.renderers)
	}

	oldSymbols := out.Symbols.Base
	newBase := dmx.NewSymbols()
	oldToNew := make(map[dmx.SymbolIdx]dmx.SymbolIdx, oldSymbols.Len())
	for idx, s := range oldSymbols.Iter() {
		if !used[dmx.SymbolIdx(idx)] {
			continue
		}
		newIdx, _ := newBase.Insert(s)
		oldToNew[dmx.SymbolIdx(idx)] = newIdx
	}
	out.Symbols.Base = newBase

	remap := func(attrs *dmx.AttributeMap) *dmx.AttributeMap {
		remapped := dmx.NewAttributeMap()
		attrs.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
			newName, ok := oldToNew[name]
			if !ok {
				panic("🚫 attribute name index missing from compacted symbol table")
			}
			remapped.Set(newName, attr)
		})
		return remapped
	}
	remapOptional := func(r symbolRef) symbolRef {
		idx, ok := r.get()
		if !ok {
			return symbolRef{}
		}
		newIdx, ok := oldToNew[idx]
		if !ok {
			return symbolRef{}
		}
		return ref(newIdx)
	}

	out.Root.Attributes = remap(out.Root.Attributes)
	for i := range out.Root.Systems {
		sys := &out.Root.Systems[i]
		sys.Attributes = remap(sys.Attributes)
		for j := range sys.Children {
			sys.Children[j].Attributes = remap(sys.Children[j].Attributes)
		}
		for _, group := range sys.operatorGroups() {
			for j := range *group {
				(*group)[j].Attributes = remap((*group)[j].Attributes)
			}
		}
	}

	out.Symbols.element = oldToNew[out.Symbols.element]
	out.Symbols.particleSystemDefinitions = oldToNew[out.Symbols.particleSystemDefinitions]
	out.Symbols.particleSystemDefinition = oldToNew[out.Symbols.particleSystemDefinition]
	out.Symbols.particleChild = remapOptional(out.Symbols.particleChild)
	out.Symbols.particleOperator = remapOptional(out.Symbols.particleOperator)
	out.Symbols.functionName = remapOptional(out.Symbols.functionName)
	out.Symbols.children = remapOptional(out.Symbols.children)
	out.Symbols.constraints = remapOptional(out.Symbols.constraints)
	out.Symbols.emitters = remapOptional(out.Symbols.emitters)
	out.Symbols.forces = remapOptional(out.Symbols.forces)
	out.Symbols.initializers = remapOptional(out.Symbols.initializers)
	out.Symbols.operators = remapOptional(out.Symbols.operators)
	out.Symbols.renderers = remapOptional(out.Symbols.renderers)
	out.Symbols.child = remapOptional(out.Symbols.child)

	return out
}

// IntoConnected splits p into one Pcf per connected component of its
// Child-reference graph (undirected), each stripped of unused symbols.
// Components are ordered by the smallest original system index they
// contain; systems within a component keep ascending original-index order.
// Every ParticleSystem from p appears in exactly one output Pcf.
func (p *Pcf) IntoConnected() []*Pcf {
	n := len(p.Root.Systems)
	adj := make([][]int, n)
	for i := range p.Root.Systems {
		for _, c := range p.Root.Systems[i].Children {
			adj[i] = append(adj[i], c.Child)
			adj[c.Child] = append(adj[c.Child], i)
		}
	}

	visited := make([]bool, n)
	var components [][]int
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var component []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}

	out := make([]*Pcf, 0, len(components))
	for _, component := range components {
		oldToNew := make(map[int]int, len(component))
		for newIdx, oldIdx := range component {
			oldToNew[oldIdx] = newIdx
		}

		systems := make([]ParticleSystem, len(component))
		for newIdx, oldIdx := range component {
			sys := p.Root.Systems[oldIdx].clone()
			for j := range sys.Children {
				sys.Children[j].Child = oldToNew[sys.Children[j].Child]
			}
			systems[newIdx] = sys
		}

		group := &Pcf{
			Version: p.Version,
			Symbols: p.Symbols.Clone(),
			Root: Root{
				Name:       p.Root.Name,
				Signature:  p.Root.Signature,
				Systems:    systems,
				Attributes: p.Root.Attributes.Clone(),
			},
		}
		out = append(out, group.UnusedSymbolsStripped())
	}

	return out
}

// MergeInto merges from into p in place: it computes p.Merge(from) and, on
// success, replaces *p with the result.
func (p *Pcf) MergeInto(from *Pcf) error {
	merged, err := p.Merge(from)
	if err != nil {
		return err
	}
	*p = *merged
	return nil
}

// Merge returns a new Pcf combining p and from: a unified symbol table
// (preserving p's existing indices and appending from's new strings),
// p's systems followed by from's systems (with Child.Child indices and
// every attribute name remapped), and from's root attributes added only
// where p's root doesn't already define that name. p and from must share
// a DMX version or ErrVersionMismatch is returned.
//
// EncodedSize(Merge(p, from)) always equals p.MergedSize(from).
func (p *Pcf) Merge(from *Pcf) (*Pcf, error) {
	if p.Version != from.Version {
		return nil, &ErrVersionMismatch{Into: p.Version, From: from.Version}
	}

	base := p.Symbols.Base.Clone()
	oldToNew := make(map[dmx.SymbolIdx]dmx.SymbolIdx, from.Symbols.Base.Len())
	for idx, s := range from.Symbols.Base.Iter() {
		newIdx, _ := base.Insert(s)
		oldToNew[dmx.SymbolIdx(idx)] = newIdx
	}

	symbols := &Symbols{Base: base}
	resolve := func(name string) (dmx.SymbolIdx, bool) { return base.IndexOf(name) }
	if idx, ok := resolve("DmElement"); ok {
		symbols.element = idx
	} else if idx, ok := resolve("DmeElement"); ok {
		symbols.element = idx
	}
	symbols.particleSystemDefinitions, _ = resolve("particleSystemDefinitions")
	symbols.particleSystemDefinition, _ = resolve("DmeParticleSystemDefinition")
	if idx, ok := resolve("DmeParticleChild"); ok {
		symbols.particleChild = ref(idx)
	}
	if idx, ok := resolve("DmeParticleOperator"); ok {
		symbols.particleOperator = ref(idx)
	}
	if idx, ok := resolve("functionName"); ok {
		symbols.functionName = ref(idx)
	}
	if idx, ok := resolve("children"); ok {
		symbols.children = ref(idx)
	}
	if idx, ok := resolve("constraints"); ok {
		symbols.constraints = ref(idx)
	}
	if idx, ok := resolve("emitters"); ok {
		symbols.emitters = ref(idx)
	}
	if idx, ok := resolve("forces"); ok {
		symbols.forces = ref(idx)
	}
	if idx, ok := resolve("initializers"); ok {
		symbols.initializers = ref(idx)
	}
	if idx, ok := resolve("operators"); ok {
		symbols.operators = ref(idx)
	}
	if idx, ok := resolve("renderers"); ok {
		symbols.renderers = ref(idx)
	}
	if idx, ok := resolve("child"); ok {
		symbols.child = ref(idx)
	}

	remap := func(attrs *dmx.AttributeMap) *dmx.AttributeMap {
		out := dmx.NewAttributeMap()
		attrs.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
			newName, ok := oldToNew[name]
			if !ok {
				panic("🚫 attribute name index missing from merged symbol table")
			}
			out.Set(newName, attr)
		})
		return out
	}

	rootAttrs := p.Root.Attributes.Clone()
	from.Root.Attributes.Each(func(name dmx.SymbolIdx, attr dmx.Attribute) {
		newName := oldToNew[name]
		if _, present := rootAttrs.Get(newName); present {
			return
		}
		rootAttrs.Set(newName, attr)
	})

	offset := len(p.Root.Systems)
	systems := make([]ParticleSystem, 0, len(p.Root.Systems)+len(from.Root.Systems))
	for i := range p.Root.Systems {
		systems = append(systems, p.Root.Systems[i].clone())
	}
	for i := range from.Root.Systems {
		sys := from.Root.Systems[i].clone()
		sys.Attributes = remap(sys.Attributes)
		for j := range sys.Children {
			sys.Children[j].Child += offset
			sys.Children[j].Attributes = remap(sys.Children[j].Attributes)
		}
		for _, group := range sys.operatorGroups() {
			for j := range *group {
				(*group)[j].Attributes = remap((*group)[j].Attributes)
			}
		}
		systems = append(systems, sys)
	}

	return &Pcf{
		Version: p.Version,
		Symbols: symbols,
		Root: Root{
			Name:       p.Root.Name,
			Signature:  p.Root.Signature,
			Systems:    systems,
			Attributes: rootAttrs,
		},
	}, nil
}

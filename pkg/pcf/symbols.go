package pcf

import "github.com/dresswithpockets/dazzle-core/pkg/dmx"

// symbolRef is an optional cached symbol index: the zero value means "not
// yet assigned" and is distinguished from index 0 via the ok flag.
type symbolRef struct {
	idx SymbolIdx
	ok  bool
}

func (r symbolRef) get() (SymbolIdx, bool) { return r.idx, r.ok }

func ref(idx SymbolIdx) symbolRef { return symbolRef{idx: idx, ok: true} }

// SymbolIdx is re-exported from dmx for callers that only import pcf.
type SymbolIdx = dmx.SymbolIdx

// Symbols mirrors dmx.Symbols but additionally caches the well-known
// indices a PCF relies on, so that later operations never need to resolve
// a well-known name by string comparison again.
type Symbols struct {
	Base *dmx.Symbols

	element                     SymbolIdx
	particleSystemDefinitions   SymbolIdx
	particleSystemDefinition    SymbolIdx
	particleChild               symbolRef
	particleOperator            symbolRef
	functionName                symbolRef
	children                    symbolRef
	constraints                 symbolRef
	emitters                    symbolRef
	forces                      symbolRef
	initializers                symbolRef
	operators                   symbolRef
	renderers                   symbolRef
	child                       symbolRef
}

// reservedGroupNames names the seven reserved ElementArray attributes a
// particle system may carry, in the order they are laid out during export
// (spec §4.4).
var reservedGroupNames = []string{
	"children", "constraints", "emitters", "forces", "initializers", "operators", "renderers",
}

// newSymbolsFromDmx resolves the mandatory and optional well-known symbols
// out of an already-decoded dmx.Symbols table, failing if any mandatory
// name is absent. "DmElement" and its legacy alias "DmeElement" are both
// accepted for the element-type symbol.
func newSymbolsFromDmx(base *dmx.Symbols) (*Symbols, error) {
	s := &Symbols{Base: base}

	if idx, ok := base.IndexOf("DmElement"); ok {
		s.element = idx
	} else if idx, ok := base.IndexOf("DmeElement"); ok {
		s.element = idx
	} else {
		return nil, ErrMissingDatamodelElementString
	}

	idx, ok := base.IndexOf("particleSystemDefinitions")
	if !ok {
		return nil, ErrMissingRootDefinitionString
	}
	s.particleSystemDefinitions = idx

	idx, ok = base.IndexOf("DmeParticleSystemDefinition")
	if !ok {
		return nil, ErrMissingSystemDefinitionString
	}
	s.particleSystemDefinition = idx

	if idx, ok := base.IndexOf("DmeParticleChild"); ok {
		s.particleChild = ref(idx)
	}
	if idx, ok := base.IndexOf("DmeParticleOperator"); ok {
		s.particleOperator = ref(idx)
	}
	if idx, ok := base.IndexOf("functionName"); ok {
		s.functionName = ref(idx)
	}
	if idx, ok := base.IndexOf("children"); ok {
		s.children = ref(idx)
	}
	if idx, ok := base.IndexOf("constraints"); ok {
		s.constraints = ref(idx)
	}
	if idx, ok := base.IndexOf("emitters"); ok {
		s.emitters = ref(idx)
	}
	if idx, ok := base.IndexOf("forces"); ok {
		s.forces = ref(idx)
	}
	if idx, ok := base.IndexOf("initializers"); ok {
		s.initializers = ref(idx)
	}
	if idx, ok := base.IndexOf("operators"); ok {
		s.operators = ref(idx)
	}
	if idx, ok := base.IndexOf("renderers"); ok {
		s.renderers = ref(idx)
	}
	if idx, ok := base.IndexOf("child"); ok {
		s.child = ref(idx)
	}

	return s, nil
}

// newDefaultSymbols builds a fresh symbol table with only the three
// mandatory base symbols inserted, used when constructing an empty PCF
// (e.g. a bin-packer seed) from scratch.
func newDefaultSymbols() *Symbols {
	base := dmx.NewSymbols()
	s := &Symbols{Base: base}
	s.element, _ = base.Insert("DmElement")
	s.particleSystemDefinitions, _ = base.Insert("particleSystemDefinitions")
	s.particleSystemDefinition, _ = base.Insert("DmeParticleSystemDefinition")
	return s
}

// groupSymbol returns the cached index for one of the seven reserved
// group names together with a pointer to its cache slot; an uncached name
// comes back unset (inserting the literal name is only done by the export
// path, via ensureGroupSymbol below).
func (s *Symbols) groupSymbol(name string) (symbolRef, *symbolRef) {
	switch name {
	case "children":
		return s.children, &s.children
	case "constraints":
		return s.constraints, &s.constraints
	case "emitters":
		return s.emitters, &s.emitters
	case "forces":
		return s.forces, &s.forces
	case "initializers":
		return s.initializers, &s.initializers
	case "renderers":
		return s.renderers, &s.renderers
	case "operators":
		return s.operators, &s.operators
	default:
		return symbolRef{}, nil
	}
}

// ensureGroupSymbol inserts the literal group name if it is not already
// cached, and returns its index. Used on export, when a previously-empty
// group becomes non-empty and needs a symbol to reference it by.
func (s *Symbols) ensureGroupSymbol(name string) SymbolIdx {
	_, slot := s.groupSymbol(name)
	if idx, ok := slot.get(); ok {
		return idx
	}
	idx, _ := s.Base.Insert(name)
	*slot = ref(idx)
	return idx
}

func (s *Symbols) ensureParticleChild() SymbolIdx {
	if idx, ok := s.particleChild.get(); ok {
		return idx
	}
	idx, _ := s.Base.Insert("DmeParticleChild")
	s.particleChild = ref(idx)
	return idx
}

func (s *Symbols) ensureParticleOperator() SymbolIdx {
	if idx, ok := s.particleOperator.get(); ok {
		return idx
	}
	idx, _ := s.Base.Insert("DmeParticleOperator")
	s.particleOperator = ref(idx)
	return idx
}

func (s *Symbols) ensureFunctionName() SymbolIdx {
	if idx, ok := s.functionName.get(); ok {
		return idx
	}
	idx, _ := s.Base.Insert("functionName")
	s.functionName = ref(idx)
	return idx
}

func (s *Symbols) ensureChild() SymbolIdx {
	if idx, ok := s.child.get(); ok {
		return idx
	}
	idx, _ := s.Base.Insert("child")
	s.child = ref(idx)
	return idx
}

// Clone returns a deep, independent copy.
func (s *Symbols) Clone() *Symbols {
	out := *s
	out.Base = s.Base.Clone()
	return &out
}

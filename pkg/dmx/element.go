package dmx

// AttributeMap is an insertion-ordered map from a symbol index to an
// Attribute. Order is part of the wire contract: encoding an element writes
// attributes back out in insertion order.
type AttributeMap struct {
	keys   []SymbolIdx
	values map[SymbolIdx]Attribute
}

// NewAttributeMap returns an empty, ready-to-use AttributeMap.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{values: make(map[SymbolIdx]Attribute)}
}

// Set inserts or overwrites the value for key, preserving the original
// insertion position on overwrite.
func (m *AttributeMap) Set(key SymbolIdx, val Attribute) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value for key, if present.
func (m *AttributeMap) Get(key SymbolIdx) (Attribute, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, if present, preserving order of the rest.
func (m *AttributeMap) Delete(key SymbolIdx) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *AttributeMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. Callers must not mutate it.
func (m *AttributeMap) Keys() []SymbolIdx {
	return m.keys
}

// Each calls fn for every entry, in insertion order.
func (m *AttributeMap) Each(fn func(key SymbolIdx, val Attribute)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a deep, independent copy.
func (m *AttributeMap) Clone() *AttributeMap {
	out := &AttributeMap{
		keys:   append([]SymbolIdx(nil), m.keys...),
		values: make(map[SymbolIdx]Attribute, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Element is one record in a Dmx's element table.
type Element struct {
	TypeIdx    SymbolIdx
	Name       string
	Signature  Signature
	Attributes *AttributeMap
}

// NewElement returns an Element with an empty attribute map.
func NewElement(typeIdx SymbolIdx, name string, signature Signature) Element {
	return Element{TypeIdx: typeIdx, Name: name, Signature: signature, Attributes: NewAttributeMap()}
}

// EncodedSize is the byte length of this element's {typeIdx, name,
// signature} record in the element table, not counting its attribute block.
func (e Element) EncodedSize() int {
	return 2 + len(e.Name) + 1 + 16
}

package dmx

// SymbolIdx is a zero-based, wire-stable index into a Symbols table.
type SymbolIdx uint16

// Symbols is an insertion-ordered set of short byte strings. It behaves like
// an ordered hash set: inserting an existing string returns its existing
// index, and iteration yields strings in insertion order.
type Symbols struct {
	strings []string
	index   map[string]SymbolIdx
}

// NewSymbols returns an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{index: make(map[string]SymbolIdx)}
}

// Insert adds s if it is not already present, returning its index and
// whether it was newly added.
func (s *Symbols) Insert(str string) (SymbolIdx, bool) {
	if idx, ok := s.index[str]; ok {
		return idx, false
	}
	idx := SymbolIdx(len(s.strings))
	s.strings = append(s.strings, str)
	s.index[str] = idx
	return idx, true
}

// IndexOf returns the index of str, if present.
func (s *Symbols) IndexOf(str string) (SymbolIdx, bool) {
	idx, ok := s.index[str]
	return idx, ok
}

// Get returns the string at idx, if in range.
func (s *Symbols) Get(idx SymbolIdx) (string, bool) {
	if int(idx) >= len(s.strings) {
		return "", false
	}
	return s.strings[idx], true
}

// Len returns the number of symbols in the table.
func (s *Symbols) Len() int {
	return len(s.strings)
}

// Iter returns the symbols in insertion order. Callers must not mutate the
// returned slice.
func (s *Symbols) Iter() []string {
	return s.strings
}

// Clone returns a deep, independent copy.
func (s *Symbols) Clone() *Symbols {
	out := &Symbols{
		strings: append([]string(nil), s.strings...),
		index:   make(map[string]SymbolIdx, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

// EncodedSize is the on-wire byte length of the symbol block: a 16-bit count
// followed by every symbol's NUL-terminated bytes.
func (s *Symbols) EncodedSize() int {
	n := 2
	for _, str := range s.strings {
		n += len(str) + 1
	}
	return n
}

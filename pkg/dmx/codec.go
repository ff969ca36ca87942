package dmx

import (
	"bufio"
	"io"

	"github.com/hashicorp/go-hclog"
)

// Dmx is a decoded DMX binary document: a version, a symbol table, and a
// flat element table. This is the generic container C4 (the PCF package)
// builds its typed view on top of.
type Dmx struct {
	Version  Version
	Strings  *Symbols
	Elements []Element
}

// Decode reads one complete DMX document from r: the version magic, the
// symbol table, the element table, then the attribute block, in that exact
// order. logger may be nil.
func Decode(r io.Reader, logger hclog.Logger) (*Dmx, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	br := bufio.NewReader(r)

	magicStr, err := readCString(br)
	if err != nil {
		return nil, err
	}
	version, err := ParseVersion(append([]byte(magicStr), 0))
	if err != nil {
		return nil, err
	}
	logger.Trace("📖 read dmx version magic", "version", version.String())

	symbolCount, err := readU16(br)
	if err != nil {
		return nil, ErrTruncated
	}
	symbols := NewSymbols()
	for i := uint16(0); i < symbolCount; i++ {
		s, err := readCString(br)
		if err != nil {
			return nil, err
		}
		symbols.Insert(s)
	}
	logger.Trace("📖 read symbol table", "count", symbols.Len())

	elementCount, err := readU32(br)
	if err != nil {
		return nil, ErrTruncated
	}
	elements := make([]Element, elementCount)
	for i := range elements {
		typeIdx, err := readU16(br)
		if err != nil {
			return nil, ErrTruncated
		}
		name, err := readCString(br)
		if err != nil {
			return nil, err
		}
		var sig Signature
		if _, err := io.ReadFull(br, sig[:]); err != nil {
			return nil, ErrTruncated
		}
		elements[i] = NewElement(SymbolIdx(typeIdx), name, sig)
	}
	logger.Trace("📖 read element table", "count", len(elements))

	for i := range elements {
		attrCount, err := readU32(br)
		if err != nil {
			return nil, ErrTruncated
		}
		for j := uint32(0); j < attrCount; j++ {
			nameIdx, err := readU16(br)
			if err != nil {
				return nil, ErrTruncated
			}
			typeCode, err := readU8(br)
			if err != nil {
				return nil, ErrTruncated
			}
			kind := Kind(typeCode)
			if !kind.valid() {
				return nil, ErrUnknownAttribute
			}
			attr, err := readAttribute(br, kind)
			if err != nil {
				return nil, err
			}
			elements[i].Attributes.Set(SymbolIdx(nameIdx), attr)
		}
	}
	logger.Debug("📦 decoded dmx document", "elements", len(elements), "symbols", symbols.Len())

	return &Dmx{Version: version, Strings: symbols, Elements: elements}, nil
}

// Encode writes this document back out: version magic, symbols in insertion
// order, elements in stored index order, then each element's attribute
// block in stored insertion order.
func (d *Dmx) Encode(w io.Writer) error {
	if _, err := w.Write(d.Version.Magic()); err != nil {
		return err
	}

	if err := writeU16(w, uint16(d.Strings.Len())); err != nil {
		return err
	}
	for _, s := range d.Strings.Iter() {
		if err := writeCString(w, s); err != nil {
			return err
		}
	}

	if err := writeU32(w, uint32(len(d.Elements))); err != nil {
		return err
	}
	for _, el := range d.Elements {
		if err := writeU16(w, uint16(el.TypeIdx)); err != nil {
			return err
		}
		if err := writeCString(w, el.Name); err != nil {
			return err
		}
		if _, err := w.Write(el.Signature[:]); err != nil {
			return err
		}
	}

	for _, el := range d.Elements {
		if err := writeU32(w, uint32(el.Attributes.Len())); err != nil {
			return err
		}
		var writeErr error
		el.Attributes.Each(func(nameIdx SymbolIdx, attr Attribute) {
			if writeErr != nil {
				return
			}
			if err := writeU16(w, uint16(nameIdx)); err != nil {
				writeErr = err
				return
			}
			if err := writeU8(w, uint8(attr.Kind)); err != nil {
				writeErr = err
				return
			}
			writeErr = writeAttribute(w, attr)
		})
		if writeErr != nil {
			return writeErr
		}
	}

	return nil
}

// EncodedSize is the exact byte length Encode would produce, computed
// without encoding — the DMX-level counterpart of the size predictor in
// C6. The PCF package computes its own sizes from its typed model and does
// not call this.
func (d *Dmx) EncodedSize() int {
	n := len(d.Version.Magic())
	n += d.Strings.EncodedSize()
	n += 4
	for _, el := range d.Elements {
		n += el.EncodedSize()
	}
	for _, el := range d.Elements {
		n += 4
		el.Attributes.Each(func(_ SymbolIdx, attr Attribute) {
			n += 2 + 1 + attr.EncodedSize()
		})
	}
	return n
}

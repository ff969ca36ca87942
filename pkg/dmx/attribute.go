package dmx

import (
	"bufio"
	"io"
)

// Attribute is a tagged union over the 22 DMX attribute kinds. Exactly one
// field is meaningful at a time, selected by Kind — Go has no sum types, so
// this mirrors the "single discriminated union with per-variant read/write/
// size" option called out for any target language: one field per variant
// keeps equality and encoding straightforward without a type-switch over an
// interface for every scalar kind.
type Attribute struct {
	Kind Kind

	Element ElementIdx
	Integer int32
	Float   float32
	Bool    bool
	String  string
	Binary  []byte
	Color   Color
	Vector2 Vector2
	Vector3 Vector3
	Vector4 Vector4
	Matrix  Matrix

	ElementArray []ElementIdx
	IntegerArray []int32
	FloatArray   []float32
	BoolArray    []bool
	StringArray  []string
	BinaryArray  [][]byte
	ColorArray   []Color
	Vector2Array []Vector2
	Vector3Array []Vector3
	Vector4Array []Vector4
	MatrixArray  []Matrix
}

func NewElementAttr(idx ElementIdx) Attribute      { return Attribute{Kind: KindElement, Element: idx} }
func NewIntegerAttr(v int32) Attribute             { return Attribute{Kind: KindInteger, Integer: v} }
func NewFloatAttr(v float32) Attribute              { return Attribute{Kind: KindFloat, Float: v} }
func NewBoolAttr(v bool) Attribute                  { return Attribute{Kind: KindBool, Bool: v} }
func NewStringAttr(v string) Attribute              { return Attribute{Kind: KindString, String: v} }
func NewBinaryAttr(v []byte) Attribute              { return Attribute{Kind: KindBinary, Binary: v} }
func NewColorAttr(v Color) Attribute                { return Attribute{Kind: KindColor, Color: v} }
func NewVector2Attr(v Vector2) Attribute            { return Attribute{Kind: KindVector2, Vector2: v} }
func NewVector3Attr(v Vector3) Attribute            { return Attribute{Kind: KindVector3, Vector3: v} }
func NewVector4Attr(v Vector4) Attribute            { return Attribute{Kind: KindVector4, Vector4: v} }
func NewMatrixAttr(v Matrix) Attribute              { return Attribute{Kind: KindMatrix, Matrix: v} }
func NewElementArrayAttr(v []ElementIdx) Attribute  { return Attribute{Kind: KindElementArray, ElementArray: v} }
func NewIntegerArrayAttr(v []int32) Attribute       { return Attribute{Kind: KindIntegerArray, IntegerArray: v} }
func NewFloatArrayAttr(v []float32) Attribute       { return Attribute{Kind: KindFloatArray, FloatArray: v} }
func NewBoolArrayAttr(v []bool) Attribute           { return Attribute{Kind: KindBoolArray, BoolArray: v} }
func NewStringArrayAttr(v []string) Attribute       { return Attribute{Kind: KindStringArray, StringArray: v} }
func NewBinaryArrayAttr(v [][]byte) Attribute       { return Attribute{Kind: KindBinaryArray, BinaryArray: v} }
func NewColorArrayAttr(v []Color) Attribute         { return Attribute{Kind: KindColorArray, ColorArray: v} }
func NewVector2ArrayAttr(v []Vector2) Attribute     { return Attribute{Kind: KindVector2Array, Vector2Array: v} }
func NewVector3ArrayAttr(v []Vector3) Attribute     { return Attribute{Kind: KindVector3Array, Vector3Array: v} }
func NewVector4ArrayAttr(v []Vector4) Attribute     { return Attribute{Kind: KindVector4Array, Vector4Array: v} }
func NewMatrixArrayAttr(v []Matrix) Attribute       { return Attribute{Kind: KindMatrixArray, MatrixArray: v} }

// scalarEncodedSize is the fixed or variable byte length of one value of
// the given scalar (non-array) kind.
func scalarEncodedSize(kind Kind, a *Attribute, i int) int {
	switch kind {
	case KindElement:
		return 4
	case KindInteger:
		return 4
	case KindFloat:
		return 4
	case KindBool:
		return 1
	case KindString:
		if i >= 0 {
			return len(a.StringArray[i]) + 1
		}
		return len(a.String) + 1
	case KindBinary:
		if i >= 0 {
			return 4 + len(a.BinaryArray[i])
		}
		return 4 + len(a.Binary)
	case KindColor:
		return 4
	case KindVector2:
		return 8
	case KindVector3:
		return 12
	case KindVector4:
		return 16
	case KindMatrix:
		return 64
	default:
		return 0
	}
}

// EncodedSize is the number of bytes this attribute's payload occupies on
// the wire, not counting the {nameIdx, typeCode} header that precedes it.
func (a Attribute) EncodedSize() int {
	switch a.Kind {
	case KindElement, KindInteger, KindFloat, KindBool, KindString, KindBinary,
		KindColor, KindVector2, KindVector3, KindVector4, KindMatrix:
		return scalarEncodedSize(a.Kind, &a, -1)
	case KindElementArray:
		return 4 + 4*len(a.ElementArray)
	case KindIntegerArray:
		return 4 + 4*len(a.IntegerArray)
	case KindFloatArray:
		return 4 + 4*len(a.FloatArray)
	case KindBoolArray:
		return 4 + len(a.BoolArray)
	case KindStringArray:
		n := 4
		for _, s := range a.StringArray {
			n += len(s) + 1
		}
		return n
	case KindBinaryArray:
		n := 4
		for _, b := range a.BinaryArray {
			n += 4 + len(b)
		}
		return n
	case KindColorArray:
		return 4 + 4*len(a.ColorArray)
	case KindVector2Array:
		return 4 + 8*len(a.Vector2Array)
	case KindVector3Array:
		return 4 + 12*len(a.Vector3Array)
	case KindVector4Array:
		return 4 + 16*len(a.Vector4Array)
	case KindMatrixArray:
		return 4 + 64*len(a.MatrixArray)
	default:
		return 0
	}
}

// Equal is structural equality; float comparisons are bit-exact so that two
// NaNs with the same payload compare equal.
func (a Attribute) Equal(b Attribute) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindElement:
		return a.Element == b.Element
	case KindInteger:
		return a.Integer == b.Integer
	case KindFloat:
		return floatBitsEqual(a.Float, b.Float)
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.String == b.String
	case KindBinary:
		return bytesEqual(a.Binary, b.Binary)
	case KindColor:
		return a.Color == b.Color
	case KindVector2:
		return vec2Equal(a.Vector2, b.Vector2)
	case KindVector3:
		return vec3Equal(a.Vector3, b.Vector3)
	case KindVector4:
		return vec4Equal(a.Vector4, b.Vector4)
	case KindMatrix:
		return matrixEqual(a.Matrix, b.Matrix)
	case KindElementArray:
		return elementIdxSliceEqual(a.ElementArray, b.ElementArray)
	case KindIntegerArray:
		return int32SliceEqual(a.IntegerArray, b.IntegerArray)
	case KindFloatArray:
		if len(a.FloatArray) != len(b.FloatArray) {
			return false
		}
		for i := range a.FloatArray {
			if !floatBitsEqual(a.FloatArray[i], b.FloatArray[i]) {
				return false
			}
		}
		return true
	case KindBoolArray:
		if len(a.BoolArray) != len(b.BoolArray) {
			return false
		}
		for i := range a.BoolArray {
			if a.BoolArray[i] != b.BoolArray[i] {
				return false
			}
		}
		return true
	case KindStringArray:
		if len(a.StringArray) != len(b.StringArray) {
			return false
		}
		for i := range a.StringArray {
			if a.StringArray[i] != b.StringArray[i] {
				return false
			}
		}
		return true
	case KindBinaryArray:
		if len(a.BinaryArray) != len(b.BinaryArray) {
			return false
		}
		for i := range a.BinaryArray {
			if !bytesEqual(a.BinaryArray[i], b.BinaryArray[i]) {
				return false
			}
		}
		return true
	case KindColorArray:
		if len(a.ColorArray) != len(b.ColorArray) {
			return false
		}
		for i := range a.ColorArray {
			if a.ColorArray[i] != b.ColorArray[i] {
				return false
			}
		}
		return true
	case KindVector2Array:
		if len(a.Vector2Array) != len(b.Vector2Array) {
			return false
		}
		for i := range a.Vector2Array {
			if !vec2Equal(a.Vector2Array[i], b.Vector2Array[i]) {
				return false
			}
		}
		return true
	case KindVector3Array:
		if len(a.Vector3Array) != len(b.Vector3Array) {
			return false
		}
		for i := range a.Vector3Array {
			if !vec3Equal(a.Vector3Array[i], b.Vector3Array[i]) {
				return false
			}
		}
		return true
	case KindVector4Array:
		if len(a.Vector4Array) != len(b.Vector4Array) {
			return false
		}
		for i := range a.Vector4Array {
			if !vec4Equal(a.Vector4Array[i], b.Vector4Array[i]) {
				return false
			}
		}
		return true
	case KindMatrixArray:
		if len(a.MatrixArray) != len(b.MatrixArray) {
			return false
		}
		for i := range a.MatrixArray {
			if !matrixEqual(a.MatrixArray[i], b.MatrixArray[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func elementIdxSliceEqual(a, b []ElementIdx) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int32SliceEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// readAttribute reads one {nameIdx, typeCode, payload} record, already past
// the nameIdx/typeCode which the caller has read in order to know which kind
// to dispatch to.
func readAttribute(r *bufio.Reader, kind Kind) (Attribute, error) {
	switch kind {
	case KindElement:
		v, err := readU32(r)
		return Attribute{Kind: kind, Element: ElementIdx(v)}, err
	case KindInteger:
		v, err := readI32(r)
		return Attribute{Kind: kind, Integer: v}, err
	case KindFloat:
		v, err := readF32(r)
		return Attribute{Kind: kind, Float: v}, err
	case KindBool:
		v, err := readU8(r)
		return Attribute{Kind: kind, Bool: v != 0}, err
	case KindString:
		v, err := readCString(r)
		return Attribute{Kind: kind, String: v}, err
	case KindBinary:
		v, err := readBinary(r)
		return Attribute{Kind: kind, Binary: v}, err
	case KindColor:
		v, err := readColor(r)
		return Attribute{Kind: kind, Color: v}, err
	case KindVector2:
		v, err := readVector2(r)
		return Attribute{Kind: kind, Vector2: v}, err
	case KindVector3:
		v, err := readVector3(r)
		return Attribute{Kind: kind, Vector3: v}, err
	case KindVector4:
		v, err := readVector4(r)
		return Attribute{Kind: kind, Vector4: v}, err
	case KindMatrix:
		v, err := readMatrix(r)
		return Attribute{Kind: kind, Matrix: v}, err
	case KindElementArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]ElementIdx, count)
		for i := range out {
			v, err := readU32(r)
			if err != nil {
				return Attribute{}, err
			}
			out[i] = ElementIdx(v)
		}
		return Attribute{Kind: kind, ElementArray: out}, nil
	case KindIntegerArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]int32, count)
		for i := range out {
			if out[i], err = readI32(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, IntegerArray: out}, nil
	case KindFloatArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]float32, count)
		for i := range out {
			if out[i], err = readF32(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, FloatArray: out}, nil
	case KindBoolArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]bool, count)
		for i := range out {
			b, err := readU8(r)
			if err != nil {
				return Attribute{}, err
			}
			out[i] = b != 0
		}
		return Attribute{Kind: kind, BoolArray: out}, nil
	case KindStringArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]string, count)
		for i := range out {
			if out[i], err = readCString(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, StringArray: out}, nil
	case KindBinaryArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([][]byte, count)
		for i := range out {
			if out[i], err = readBinary(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, BinaryArray: out}, nil
	case KindColorArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]Color, count)
		for i := range out {
			if out[i], err = readColor(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, ColorArray: out}, nil
	case KindVector2Array:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]Vector2, count)
		for i := range out {
			if out[i], err = readVector2(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, Vector2Array: out}, nil
	case KindVector3Array:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]Vector3, count)
		for i := range out {
			if out[i], err = readVector3(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, Vector3Array: out}, nil
	case KindVector4Array:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]Vector4, count)
		for i := range out {
			if out[i], err = readVector4(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, Vector4Array: out}, nil
	case KindMatrixArray:
		count, err := readU32(r)
		if err != nil {
			return Attribute{}, err
		}
		out := make([]Matrix, count)
		for i := range out {
			if out[i], err = readMatrix(r); err != nil {
				return Attribute{}, err
			}
		}
		return Attribute{Kind: kind, MatrixArray: out}, nil
	default:
		return Attribute{}, ErrUnknownAttribute
	}
}

func writeAttribute(w io.Writer, a Attribute) error {
	switch a.Kind {
	case KindElement:
		return writeU32(w, uint32(a.Element))
	case KindInteger:
		return writeI32(w, a.Integer)
	case KindFloat:
		return writeF32(w, a.Float)
	case KindBool:
		if a.Bool {
			return writeU8(w, 1)
		}
		return writeU8(w, 0)
	case KindString:
		return writeCString(w, a.String)
	case KindBinary:
		return writeBinary(w, a.Binary)
	case KindColor:
		return writeColor(w, a.Color)
	case KindVector2:
		return writeVector2(w, a.Vector2)
	case KindVector3:
		return writeVector3(w, a.Vector3)
	case KindVector4:
		return writeVector4(w, a.Vector4)
	case KindMatrix:
		return writeMatrix(w, a.Matrix)
	case KindElementArray:
		if err := writeU32(w, uint32(len(a.ElementArray))); err != nil {
			return err
		}
		for _, v := range a.ElementArray {
			if err := writeU32(w, uint32(v)); err != nil {
				return err
			}
		}
		return nil
	case KindIntegerArray:
		if err := writeU32(w, uint32(len(a.IntegerArray))); err != nil {
			return err
		}
		for _, v := range a.IntegerArray {
			if err := writeI32(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindFloatArray:
		if err := writeU32(w, uint32(len(a.FloatArray))); err != nil {
			return err
		}
		for _, v := range a.FloatArray {
			if err := writeF32(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindBoolArray:
		if err := writeU32(w, uint32(len(a.BoolArray))); err != nil {
			return err
		}
		for _, v := range a.BoolArray {
			b := uint8(0)
			if v {
				b = 1
			}
			if err := writeU8(w, b); err != nil {
				return err
			}
		}
		return nil
	case KindStringArray:
		if err := writeU32(w, uint32(len(a.StringArray))); err != nil {
			return err
		}
		for _, v := range a.StringArray {
			if err := writeCString(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindBinaryArray:
		if err := writeU32(w, uint32(len(a.BinaryArray))); err != nil {
			return err
		}
		for _, v := range a.BinaryArray {
			if err := writeBinary(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindColorArray:
		if err := writeU32(w, uint32(len(a.ColorArray))); err != nil {
			return err
		}
		for _, v := range a.ColorArray {
			if err := writeColor(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindVector2Array:
		if err := writeU32(w, uint32(len(a.Vector2Array))); err != nil {
			return err
		}
		for _, v := range a.Vector2Array {
			if err := writeVector2(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindVector3Array:
		if err := writeU32(w, uint32(len(a.Vector3Array))); err != nil {
			return err
		}
		for _, v := range a.Vector3Array {
			if err := writeVector3(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindVector4Array:
		if err := writeU32(w, uint32(len(a.Vector4Array))); err != nil {
			return err
		}
		for _, v := range a.Vector4Array {
			if err := writeVector4(w, v); err != nil {
				return err
			}
		}
		return nil
	case KindMatrixArray:
		if err := writeU32(w, uint32(len(a.MatrixArray))); err != nil {
			return err
		}
		for _, v := range a.MatrixArray {
			if err := writeMatrix(w, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnknownAttribute
	}
}

func readBinary(r *bufio.Reader) ([]byte, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrTruncated
	}
	return buf, nil
}

func writeBinary(w io.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readColor(r *bufio.Reader) (Color, error) {
	var c Color
	var err error
	if c.R, err = readU8(r); err != nil {
		return c, err
	}
	if c.G, err = readU8(r); err != nil {
		return c, err
	}
	if c.B, err = readU8(r); err != nil {
		return c, err
	}
	c.A, err = readU8(r)
	return c, err
}

func writeColor(w io.Writer, c Color) error {
	if err := writeU8(w, c.R); err != nil {
		return err
	}
	if err := writeU8(w, c.G); err != nil {
		return err
	}
	if err := writeU8(w, c.B); err != nil {
		return err
	}
	return writeU8(w, c.A)
}

func readVector2(r *bufio.Reader) (Vector2, error) {
	var v Vector2
	var err error
	if v.X, err = readF32(r); err != nil {
		return v, err
	}
	v.Y, err = readF32(r)
	return v, err
}

func writeVector2(w io.Writer, v Vector2) error {
	if err := writeF32(w, v.X); err != nil {
		return err
	}
	return writeF32(w, v.Y)
}

func readVector3(r *bufio.Reader) (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = readF32(r); err != nil {
		return v, err
	}
	if v.Y, err = readF32(r); err != nil {
		return v, err
	}
	v.Z, err = readF32(r)
	return v, err
}

func writeVector3(w io.Writer, v Vector3) error {
	if err := writeF32(w, v.X); err != nil {
		return err
	}
	if err := writeF32(w, v.Y); err != nil {
		return err
	}
	return writeF32(w, v.Z)
}

func readVector4(r *bufio.Reader) (Vector4, error) {
	var v Vector4
	var err error
	if v.X, err = readF32(r); err != nil {
		return v, err
	}
	if v.Y, err = readF32(r); err != nil {
		return v, err
	}
	if v.Z, err = readF32(r); err != nil {
		return v, err
	}
	v.W, err = readF32(r)
	return v, err
}

func writeVector4(w io.Writer, v Vector4) error {
	if err := writeF32(w, v.X); err != nil {
		return err
	}
	if err := writeF32(w, v.Y); err != nil {
		return err
	}
	if err := writeF32(w, v.Z); err != nil {
		return err
	}
	return writeF32(w, v.W)
}

func readMatrix(r *bufio.Reader) (Matrix, error) {
	var m Matrix
	for i := range m.Rows {
		v, err := readVector4(r)
		if err != nil {
			return m, err
		}
		m.Rows[i] = v
	}
	return m, nil
}

func writeMatrix(w io.Writer, m Matrix) error {
	for _, row := range m.Rows {
		if err := writeVector4(w, row); err != nil {
			return err
		}
	}
	return nil
}

package dmx

// Kind is the wire type code of an Attribute. The numbering has gaps
// (0, 7, 12, 13, 21, 26, 27 are reserved/unused) and must match exactly —
// it is not a dense enum.
type Kind uint8

const (
	KindElement      Kind = 1
	KindInteger      Kind = 2
	KindFloat        Kind = 3
	KindBool         Kind = 4
	KindString       Kind = 5
	KindBinary       Kind = 6
	KindColor        Kind = 8
	KindVector2      Kind = 9
	KindVector3      Kind = 10
	KindVector4      Kind = 11
	KindMatrix       Kind = 14
	KindElementArray Kind = 15
	KindIntegerArray Kind = 16
	KindFloatArray   Kind = 17
	KindBoolArray    Kind = 18
	KindStringArray  Kind = 19
	KindBinaryArray  Kind = 20
	KindColorArray   Kind = 22
	KindVector2Array Kind = 23
	KindVector3Array Kind = 24
	KindVector4Array Kind = 25
	KindMatrixArray  Kind = 28
)

func (k Kind) valid() bool {
	switch k {
	case KindElement, KindInteger, KindFloat, KindBool, KindString, KindBinary,
		KindColor, KindVector2, KindVector3, KindVector4, KindMatrix,
		KindElementArray, KindIntegerArray, KindFloatArray, KindBoolArray, KindStringArray,
		KindBinaryArray, KindColorArray, KindVector2Array, KindVector3Array, KindVector4Array,
		KindMatrixArray:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	case KindColor:
		return "Color"
	case KindVector2:
		return "Vector2"
	case KindVector3:
		return "Vector3"
	case KindVector4:
		return "Vector4"
	case KindMatrix:
		return "Matrix"
	case KindElementArray:
		return "ElementArray"
	case KindIntegerArray:
		return "IntegerArray"
	case KindFloatArray:
		return "FloatArray"
	case KindBoolArray:
		return "BoolArray"
	case KindStringArray:
		return "StringArray"
	case KindBinaryArray:
		return "BinaryArray"
	case KindColorArray:
		return "ColorArray"
	case KindVector2Array:
		return "Vector2Array"
	case KindVector3Array:
		return "Vector3Array"
	case KindVector4Array:
		return "Vector4Array"
	case KindMatrixArray:
		return "MatrixArray"
	default:
		return "Unknown"
	}
}

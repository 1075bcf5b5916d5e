// Package dataitem implements the tagged-variant value model shared by the
// CBOR and JSON codecs and by the schema engine: a DataItem tree together
// with its decode-status lattice and factory.
package dataitem

// Variant identifies the concrete shape carried by an Item.
type Variant byte

const (
	// Integer carries a 64-bit signed integer (CBOR unsigned and negative
	// major types collapse into this single variant).
	Integer Variant = iota
	// FloatHalf carries an IEEE-754 binary16 value, exposed as float32/64
	// on access.
	FloatHalf
	// FloatStandard carries an IEEE-754 binary32 value.
	FloatStandard
	// FloatDouble carries an IEEE-754 binary64 value.
	FloatDouble
	// Boolean carries true/false.
	Boolean
	// Null represents the absent value; reads as false when queried as a
	// boolean.
	Null
	// Undefined represents the undefined value; reads as false when
	// queried as a boolean.
	Undefined
	// Simple carries a CBOR simple value in {0..19} union {32..255}.
	Simple
	// TextString carries a fixed-length UTF-8 string.
	TextString
	// TextStringList carries an ordered, always-indefinite-length sequence
	// of UTF-8 segments.
	TextStringList
	// ByteString carries a fixed-length byte array.
	ByteString
	// ByteStringList carries an ordered, always-indefinite-length sequence
	// of byte segments.
	ByteStringList
	// Array carries an ordered sequence of Items.
	Array
	// NamedMap carries a mapping from text-string key to Item, keys
	// unique.
	NamedMap
	// IndexedMap carries a mapping from signed 64-bit integer key to Item,
	// keys unique.
	IndexedMap
	// EmptyMap is the decoder-side representation of a CBOR map that
	// decoded with zero entries. Constructed maps always use NamedMap or
	// IndexedMap instead.
	EmptyMap
)

// String renders the variant name for diagnostics.
func (v Variant) String() string {
	switch v {
	case Integer:
		return "INTEGER"
	case FloatHalf:
		return "FLOAT_HALF"
	case FloatStandard:
		return "FLOAT_STANDARD"
	case FloatDouble:
		return "FLOAT_DOUBLE"
	case Boolean:
		return "BOOLEAN"
	case Null:
		return "NULL"
	case Undefined:
		return "UNDEFINED"
	case Simple:
		return "SIMPLE"
	case TextString:
		return "TEXT_STRING"
	case TextStringList:
		return "TEXT_STRING_LIST"
	case ByteString:
		return "BYTE_STRING"
	case ByteStringList:
		return "BYTE_STRING_LIST"
	case Array:
		return "ARRAY"
	case NamedMap:
		return "NAMED_MAP"
	case IndexedMap:
		return "INDEXED_MAP"
	case EmptyMap:
		return "EMPTY_MAP"
	default:
		return "UNKNOWN"
	}
}

// IsFloat reports whether the variant carries a floating-point payload.
func (v Variant) IsFloat() bool {
	return v == FloatHalf || v == FloatStandard || v == FloatDouble
}

// IsContainer reports whether the variant holds child Items.
func (v Variant) IsContainer() bool {
	switch v {
	case Array, NamedMap, IndexedMap, EmptyMap, TextStringList, ByteStringList:
		return true
	default:
		return false
	}
}

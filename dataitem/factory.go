package dataitem

import "encoding/base64"

// Factory constructs Items while enforcing the per-variant invariants
// described in the value model: the Simple-value domain, Base64URL
// decoding when a byte string is given as text, and duplicate-key
// rejection on constructed maps. Every Item a Factory returns starts
// mutable, with decode status Original, except where Simple or
// ByteStringFromBase64 rejects its input and returns an Invalid item.
type Factory struct{}

// NewFactory returns a ready-to-use Factory. Factory holds no state, so
// the zero value works too; NewFactory exists for symmetry with the
// codec/schema constructors.
func NewFactory() Factory { return Factory{} }

// reservedSimpleLow and reservedSimpleHigh bound the reserved CBOR simple
// value range {20..31}, which already carries dedicated meaning
// (false/true/null/undefined and the break byte) and so is rejected here.
const (
	reservedSimpleLow  = 20
	reservedSimpleHigh = 31
)

// Integer builds an INTEGER item.
func (Factory) Integer(value int64) *Item {
	return &Item{variant: Integer, i64: value, mutable: true, status: Original}
}

// FloatHalf builds a FLOAT_HALF item.
func (Factory) FloatHalf(value float64) *Item {
	return &Item{variant: FloatHalf, f64: value, mutable: true, status: Original}
}

// FloatStandard builds a FLOAT_STANDARD item.
func (Factory) FloatStandard(value float64) *Item {
	return &Item{variant: FloatStandard, f64: value, mutable: true, status: Original}
}

// FloatDouble builds a FLOAT_DOUBLE item.
func (Factory) FloatDouble(value float64) *Item {
	return &Item{variant: FloatDouble, f64: value, mutable: true, status: Original}
}

// Boolean builds a BOOLEAN item.
func (Factory) Boolean(value bool) *Item {
	return &Item{variant: Boolean, b: value, mutable: true, status: Original}
}

// Null builds a NULL item.
func (Factory) Null() *Item {
	return &Item{variant: Null, mutable: true, status: Original}
}

// Undefined builds an UNDEFINED item.
func (Factory) Undefined() *Item {
	return &Item{variant: Undefined, mutable: true, status: Original}
}

// Simple builds a SIMPLE item. value must lie in {0..19} union
// {32..255}; values in the reserved {20..31} range (already spoken for by
// false/true/null/undefined and the indefinite-length/break marker) yield
// an Invalid item instead of a Go error, matching the library's general
// preference for carrying failures in decode status over panicking or
// erroring out of a constructor.
func (Factory) Simple(value byte) *Item {
	if value >= reservedSimpleLow && value <= reservedSimpleHigh {
		return &Item{variant: Simple, i64: int64(value), mutable: true, status: Invalid}
	}
	return &Item{variant: Simple, i64: int64(value), mutable: true, status: Original}
}

// TextString builds a TEXT_STRING item.
func (Factory) TextString(value string) *Item {
	return &Item{variant: TextString, text: value, mutable: true, status: Original}
}

// TextStringList builds a TEXT_STRING_LIST item. Always indefinite-length
// per invariant (b).
func (Factory) TextStringList(segments ...string) *Item {
	cp := append([]string(nil), segments...)
	return &Item{variant: TextStringList, textList: cp, indefinite: true, mutable: true, status: Original}
}

// ByteString builds a BYTE_STRING item from raw bytes.
func (Factory) ByteString(value []byte) *Item {
	cp := append([]byte(nil), value...)
	return &Item{variant: ByteString, bytes: cp, mutable: true, status: Original}
}

// ByteStringFromBase64 builds a BYTE_STRING item by decoding text as
// Base64-URL, with or without padding. A decode failure yields an Invalid
// item rather than an error return, for the same reason as Simple.
func (Factory) ByteStringFromBase64(text string) *Item {
	decoded, err := decodeBase64URL(text)
	if err != nil {
		return &Item{variant: ByteString, mutable: true, status: Invalid}
	}
	return &Item{variant: ByteString, bytes: decoded, mutable: true, status: Original}
}

// decodeBase64URL accepts Base64-URL text with or without padding. A
// length congruent to 1 mod 4 is never valid Base64 and is rejected before
// attempting either padded or unpadded decoding.
func decodeBase64URL(text string) ([]byte, error) {
	if len(text)%4 == 1 {
		return nil, base64.CorruptInputError(len(text) - 1)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(text); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(text)
}

// ByteStringList builds a BYTE_STRING_LIST item. Always indefinite-length
// per invariant (b).
func (Factory) ByteStringList(segments ...[]byte) *Item {
	cp := make([][]byte, len(segments))
	for i, s := range segments {
		cp[i] = append([]byte(nil), s...)
	}
	return &Item{variant: ByteStringList, byteList: cp, indefinite: true, mutable: true, status: Original}
}

// Array builds a mutable ARRAY item from the given elements.
func (Factory) Array(elements ...*Item) *Item {
	cp := append([]*Item(nil), elements...)
	return &Item{variant: Array, array: cp, mutable: true, status: Original}
}

// ArrayIndefinite builds a mutable, indefinite-length ARRAY item.
func (Factory) ArrayIndefinite(elements ...*Item) *Item {
	it := Factory{}.Array(elements...)
	it.indefinite = true
	return it
}

// AppendElement appends to a mutable ARRAY. Returns ErrImmutable if the
// item was produced by a decoder, or ErrWrongVariant if it is not an
// array.
func AppendElement(it *Item, element *Item) error {
	if it.variant != Array {
		return &ItemError{Err: ErrWrongVariant, Variant: it.variant}
	}
	if !it.mutable {
		return &ItemError{Err: ErrImmutable, Variant: it.variant}
	}
	it.array = append(it.array, element)
	return nil
}

// NamedMap builds an empty, mutable NAMED_MAP item.
func (Factory) NamedMap() *Item {
	return &Item{variant: NamedMap, mapVals: map[string]*Item{}, mutable: true, status: Original}
}

// SetProperty inserts key/value into a mutable NAMED_MAP. Returns
// ErrDuplicateKey if key is already present, ErrImmutable if the map was
// produced by a decoder, or ErrWrongVariant if it is not a named map.
func SetProperty(it *Item, key string, value *Item) error {
	if it.variant != NamedMap {
		return &ItemError{Err: ErrWrongVariant, Variant: it.variant}
	}
	if !it.mutable {
		return &ItemError{Err: ErrImmutable, Variant: it.variant}
	}
	if _, exists := it.mapVals[key]; exists {
		return &ItemError{Err: ErrDuplicateKey, Variant: it.variant}
	}
	it.mapKeys = append(it.mapKeys, key)
	it.mapVals[key] = value
	return nil
}

// IndexedMap builds an empty, mutable INDEXED_MAP item.
func (Factory) IndexedMap() *Item {
	return &Item{variant: IndexedMap, idxVals: map[int64]*Item{}, mutable: true, status: Original}
}

// SetEntry inserts key/value into a mutable INDEXED_MAP. Returns
// ErrDuplicateKey if key is already present, ErrImmutable if the map was
// produced by a decoder, or ErrWrongVariant if it is not an indexed map.
func SetEntry(it *Item, key int64, value *Item) error {
	if it.variant != IndexedMap {
		return &ItemError{Err: ErrWrongVariant, Variant: it.variant}
	}
	if !it.mutable {
		return &ItemError{Err: ErrImmutable, Variant: it.variant}
	}
	if _, exists := it.idxVals[key]; exists {
		return &ItemError{Err: ErrDuplicateKey, Variant: it.variant}
	}
	it.idxKeys = append(it.idxKeys, key)
	it.idxVals[key] = value
	return nil
}

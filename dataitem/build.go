package dataitem

// This file collects the "raw" constructors used by the codec and schema
// packages, which build Items directly at a known decode status and
// mutability rather than through the invariant-enforcing Factory a caller
// uses. They live in this package (not exported helpers on Factory)
// because codecs and the schema engine need to set status/mutable/
// indefinite directly as they walk a wire format or a schema tree.

// RawInteger builds an INTEGER item at the given status.
func RawInteger(value int64, status DecodeStatus) *Item {
	return &Item{variant: Integer, i64: value, status: status}
}

// RawFloat builds a floating-point item of the given variant
// (FloatHalf/FloatStandard/FloatDouble) at the given status.
func RawFloat(variant Variant, value float64, status DecodeStatus) *Item {
	return &Item{variant: variant, f64: value, status: status}
}

// RawBoolean builds a BOOLEAN item at the given status.
func RawBoolean(value bool, status DecodeStatus) *Item {
	return &Item{variant: Boolean, b: value, status: status}
}

// RawNull builds a NULL item at the given status.
func RawNull(status DecodeStatus) *Item {
	return &Item{variant: Null, status: status}
}

// RawUndefined builds an UNDEFINED item at the given status.
func RawUndefined(status DecodeStatus) *Item {
	return &Item{variant: Undefined, status: status}
}

// RawSimple builds a SIMPLE item at the given status; the caller is
// responsible for the {0..19}∪{32..255} domain check (the Factory enforces
// it for application callers; a decoder enforces it inline against the
// wire bytes it just read).
func RawSimple(value byte, status DecodeStatus) *Item {
	return &Item{variant: Simple, i64: int64(value), status: status}
}

// RawTextString builds a TEXT_STRING item at the given status.
func RawTextString(value string, status DecodeStatus) *Item {
	return &Item{variant: TextString, text: value, status: status}
}

// RawTextStringList builds a TEXT_STRING_LIST item (always
// indefinite-length) at the given status.
func RawTextStringList(segments []string, status DecodeStatus) *Item {
	return &Item{variant: TextStringList, textList: segments, indefinite: true, status: status}
}

// RawByteString builds a BYTE_STRING item at the given status.
func RawByteString(value []byte, status DecodeStatus) *Item {
	return &Item{variant: ByteString, bytes: value, status: status}
}

// RawByteStringList builds a BYTE_STRING_LIST item (always
// indefinite-length) at the given status.
func RawByteStringList(segments [][]byte, status DecodeStatus) *Item {
	return &Item{variant: ByteStringList, byteList: segments, indefinite: true, status: status}
}

// RawArray builds an ARRAY item at the given status and indefinite-length
// flag. mutable controls whether the result may later be mutated through
// AppendElement.
func RawArray(elements []*Item, indefinite bool, mutable bool, status DecodeStatus) *Item {
	return &Item{variant: Array, array: elements, indefinite: indefinite, mutable: mutable, status: status}
}

// RawEmptyMap builds the decoder-only EMPTY_MAP item.
func RawEmptyMap(indefinite bool, status DecodeStatus) *Item {
	return &Item{variant: EmptyMap, indefinite: indefinite, status: status}
}

// RawNamedMap builds a NAMED_MAP item from parallel keys/values slices
// (already deduplicated by the caller) at the given status.
func RawNamedMap(keys []string, values []*Item, indefinite bool, mutable bool, status DecodeStatus) *Item {
	vals := make(map[string]*Item, len(keys))
	for i, k := range keys {
		vals[k] = values[i]
	}
	return &Item{variant: NamedMap, mapKeys: keys, mapVals: vals, indefinite: indefinite, mutable: mutable, status: status}
}

// RawIndexedMap builds an INDEXED_MAP item from parallel keys/values
// slices (already deduplicated by the caller) at the given status.
func RawIndexedMap(keys []int64, values []*Item, indefinite bool, mutable bool, status DecodeStatus) *Item {
	vals := make(map[int64]*Item, len(keys))
	for i, k := range keys {
		vals[k] = values[i]
	}
	return &Item{variant: IndexedMap, idxKeys: keys, idxVals: vals, indefinite: indefinite, mutable: mutable, status: status}
}

package dataitem

// Item is the fundamental unit of the value model: a tagged variant over
// the data types in Variant, carrying a header shared by every shape
// (tags, mutability, indefinite-length flag, decode status).
//
// Per the variant-dispatch design: Item stores one payload field per
// variant rather than an interface{} escape hatch, so there is no
// unchecked cast anywhere in this package — callers narrow with the
// As*/Is* accessors below.
type Item struct {
	variant    Variant
	tags       []int32
	mutable    bool
	indefinite bool
	status     DecodeStatus

	i64  int64
	f64  float64
	b    bool
	text string

	textList []string
	bytes    []byte
	byteList [][]byte
	array    []*Item

	mapKeys []string
	mapVals map[string]*Item

	idxKeys []int64
	idxVals map[int64]*Item
}

// Variant returns the concrete shape this item carries.
func (it *Item) Variant() Variant { return it.variant }

// Status returns the current decode status.
func (it *Item) Status() DecodeStatus { return it.status }

// IsFailure reports whether this item's status is a failure kind.
func (it *Item) IsFailure() bool { return it.status.IsFailure() }

// Mutable reports whether this item's containers may still be mutated.
// True for Factory-built items, false for freshly decoded ones.
func (it *Item) Mutable() bool { return it.mutable }

// IndefiniteLength reports whether this container item was decoded, or
// will be encoded, using CBOR indefinite-length form.
func (it *Item) IndefiniteLength() bool { return it.indefinite }

// Tags returns the ordered tag stack; the rightmost entry binds most
// closely to the payload. Returns nil if absent.
func (it *Item) Tags() []int32 { return it.tags }

// SetTags replaces the tag stack. Tags must be non-negative.
func (it *Item) SetTags(tags []int32) error {
	for _, t := range tags {
		if t < 0 {
			return &ItemError{Err: ErrNegativeTag, Variant: it.variant}
		}
	}
	cp := make([]int32, len(tags))
	copy(cp, tags)
	it.tags = cp
	return nil
}

// SetStatus transitions the decode status. Once a failure status
// (Invalid, Unsupported, FailedSchema) is assigned, transitioning back to
// a non-failure status fails with ErrIllegalStateTransition; assigning
// another failure status is always permitted (idempotent with respect to
// "is a failure").
func (it *Item) SetStatus(s DecodeStatus) error {
	if it.status.IsFailure() && !s.IsFailure() {
		return &ItemError{Err: ErrIllegalStateTransition, Variant: it.variant}
	}
	it.status = s
	return nil
}

// AsInt64 returns the integer payload. ok is false for any other variant.
func (it *Item) AsInt64() (value int64, ok bool) {
	if it.variant != Integer {
		return 0, false
	}
	return it.i64, true
}

// AsFloat64 returns the floating-point payload, widened to float64
// regardless of the original encoded precision. ok is false for any other
// variant.
func (it *Item) AsFloat64() (value float64, ok bool) {
	if !it.variant.IsFloat() {
		return 0, false
	}
	return it.f64, true
}

// AsBool returns the boolean payload. Null and Undefined both read as
// false per spec. ok is false for any other variant.
func (it *Item) AsBool() (value bool, ok bool) {
	switch it.variant {
	case Boolean:
		return it.b, true
	case Null, Undefined:
		return false, true
	default:
		return false, false
	}
}

// AsSimple returns the raw simple-value byte. ok is false for any other
// variant.
func (it *Item) AsSimple() (value byte, ok bool) {
	if it.variant != Simple {
		return 0, false
	}
	return byte(it.i64), true
}

// AsText returns the text payload for TextString, or the concatenation of
// segments for TextStringList. ok is false for any other variant.
func (it *Item) AsText() (value string, ok bool) {
	switch it.variant {
	case TextString:
		return it.text, true
	case TextStringList:
		total := 0
		for _, s := range it.textList {
			total += len(s)
		}
		buf := make([]byte, 0, total)
		for _, s := range it.textList {
			buf = append(buf, s...)
		}
		return string(buf), true
	default:
		return "", false
	}
}

// TextSegments returns the raw, unconcatenated segments of a
// TextStringList. ok is false for any other variant.
func (it *Item) TextSegments() (segments []string, ok bool) {
	if it.variant != TextStringList {
		return nil, false
	}
	return it.textList, true
}

// AsBytes returns the byte payload for ByteString, or the concatenation of
// segments for ByteStringList. ok is false for any other variant.
func (it *Item) AsBytes() (value []byte, ok bool) {
	switch it.variant {
	case ByteString:
		return it.bytes, true
	case ByteStringList:
		total := 0
		for _, b := range it.byteList {
			total += len(b)
		}
		buf := make([]byte, 0, total)
		for _, b := range it.byteList {
			buf = append(buf, b...)
		}
		return buf, true
	default:
		return nil, false
	}
}

// ByteSegments returns the raw, unconcatenated segments of a
// ByteStringList. ok is false for any other variant.
func (it *Item) ByteSegments() (segments [][]byte, ok bool) {
	if it.variant != ByteStringList {
		return nil, false
	}
	return it.byteList, true
}

// Array returns the array's elements in order. ok is false for any other
// variant.
func (it *Item) Array() (elements []*Item, ok bool) {
	if it.variant != Array {
		return nil, false
	}
	return it.array, true
}

// Len returns the number of elements/entries in a container variant, or
// zero for a non-container.
func (it *Item) Len() int {
	switch it.variant {
	case Array, TextStringList, ByteStringList:
		switch it.variant {
		case Array:
			return len(it.array)
		case TextStringList:
			return len(it.textList)
		case ByteStringList:
			return len(it.byteList)
		}
	case NamedMap:
		return len(it.mapKeys)
	case IndexedMap:
		return len(it.idxKeys)
	}
	return 0
}

// NamedMapKeys returns the map's keys in insertion/decode order. ok is
// false for any other variant.
func (it *Item) NamedMapKeys() (keys []string, ok bool) {
	if it.variant != NamedMap {
		return nil, false
	}
	return it.mapKeys, true
}

// NamedMapGet looks up a key in a NamedMap. ok is false if the variant is
// wrong or the key is absent.
func (it *Item) NamedMapGet(key string) (value *Item, ok bool) {
	if it.variant != NamedMap {
		return nil, false
	}
	v, present := it.mapVals[key]
	return v, present
}

// IndexedMapKeys returns the map's integer keys in insertion/decode order.
// ok is false for any other variant.
func (it *Item) IndexedMapKeys() (keys []int64, ok bool) {
	if it.variant != IndexedMap {
		return nil, false
	}
	return it.idxKeys, true
}

// IndexedMapGet looks up a key in an IndexedMap. ok is false if the
// variant is wrong or the key is absent.
func (it *Item) IndexedMapGet(key int64) (value *Item, ok bool) {
	if it.variant != IndexedMap {
		return nil, false
	}
	v, present := it.idxVals[key]
	return v, present
}

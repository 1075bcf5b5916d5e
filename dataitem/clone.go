package dataitem

// Clone returns a copy of it suitable for reuse as a schema-node default
// or as a definitions-table prototype instance. Per the "schema node reuse
// via duplication" design note: the clone is shallow for internal tables
// that don't embed identity (slices/maps are copied one level deep so
// mutating the copy's top-level structure never bleeds into the
// original), and the clone always starts mutable so a caller may
// immediately attach it under a new parent.
func (it *Item) Clone() *Item {
	cp := &Item{
		variant:    it.variant,
		mutable:    true,
		indefinite: it.indefinite,
		status:     it.status,
		i64:        it.i64,
		f64:        it.f64,
		b:          it.b,
		text:       it.text,
	}
	if it.tags != nil {
		cp.tags = append([]int32(nil), it.tags...)
	}
	if it.textList != nil {
		cp.textList = append([]string(nil), it.textList...)
	}
	if it.bytes != nil {
		cp.bytes = append([]byte(nil), it.bytes...)
	}
	if it.byteList != nil {
		cp.byteList = make([][]byte, len(it.byteList))
		for i, b := range it.byteList {
			cp.byteList[i] = append([]byte(nil), b...)
		}
	}
	if it.array != nil {
		cp.array = append([]*Item(nil), it.array...)
	}
	if it.mapVals != nil {
		cp.mapKeys = append([]string(nil), it.mapKeys...)
		cp.mapVals = make(map[string]*Item, len(it.mapVals))
		for k, v := range it.mapVals {
			cp.mapVals[k] = v
		}
	}
	if it.idxVals != nil {
		cp.idxKeys = append([]int64(nil), it.idxKeys...)
		cp.idxVals = make(map[int64]*Item, len(it.idxVals))
		for k, v := range it.idxVals {
			cp.idxVals[k] = v
		}
	}
	return cp
}

// Equal reports structural equality: same variant, payload, tags, and
// indefinite-length flag. Decode status and mutability are not compared,
// since round-trip properties care about the payload surviving a
// encode/decode cycle, not the bookkeeping flags a fresh decode assigns.
func (it *Item) Equal(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	if it.variant != other.variant || it.indefinite != other.indefinite {
		return false
	}
	if !equalTags(it.tags, other.tags) {
		return false
	}
	switch it.variant {
	case Integer, Simple:
		return it.i64 == other.i64
	case FloatHalf, FloatStandard, FloatDouble:
		return it.f64 == other.f64 || (it.f64 != it.f64 && other.f64 != other.f64) // NaN preserved
	case Boolean:
		return it.b == other.b
	case Null, Undefined, EmptyMap:
		return true
	case TextString:
		return it.text == other.text
	case TextStringList:
		return equalStrings(it.textList, other.textList)
	case ByteString:
		return equalBytes(it.bytes, other.bytes)
	case ByteStringList:
		if len(it.byteList) != len(other.byteList) {
			return false
		}
		for i := range it.byteList {
			if !equalBytes(it.byteList[i], other.byteList[i]) {
				return false
			}
		}
		return true
	case Array:
		if len(it.array) != len(other.array) {
			return false
		}
		for i := range it.array {
			if !it.array[i].Equal(other.array[i]) {
				return false
			}
		}
		return true
	case NamedMap:
		if len(it.mapKeys) != len(other.mapKeys) {
			return false
		}
		for k, v := range it.mapVals {
			ov, ok := other.mapVals[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case IndexedMap:
		if len(it.idxKeys) != len(other.idxKeys) {
			return false
		}
		for k, v := range it.idxVals {
			ov, ok := other.idxVals[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalTags(a, b []int32) bool {
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

func equalStrings(a, b []string) bool {
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

func equalBytes(a, b []byte) bool {
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

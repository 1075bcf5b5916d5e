package schema

import "github.com/relaycore/dataitem/dataitem"

// Small accessors over a schema document's NAMED_MAP nodes, tolerating
// whichever codec produced the surrounding dataitem.Item tree.

func getField(def *dataitem.Item, key string) (*dataitem.Item, bool) {
	return def.NamedMapGet(key)
}

func getText(def *dataitem.Item, key string) (string, bool) {
	v, ok := getField(def, key)
	if !ok {
		return "", false
	}
	return v.AsText()
}

func getBool(def *dataitem.Item, key string) (bool, bool) {
	v, ok := getField(def, key)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

func getInt(def *dataitem.Item, key string) (int64, bool) {
	v, ok := getField(def, key)
	if !ok {
		return 0, false
	}
	return v.AsInt64()
}

func getFloat(def *dataitem.Item, key string) (float64, bool) {
	v, ok := getField(def, key)
	if !ok {
		return 0, false
	}
	if f, ok := v.AsFloat64(); ok {
		return f, true
	}
	if i, ok := v.AsInt64(); ok {
		return float64(i), true
	}
	return 0, false
}

func getBytes(def *dataitem.Item, key string) ([]byte, bool) {
	v, ok := getField(def, key)
	if !ok {
		return nil, false
	}
	if b, ok := v.AsBytes(); ok {
		return b, true
	}
	if text, ok := v.AsText(); ok {
		return decodeBase64URL(text)
	}
	return nil, false
}

func getNamedMap(def *dataitem.Item, key string) (*dataitem.Item, bool) {
	v, ok := getField(def, key)
	if !ok || v.Variant() != dataitem.NamedMap {
		return nil, false
	}
	return v, true
}

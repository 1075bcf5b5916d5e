package schema

import "github.com/relaycore/dataitem/dataitem"

// -- STANDARD_OBJECT --------------------------------------------------------
//
// Non-tokenisable: both tokenized and expanded shapes are a NAMED_MAP keyed
// by property name. Child values still convert through their own schema.

func (n *Node) createDefaultObject(includeAll bool) *dataitem.Item {
	result := factory.NamedMap()
	for _, prop := range n.properties {
		if !prop.required && !includeAll {
			continue
		}
		_ = dataitem.SetProperty(result, prop.name, prop.schema.createDefault(includeAll))
	}
	return result
}

func (n *Node) propertyByName(name string) (*propertyDef, bool) {
	for _, prop := range n.properties {
		if prop.name == name {
			return prop, true
		}
	}
	return nil, false
}

func (n *Node) validateStandardObject(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	keys, ok := item.NamedMapKeys()
	if !ok {
		warn(sink, p, "expected an object")
		return false
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
		if _, known := n.propertyByName(k); !known && n.final {
			warn(sink, p, "unrecognized property \""+k+"\" on a final object")
			return false
		}
	}
	for _, prop := range n.properties {
		if prop.required && !present[prop.name] {
			warn(sink, p, "missing required property \""+prop.name+"\"")
			return false
		}
	}
	if !recursive {
		return true
	}
	valid := true
	for _, k := range keys {
		prop, known := n.propertyByName(k)
		if !known {
			continue
		}
		v, _ := item.NamedMapGet(k)
		if !prop.schema.validate(v, isTokenized, true, p.field(k), sink) {
			valid = false
		}
	}
	return valid
}

func (n *Node) expandStandardObject(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	result := factory.NamedMap()
	status := dataitem.Expanded
	for _, k := range keys {
		prop, known := n.propertyByName(k)
		v, _ := item.NamedMapGet(k)
		if !known {
			_ = dataitem.SetProperty(result, k, v)
			continue
		}
		child := prop.schema.expand(v, p.field(k), sink)
		_ = dataitem.SetProperty(result, k, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

func (n *Node) tokenizeStandardObject(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	result := factory.NamedMap()
	status := dataitem.Tokenized
	for _, k := range keys {
		prop, known := n.propertyByName(k)
		v, _ := item.NamedMapGet(k)
		if !known {
			_ = dataitem.SetProperty(result, k, v)
			continue
		}
		child := prop.schema.tokenize(v, p.field(k), sink)
		_ = dataitem.SetProperty(result, k, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

// -- TOKENIZABLE_OBJECT -------------------------------------------------------
//
// Expanded shape: NAMED_MAP keyed by property name (identical to
// STANDARD_OBJECT). Tokenized shape: INDEXED_MAP keyed by property token.
// A NAMED_MAP whose keys all parse as strict decimal token strings is also
// accepted in tokenized mode, since JSON has no integer-keyed map and must
// carry the tokenized form that way (spec §4.3.3/§6.3).

func (n *Node) propertyByToken(token int64) (*propertyDef, bool) {
	for _, prop := range n.properties {
		if prop.token == token {
			return prop, true
		}
	}
	return nil, false
}

// tokenizedEntries reads a TOKENIZABLE_OBJECT value in tokenized shape,
// normalising either representation to a token->value map. ok is false if
// item is neither shape, or if it is a decimal-keyed NAMED_MAP with a key
// that fails strict parsing.
func tokenizedEntries(item *dataitem.Item) (map[int64]*dataitem.Item, bool) {
	if keys, ok := item.IndexedMapKeys(); ok {
		out := make(map[int64]*dataitem.Item, len(keys))
		for _, k := range keys {
			v, _ := item.IndexedMapGet(k)
			out[k] = v
		}
		return out, true
	}
	if keys, ok := item.NamedMapKeys(); ok {
		out := make(map[int64]*dataitem.Item, len(keys))
		for _, k := range keys {
			token, ok := parseStrictDecimalKey(k)
			if !ok {
				return nil, false
			}
			v, _ := item.NamedMapGet(k)
			out[token] = v
		}
		return out, true
	}
	return nil, false
}

func (n *Node) validateTokenizableObject(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	if !isTokenized {
		return n.validateStandardObject(item, isTokenized, recursive, p, sink)
	}
	entries, ok := tokenizedEntries(item)
	if !ok {
		warn(sink, p, "expected a tokenized object")
		return false
	}
	for token := range entries {
		if _, known := n.propertyByToken(token); !known && n.final {
			warn(sink, p, "unrecognized token on a final object")
			return false
		}
	}
	for _, prop := range n.properties {
		if prop.required {
			if _, present := entries[prop.token]; !present {
				warn(sink, p, "missing required property \""+prop.name+"\"")
				return false
			}
		}
	}
	if !recursive {
		return true
	}
	valid := true
	for token, v := range entries {
		prop, known := n.propertyByToken(token)
		if !known {
			continue
		}
		if !prop.schema.validate(v, isTokenized, true, p.field(prop.name), sink) {
			valid = false
		}
	}
	return valid
}

func (n *Node) expandTokenizableObject(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	entries, _ := tokenizedEntries(item)
	result := factory.NamedMap()
	status := dataitem.Expanded
	for token, v := range entries {
		prop, known := n.propertyByToken(token)
		if !known {
			continue
		}
		child := prop.schema.expand(v, p.field(prop.name), sink)
		_ = dataitem.SetProperty(result, prop.name, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

func (n *Node) tokenizeTokenizableObject(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	result := factory.IndexedMap()
	status := dataitem.Tokenized
	for _, k := range keys {
		prop, known := n.propertyByName(k)
		if !known {
			continue
		}
		v, _ := item.NamedMapGet(k)
		child := prop.schema.tokenize(v, p.field(k), sink)
		_ = dataitem.SetEntry(result, prop.token, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

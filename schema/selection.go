package schema

import "github.com/relaycore/dataitem/dataitem"

// SELECTION is a discriminated union over its formats. Tokenized shape is a
// 2-element ARRAY [token, value]; expanded shape is a single-entry
// NAMED_MAP {identifier: value}. Token 0 / identifier "unknown" is reserved
// for an extensible selection carrying an unrecognised format, whose value
// is always UNDEFINED (spec §4.3.5).

func (n *Node) formatByToken(token int64) (*formatDef, bool) {
	for _, f := range n.formats {
		if f.token == token {
			return f, true
		}
	}
	return nil, false
}

func (n *Node) formatByIdentifier(identifier string) (*formatDef, bool) {
	for _, f := range n.formats {
		if f.identifier == identifier {
			return f, true
		}
	}
	return nil, false
}

func (n *Node) createDefaultSelection(includeAll bool) *dataitem.Item {
	result := factory.NamedMap()
	f, ok := n.formatByIdentifier(n.selectionDefault)
	if !ok && len(n.formats) > 0 {
		f = n.formats[0]
		ok = true
	}
	if !ok {
		return result
	}
	_ = dataitem.SetProperty(result, f.identifier, f.schema.createDefault(includeAll))
	return result
}

func (n *Node) validateSelection(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	if isTokenized {
		elements, ok := item.Array()
		if !ok || len(elements) != 2 {
			warn(sink, p, "expected a 2-element [token, value] selection array")
			return false
		}
		token, ok := elements[0].AsInt64()
		if !ok {
			warn(sink, p, "selection token must be an integer")
			return false
		}
		f, known := n.formatByToken(token)
		if !known {
			if !n.final {
				// Expand turns any unrecognised token into {"unknown": undefined}.
				return true
			}
			warn(sink, p, "unrecognized selection token")
			return false
		}
		if !recursive {
			return true
		}
		return f.schema.validate(elements[1], true, true, p.field(f.identifier), sink)
	}

	keys, ok := item.NamedMapKeys()
	if !ok || len(keys) != 1 {
		warn(sink, p, "expected a single-entry selection object")
		return false
	}
	identifier := keys[0]
	v, _ := item.NamedMapGet(identifier)
	f, known := n.formatByIdentifier(identifier)
	if !known {
		if !n.final {
			// Tokenize turns any unrecognised identifier into [0, undefined].
			return true
		}
		warn(sink, p, "unrecognized selection identifier \""+identifier+"\"")
		return false
	}
	if !recursive {
		return true
	}
	return f.schema.validate(v, false, true, p.field(identifier), sink)
}

func (n *Node) expandSelection(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	elements, _ := item.Array()
	token, _ := elements[0].AsInt64()
	result := factory.NamedMap()
	f, known := n.formatByToken(token)
	if !known {
		_ = dataitem.SetProperty(result, unknownIdentifier, factory.Undefined())
		_ = result.SetStatus(dataitem.Expanded)
		return withTags(result, item)
	}
	child := f.schema.expand(elements[1], p.field(f.identifier), sink)
	_ = dataitem.SetProperty(result, f.identifier, child)
	_ = result.SetStatus(dataitem.Join(dataitem.Expanded, child.Status()))
	return withTags(result, item)
}

func (n *Node) tokenizeSelection(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	identifier := keys[0]
	v, _ := item.NamedMapGet(identifier)
	f, known := n.formatByIdentifier(identifier)
	if !known {
		result := factory.Array(factory.Integer(unknownToken), factory.Undefined())
		_ = result.SetStatus(dataitem.Tokenized)
		return withTags(result, item)
	}
	child := f.schema.tokenize(v, p.field(identifier), sink)
	result := factory.Array(factory.Integer(f.token), child)
	_ = result.SetStatus(dataitem.Join(dataitem.Tokenized, child.Status()))
	return withTags(result, item)
}

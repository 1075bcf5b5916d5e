package schema

import "github.com/relaycore/dataitem/dataitem"

// STRUCTURE has a built-in index permutation over its records (validated at
// build time to be exactly [0,N)), and its tokenized shape is a plain
// ARRAY positioned by that index — the space efficiency CBOR buys over a
// token-keyed map when every field is mandatory by convention. Its expanded
// shape is a NAMED_MAP keyed by record name, matching every other object
// kind's JSON-facing form (spec §4.3.4).

func (n *Node) recordByIndex(index int) (*recordDef, bool) {
	for _, r := range n.records {
		if r.index == index {
			return r, true
		}
	}
	return nil, false
}

func (n *Node) recordByName(name string) (*recordDef, bool) {
	for _, r := range n.records {
		if r.name == name {
			return r, true
		}
	}
	return nil, false
}

func isAbsent(item *dataitem.Item) bool {
	return item == nil || item.Variant() == dataitem.Null || item.Variant() == dataitem.Undefined
}

func (n *Node) createDefaultStructure(includeAll bool) *dataitem.Item {
	result := factory.NamedMap()
	for i := 0; i < len(n.records); i++ {
		rec, ok := n.recordByIndex(i)
		if !ok {
			continue
		}
		if !rec.required && !includeAll {
			continue
		}
		_ = dataitem.SetProperty(result, rec.name, rec.schema.createDefault(includeAll))
	}
	return result
}

func (n *Node) validateStructure(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	if isTokenized {
		return n.validateStructureTokenized(item, recursive, p, sink)
	}
	return n.validateStructureExpanded(item, recursive, p, sink)
}

func (n *Node) validateStructureTokenized(item *dataitem.Item, recursive bool, p path, sink WarningSink) bool {
	elements, ok := item.Array()
	if !ok {
		warn(sink, p, "expected a structure array")
		return false
	}
	n2 := len(n.records)
	if n.final && len(elements) != n2 {
		warn(sink, p, "structure array length does not match the final record count")
		return false
	}
	valid := true
	for i := 0; i < n2; i++ {
		rec, known := n.recordByIndex(i)
		if !known {
			continue
		}
		var val *dataitem.Item
		if i < len(elements) {
			val = elements[i]
		}
		if isAbsent(val) {
			if rec.required {
				warn(sink, p.field(rec.name), "missing required record")
				valid = false
			}
			continue
		}
		if recursive && !rec.schema.validate(val, true, true, p.field(rec.name), sink) {
			valid = false
		}
	}
	return valid
}

func (n *Node) validateStructureExpanded(item *dataitem.Item, recursive bool, p path, sink WarningSink) bool {
	keys, ok := item.NamedMapKeys()
	if !ok {
		warn(sink, p, "expected a structure object")
		return false
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
		if _, known := n.recordByName(k); !known && n.final {
			warn(sink, p, "unrecognized record \""+k+"\" on a final structure")
			return false
		}
	}
	for _, rec := range n.records {
		if rec.required && !present[rec.name] {
			warn(sink, p, "missing required record \""+rec.name+"\"")
			return false
		}
	}
	if !recursive {
		return true
	}
	valid := true
	for _, k := range keys {
		rec, known := n.recordByName(k)
		if !known {
			continue
		}
		v, _ := item.NamedMapGet(k)
		if !rec.schema.validate(v, false, true, p.field(k), sink) {
			valid = false
		}
	}
	return valid
}

func (n *Node) expandStructure(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	elements, _ := item.Array()
	result := factory.NamedMap()
	status := dataitem.Expanded
	for i := 0; i < len(n.records); i++ {
		rec, known := n.recordByIndex(i)
		if !known {
			continue
		}
		var val *dataitem.Item
		if i < len(elements) {
			val = elements[i]
		}
		if isAbsent(val) {
			continue
		}
		child := rec.schema.expand(val, p.field(rec.name), sink)
		_ = dataitem.SetProperty(result, rec.name, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

func (n *Node) tokenizeStructure(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	byName := make(map[string]*dataitem.Item, len(keys))
	for _, k := range keys {
		v, _ := item.NamedMapGet(k)
		byName[k] = v
	}
	elements := make([]*dataitem.Item, len(n.records))
	status := dataitem.Tokenized
	for i := 0; i < len(n.records); i++ {
		rec, known := n.recordByIndex(i)
		if !known {
			elements[i] = dataitem.RawUndefined(dataitem.Tokenized)
			continue
		}
		v, present := byName[rec.name]
		if !present {
			elements[i] = factory.Undefined()
			continue
		}
		child := rec.schema.tokenize(v, p.field(rec.name), sink)
		elements[i] = child
		status = dataitem.Join(status, child.Status())
	}
	result := factory.Array(elements...)
	_ = result.SetStatus(status)
	return withTags(result, item)
}

package schema

import "github.com/relaycore/dataitem/dataitem"

// ARRAY and MAP are transparent containers: tokenized and expanded shapes
// are the same ARRAY/NAMED_MAP variant, only the child schema's own
// tokenized-ness differs, so isTokenized threads straight through.

// -- ARRAY --------------------------------------------------------------

func (n *Node) createDefaultArray(includeAll bool) *dataitem.Item {
	count := n.arrMinLength
	if !n.hasArrMin {
		count = 0
	}
	elements := make([]*dataitem.Item, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, n.valuesSchema.createDefault(includeAll))
	}
	return factory.Array(elements...)
}

func (n *Node) validateArray(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	elements, ok := item.Array()
	if !ok {
		warn(sink, p, "expected an array")
		return false
	}
	if n.hasArrMin && len(elements) < n.arrMinLength {
		warn(sink, p, "array shorter than the minimum length")
		return false
	}
	if n.hasArrMax && len(elements) > n.arrMaxLength {
		warn(sink, p, "array longer than the maximum length")
		return false
	}
	if !recursive {
		return true
	}
	ok = true
	for i, el := range elements {
		if !n.valuesSchema.validate(el, isTokenized, true, p.index(i), sink) {
			ok = false
		}
	}
	return ok
}

func (n *Node) expandArray(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	elements, _ := item.Array()
	out := make([]*dataitem.Item, len(elements))
	status := dataitem.Expanded
	for i, el := range elements {
		child := n.valuesSchema.expand(el, p.index(i), sink)
		out[i] = child
		status = dataitem.Join(status, child.Status())
	}
	result := factory.Array(out...)
	_ = result.SetStatus(status)
	return withTags(result, item)
}

func (n *Node) tokenizeArray(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	elements, _ := item.Array()
	out := make([]*dataitem.Item, len(elements))
	status := dataitem.Tokenized
	for i, el := range elements {
		child := n.valuesSchema.tokenize(el, p.index(i), sink)
		out[i] = child
		status = dataitem.Join(status, child.Status())
	}
	result := factory.Array(out...)
	_ = result.SetStatus(status)
	return withTags(result, item)
}

// -- MAP ------------------------------------------------------------------

func (n *Node) createDefaultMap() *dataitem.Item {
	return factory.NamedMap()
}

func (n *Node) validateMap(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	keys, ok := item.NamedMapKeys()
	if !ok {
		warn(sink, p, "expected a map")
		return false
	}
	if !recursive {
		return true
	}
	ok = true
	for _, k := range keys {
		v, _ := item.NamedMapGet(k)
		if !n.mapValuesSchema.validate(v, isTokenized, true, p.field(k), sink) {
			ok = false
		}
	}
	return ok
}

func (n *Node) expandMap(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	result := factory.NamedMap()
	status := dataitem.Expanded
	for _, k := range keys {
		v, _ := item.NamedMapGet(k)
		child := n.mapValuesSchema.expand(v, p.field(k), sink)
		_ = dataitem.SetProperty(result, k, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

func (n *Node) tokenizeMap(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	keys, _ := item.NamedMapKeys()
	result := factory.NamedMap()
	status := dataitem.Tokenized
	for _, k := range keys {
		v, _ := item.NamedMapGet(k)
		child := n.mapValuesSchema.tokenize(v, p.field(k), sink)
		_ = dataitem.SetProperty(result, k, child)
		status = dataitem.Join(status, child.Status())
	}
	_ = result.SetStatus(status)
	return withTags(result, item)
}

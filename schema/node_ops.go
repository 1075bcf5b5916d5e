package schema

import "github.com/relaycore/dataitem/dataitem"

// warn reports a validation warning at p if sink is non-nil.
func warn(sink WarningSink, p path, message string) {
	if sink != nil {
		sink.Warn(p.String(), message)
	}
}

// failedSchema builds the FAILED_SCHEMA placeholder expand/tokenize return
// on a structural mismatch, per spec §4.3's "returns an INVALID/
// FAILED_SCHEMA item on failure".
func failedSchema() *dataitem.Item {
	return dataitem.RawUndefined(dataitem.FailedSchema)
}

// withTags copies src's tag stack onto dst, best-effort.
func withTags(dst, src *dataitem.Item) *dataitem.Item {
	_ = dst.SetTags(src.Tags())
	return dst
}

// createDefault dispatches default-value synthesis to the per-kind
// implementation. The synthesised tree is always built through the
// Factory, in expanded shape, per the Definition.CreateDefault contract.
func (n *Node) createDefault(includeAll bool) *dataitem.Item {
	switch n.kind {
	case Boolean:
		return n.createDefaultBoolean()
	case Integer:
		return n.createDefaultInteger()
	case Number:
		return n.createDefaultNumber()
	case TextString:
		return n.createDefaultTextString()
	case ByteString:
		return n.createDefaultByteString()
	case Enumerated:
		return n.createDefaultEnumerated()
	case Array:
		return n.createDefaultArray(includeAll)
	case Map:
		return n.createDefaultMap()
	case StandardObject, TokenizableObject:
		return n.createDefaultObject(includeAll)
	case Structure:
		return n.createDefaultStructure(includeAll)
	case Selection:
		return n.createDefaultSelection(includeAll)
	default:
		return failedSchema()
	}
}

// validate dispatches structural validation. When recursive is false, only
// this node's own shape is checked, not its children's — the mode expand
// and tokenize use before converting children themselves.
func (n *Node) validate(item *dataitem.Item, isTokenized bool, recursive bool, p path, sink WarningSink) bool {
	if item == nil {
		warn(sink, p, "value is missing")
		return false
	}
	switch n.kind {
	case Boolean:
		return n.validateBoolean(item, p, sink)
	case Integer:
		return n.validateInteger(item, p, sink)
	case Number:
		return n.validateNumber(item, p, sink)
	case TextString:
		return n.validateTextString(item, p, sink)
	case ByteString:
		return n.validateByteString(item, p, sink)
	case Enumerated:
		return n.validateEnumerated(item, isTokenized, p, sink)
	case Array:
		return n.validateArray(item, isTokenized, recursive, p, sink)
	case Map:
		return n.validateMap(item, isTokenized, recursive, p, sink)
	case StandardObject:
		return n.validateStandardObject(item, isTokenized, recursive, p, sink)
	case TokenizableObject:
		return n.validateTokenizableObject(item, isTokenized, recursive, p, sink)
	case Structure:
		return n.validateStructure(item, isTokenized, recursive, p, sink)
	case Selection:
		return n.validateSelection(item, isTokenized, recursive, p, sink)
	default:
		warn(sink, p, "unknown node kind")
		return false
	}
}

// expand dispatches tokenized-to-expanded conversion.
func (n *Node) expand(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	if !n.validate(item, true, false, p, sink) {
		warn(sink, p, "value does not match the tokenized shape")
		return failedSchema()
	}
	switch n.kind {
	case Boolean, Integer, TextString, ByteString:
		return n.passThrough(item, dataitem.Expanded)
	case Number:
		return n.expandNumber(item)
	case Enumerated:
		return n.expandEnumerated(item, p, sink)
	case Array:
		return n.expandArray(item, p, sink)
	case Map:
		return n.expandMap(item, p, sink)
	case StandardObject:
		return n.expandStandardObject(item, p, sink)
	case TokenizableObject:
		return n.expandTokenizableObject(item, p, sink)
	case Structure:
		return n.expandStructure(item, p, sink)
	case Selection:
		return n.expandSelection(item, p, sink)
	default:
		return failedSchema()
	}
}

// tokenize dispatches expanded-to-tokenized conversion.
func (n *Node) tokenize(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	if !n.validate(item, false, false, p, sink) {
		warn(sink, p, "value does not match the expanded shape")
		return failedSchema()
	}
	switch n.kind {
	case Boolean, Integer, TextString, ByteString:
		return n.passThrough(item, dataitem.Tokenized)
	case Number:
		return n.tokenizeNumber(item)
	case Enumerated:
		return n.tokenizeEnumerated(item, p, sink)
	case Array:
		return n.tokenizeArray(item, p, sink)
	case Map:
		return n.tokenizeMap(item, p, sink)
	case StandardObject:
		return n.tokenizeStandardObject(item, p, sink)
	case TokenizableObject:
		return n.tokenizeTokenizableObject(item, p, sink)
	case Structure:
		return n.tokenizeStructure(item, p, sink)
	case Selection:
		return n.tokenizeSelection(item, p, sink)
	default:
		return failedSchema()
	}
}

// passThrough is shared by the leaf kinds whose tokenized and expanded
// shapes are identical: a clone with status set to the target.
func (n *Node) passThrough(item *dataitem.Item, status dataitem.DecodeStatus) *dataitem.Item {
	cp := item.Clone()
	_ = cp.SetStatus(status)
	return cp
}

package schema

import "github.com/relaycore/dataitem/dataitem"

// Definition is an immutable, built schema: a resolved Node tree plus the
// title and warning sink it was constructed with. Safe for concurrent read
// use per spec.md §5 — nothing is mutated after Builder.Build returns.
type Definition struct {
	title string
	root  *Node
	sink  WarningSink
}

// Title returns the document's declared title.
func (d *Definition) Title() string { return d.title }

// Logger returns the warning sink this Definition reports through. May be
// nil, meaning warnings are suppressed.
func (d *Definition) Logger() WarningSink { return d.sink }

// CreateDefault synthesises a value satisfying the schema. includeAll=false
// omits optional children throughout the tree.
func (d *Definition) CreateDefault(includeAll bool) *dataitem.Item {
	return d.root.createDefault(includeAll)
}

// Validate structurally checks item against the schema, recursing into
// every child. isTokenized selects which of the two dual shapes (tokenized
// or expanded) the item is expected to be in.
func (d *Definition) Validate(item *dataitem.Item, isTokenized bool) bool {
	return d.root.validate(item, isTokenized, true, rootPath(), d.sink)
}

// Expand converts item from its tokenized shape to its expanded shape. A
// structurally invalid item yields a FAILED_SCHEMA placeholder plus a
// warning on the sink.
func (d *Definition) Expand(item *dataitem.Item) *dataitem.Item {
	return d.root.expand(item, rootPath(), d.sink)
}

// Tokenize converts item from its expanded shape to its tokenized shape,
// dual to Expand.
func (d *Definition) Tokenize(item *dataitem.Item) *dataitem.Item {
	return d.root.tokenize(item, rootPath(), d.sink)
}

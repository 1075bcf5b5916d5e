package schema

import "github.com/relaycore/dataitem/dataitem"

// propertyDef describes one STANDARD_OBJECT/TOKENIZABLE_OBJECT property.
type propertyDef struct {
	name     string
	schema   *Node
	required bool
	token    int64 // only meaningful for TOKENIZABLE_OBJECT
}

// recordDef describes one STRUCTURE record entry.
type recordDef struct {
	name     string
	schema   *Node
	required bool
	index    int
}

// formatDef describes one SELECTION discriminated format.
type formatDef struct {
	identifier string
	schema     *Node
	token      int64
}

// unknownToken and unknownIdentifier are reserved across ENUMERATED,
// TOKENIZABLE_OBJECT-adjacent SELECTION, matching spec §4.3.1/§4.3.5: token
// 0 and the identifier "unknown" are never assignable by schema authors.
const (
	unknownToken      int64 = 0
	unknownIdentifier       = "unknown"
)

// Node is a schema tree node: a common header (spec §4.3's "common options
// parsed by the builder") plus a kind discriminant and one payload field
// set per of the twelve kinds — a sum type via discriminant, mirroring
// dataitem.Item's own variant-dispatch design, since Go has no inheritance
// and the kind set is closed.
type Node struct {
	kind        NodeKind
	name        string
	description string
	tagValues   []int32
	tokenValue  int64
	optional    bool
	final       bool

	// BOOLEAN
	boolDefault bool

	// INTEGER
	intDefault    int64
	hasIntDefault bool
	intMin        int64
	intMax        int64
	hasIntMin     bool
	hasIntMax     bool
	intExcludeMin bool
	intExcludeMax bool

	// NUMBER
	numDefault    float64
	hasNumDefault bool
	precision     dataitem.Variant
	numMin        float64
	numMax        float64
	hasNumMin     bool
	hasNumMax     bool
	numExcludeMin bool
	numExcludeMax bool

	// TEXT_STRING / BYTE_STRING
	textDefault     string
	hasTextDefault  bool
	bytesDefault    []byte
	hasBytesDefault bool
	minLength       int
	maxLength       int
	hasMinLength    bool
	hasMaxLength    bool

	// ENUMERATED
	enumTextToToken map[string]int64
	enumTokenToText map[int64]string
	enumDefault     string

	// ARRAY
	valuesSchema *Node
	arrMinLength int
	arrMaxLength int
	hasArrMin    bool
	hasArrMax    bool

	// MAP
	mapValuesSchema *Node

	// STANDARD_OBJECT / TOKENIZABLE_OBJECT
	properties []*propertyDef

	// STRUCTURE
	records []*recordDef

	// SELECTION
	formats          []*formatDef
	selectionDefault string
}

// Kind returns the node's concrete shape.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the builder-assigned name (the map key this node was parsed
// from, such as a property, record or format name).
func (n *Node) Name() string { return n.name }

// Final reports whether this node rejects unknown members/tokens. Always
// false for kinds that don't carry the flag.
func (n *Node) Final() bool { return n.final }

// clone duplicates a node (and its subtree) so that a reference from
// "definitions" can be customised at its use site (name/tokenValue/
// optional) without mutating the shared prototype, per spec §4.3.6.
func (n *Node) clone() *Node {
	cp := *n
	cp.tagValues = append([]int32(nil), n.tagValues...)

	if n.valuesSchema != nil {
		cp.valuesSchema = n.valuesSchema.clone()
	}
	if n.mapValuesSchema != nil {
		cp.mapValuesSchema = n.mapValuesSchema.clone()
	}
	if n.properties != nil {
		cp.properties = make([]*propertyDef, len(n.properties))
		for i, p := range n.properties {
			cloned := *p
			cloned.schema = p.schema.clone()
			cp.properties[i] = &cloned
		}
	}
	if n.records != nil {
		cp.records = make([]*recordDef, len(n.records))
		for i, r := range n.records {
			cloned := *r
			cloned.schema = r.schema.clone()
			cp.records[i] = &cloned
		}
	}
	if n.formats != nil {
		cp.formats = make([]*formatDef, len(n.formats))
		for i, f := range n.formats {
			cloned := *f
			cloned.schema = f.schema.clone()
			cp.formats[i] = &cloned
		}
	}
	if n.enumTextToToken != nil {
		cp.enumTextToToken = make(map[string]int64, len(n.enumTextToToken))
		for k, v := range n.enumTextToToken {
			cp.enumTextToToken[k] = v
		}
		cp.enumTokenToText = make(map[int64]string, len(n.enumTokenToText))
		for k, v := range n.enumTokenToText {
			cp.enumTokenToText[k] = v
		}
	}
	return &cp
}

package schema

import (
	"math"

	"github.com/relaycore/dataitem/dataitem"
)

// Builder parses a schema document — a NAMED_MAP produced by either codec —
// into a Definition, per spec.md §4.3.6/§6.3.
type Builder struct{}

// NewBuilder returns a ready-to-use Builder. Builder holds no state.
func NewBuilder() Builder { return Builder{} }

type builder struct {
	rawDefinitions map[string]*dataitem.Item
	resolved       map[string]*Node
	resolving      map[string]bool
}

// Build parses root into a Definition. sink receives runtime validation
// warnings from the resulting Definition's operations; it takes no part in
// building itself (a malformed document is always a Go error).
func (Builder) Build(root *dataitem.Item, sink WarningSink) (*Definition, error) {
	if root == nil || root.Variant() != dataitem.NamedMap {
		return nil, &InvalidSchemaError{Path: "root", Err: ErrInvalidRootType}
	}
	title, ok := getText(root, "title")
	if !ok {
		return nil, &InvalidSchemaError{Path: "root", Err: ErrMissingField}
	}

	b := &builder{
		rawDefinitions: map[string]*dataitem.Item{},
		resolved:       map[string]*Node{},
		resolving:      map[string]bool{},
	}
	if defs, ok := getNamedMap(root, "definitions"); ok {
		keys, _ := defs.NamedMapKeys()
		for _, k := range keys {
			v, _ := defs.NamedMapGet(k)
			b.rawDefinitions[k] = v
		}
	}

	rootDef, ok := getField(root, "root")
	if !ok {
		return nil, &InvalidSchemaError{Path: "root", Err: ErrMissingField}
	}
	rootNode, err := b.parseNodeDef(rootDef, "root", rootPath())
	if err != nil {
		return nil, err
	}
	return &Definition{title: title, root: rootNode, sink: sink}, nil
}

func (b *builder) resolveDefinition(typeName string, p path) (*Node, error) {
	if n, ok := b.resolved[typeName]; ok {
		return n, nil
	}
	if b.resolving[typeName] {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrUnknownTypeRef}
	}
	raw, ok := b.rawDefinitions[typeName]
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrUnknownTypeRef}
	}
	b.resolving[typeName] = true
	node, err := b.parseNodeDef(raw, typeName, p.field("definitions").field(typeName))
	delete(b.resolving, typeName)
	if err != nil {
		return nil, err
	}
	b.resolved[typeName] = node
	return node, nil
}

// parseNodeDef parses one schema-node NAMED_MAP, dispatching on its "type"
// field to either a built-in kind parser or a definitions lookup.
func (b *builder) parseNodeDef(def *dataitem.Item, name string, p path) (*Node, error) {
	if def == nil || def.Variant() != dataitem.NamedMap {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrWrongFieldType}
	}
	typeName, ok := getText(def, "type")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}

	var node *Node
	var err error
	switch typeName {
	case "boolean":
		node, err = b.parseBoolean(def, p)
	case "integer":
		node, err = b.parseInteger(def, p)
	case "number":
		node, err = b.parseNumber(def, p)
	case "string":
		node, err = b.parseTextString(def, p)
	case "encoded":
		node, err = b.parseByteString(def, p)
	case "enumerated":
		node, err = b.parseEnumerated(def, p)
	case "array":
		node, err = b.parseArray(def, p)
	case "map":
		node, err = b.parseMap(def, p)
	case "object":
		if tokenize, _ := getBool(def, "tokenize"); tokenize {
			node, err = b.parseTokenizableObject(def, p)
		} else {
			node, err = b.parseStandardObject(def, p)
		}
	case "structure":
		node, err = b.parseStructure(def, p)
	case "selection":
		node, err = b.parseSelection(def, p)
	default:
		proto, perr := b.resolveDefinition(typeName, p)
		if perr != nil {
			return nil, perr
		}
		node = proto.clone()
	}
	if err != nil {
		return nil, err
	}

	node.name = name
	if desc, ok := getText(def, "description"); ok {
		node.description = desc
	}
	if opt, ok := getBool(def, "optional"); ok {
		node.optional = opt
	}
	return node, nil
}

// boolField reads the shared "final" flag; absent defaults to false.
func boolField(def *dataitem.Item) bool {
	v, _ := getBool(def, "final")
	return v
}

// -- leaf kinds ---------------------------------------------------------------

func (b *builder) parseBoolean(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Boolean}
	if v, ok := getBool(def, "default"); ok {
		n.boolDefault = v
	}
	return n, nil
}

func (b *builder) parseInteger(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Integer}
	if v, ok := getInt(def, "minValue"); ok {
		n.intMin, n.hasIntMin = v, true
	}
	if v, ok := getInt(def, "maxValue"); ok {
		n.intMax, n.hasIntMax = v, true
	}
	n.intExcludeMin, _ = getBool(def, "excludeMin")
	n.intExcludeMax, _ = getBool(def, "excludeMax")
	if v, ok := getInt(def, "default"); ok {
		n.intDefault, n.hasIntDefault = v, true
		if !n.validateInteger(factory.Integer(v), p, nil) {
			return nil, &InvalidSchemaError{Path: p.String(), Err: ErrDefaultOutOfRange}
		}
	}
	return n, nil
}

func (b *builder) parseNumber(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Number, precision: dataitem.FloatDouble}
	if prec, ok := getText(def, "precision"); ok {
		switch prec {
		case "half":
			n.precision = dataitem.FloatHalf
		case "standard":
			n.precision = dataitem.FloatStandard
		case "double":
			n.precision = dataitem.FloatDouble
		default:
			return nil, &InvalidSchemaError{Path: p.String(), Err: ErrWrongFieldType}
		}
	}
	if v, ok := getFloat(def, "minValue"); ok {
		n.numMin, n.hasNumMin = v, true
	}
	if v, ok := getFloat(def, "maxValue"); ok {
		n.numMax, n.hasNumMax = v, true
	}
	n.numExcludeMin, _ = getBool(def, "excludeMin")
	n.numExcludeMax, _ = getBool(def, "excludeMax")
	if v, ok := getFloat(def, "default"); ok {
		if isNaNOrInf(v) {
			return nil, &InvalidSchemaError{Path: p.String(), Err: ErrDefaultOutOfRange}
		}
		n.numDefault, n.hasNumDefault = v, true
		if !n.validateNumber(factory.FloatDouble(v), p, nil) {
			return nil, &InvalidSchemaError{Path: p.String(), Err: ErrDefaultOutOfRange}
		}
	}
	return n, nil
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func (b *builder) parseTextString(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: TextString}
	if v, ok := getInt(def, "minLength"); ok {
		n.minLength, n.hasMinLength = int(v), true
	}
	if v, ok := getInt(def, "maxLength"); ok {
		n.maxLength, n.hasMaxLength = int(v), true
	}
	if v, ok := getText(def, "default"); ok {
		n.textDefault, n.hasTextDefault = v, true
	}
	return n, nil
}

func (b *builder) parseByteString(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: ByteString}
	if v, ok := getInt(def, "minLength"); ok {
		n.minLength, n.hasMinLength = int(v), true
	}
	if v, ok := getInt(def, "maxLength"); ok {
		n.maxLength, n.hasMaxLength = int(v), true
	}
	if v, ok := getBytes(def, "default"); ok {
		n.bytesDefault, n.hasBytesDefault = v, true
	}
	return n, nil
}

func (b *builder) parseEnumerated(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Enumerated, final: boolField(def)}
	values, ok := getNamedMap(def, "values")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	n.enumTextToToken = map[string]int64{}
	n.enumTokenToText = map[int64]string{}
	keys, _ := values.NamedMapKeys()
	for _, k := range keys {
		if k == unknownIdentifier {
			return nil, &InvalidSchemaError{Path: p.String(), Err: ErrReservedToken}
		}
		v, _ := values.NamedMapGet(k)
		token, ok := v.AsInt64()
		if !ok {
			return nil, &InvalidSchemaError{Path: p.field(k).String(), Err: ErrWrongFieldType}
		}
		if token == unknownToken {
			return nil, &InvalidSchemaError{Path: p.field(k).String(), Err: ErrReservedToken}
		}
		if _, dup := n.enumTokenToText[token]; dup {
			return nil, &InvalidSchemaError{Path: p.field(k).String(), Err: ErrDuplicateToken}
		}
		n.enumTextToToken[k] = token
		n.enumTokenToText[token] = k
	}
	defaultValue, ok := getText(def, "default")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	if _, known := n.enumTextToToken[defaultValue]; !known {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrDefaultOutOfRange}
	}
	n.enumDefault = defaultValue
	return n, nil
}

// -- containers -----------------------------------------------------------

func (b *builder) parseArray(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Array}
	entries, ok := getField(def, "entries")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	child, err := b.parseNodeDef(entries, "entries", p.field("entries"))
	if err != nil {
		return nil, err
	}
	n.valuesSchema = child
	if length, ok := getInt(def, "length"); ok {
		n.arrMinLength, n.hasArrMin = int(length), true
		n.arrMaxLength, n.hasArrMax = int(length), true
	} else {
		if v, ok := getInt(def, "minLength"); ok {
			n.arrMinLength, n.hasArrMin = int(v), true
		}
		if v, ok := getInt(def, "maxLength"); ok {
			n.arrMaxLength, n.hasArrMax = int(v), true
		}
	}
	return n, nil
}

func (b *builder) parseMap(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Map}
	entries, ok := getField(def, "entries")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	child, err := b.parseNodeDef(entries, "entries", p.field("entries"))
	if err != nil {
		return nil, err
	}
	n.mapValuesSchema = child
	return n, nil
}

// -- objects ----------------------------------------------------------------

func (b *builder) parseStandardObject(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: StandardObject, final: boolField(def)}
	props, ok := getNamedMap(def, "properties")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	keys, _ := props.NamedMapKeys()
	for _, k := range keys {
		v, _ := props.NamedMapGet(k)
		child, err := b.parseNodeDef(v, k, p.field("properties").field(k))
		if err != nil {
			return nil, err
		}
		required, _ := getBool(v, "required")
		n.properties = append(n.properties, &propertyDef{name: k, schema: child, required: required})
	}
	return n, nil
}

func (b *builder) parseTokenizableObject(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: TokenizableObject, final: boolField(def)}
	props, ok := getNamedMap(def, "properties")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	seen := map[int64]bool{}
	keys, _ := props.NamedMapKeys()
	for _, k := range keys {
		v, _ := props.NamedMapGet(k)
		child, err := b.parseNodeDef(v, k, p.field("properties").field(k))
		if err != nil {
			return nil, err
		}
		required, _ := getBool(v, "required")
		token, ok := getInt(v, "token")
		if !ok {
			return nil, &InvalidSchemaError{Path: p.field("properties").field(k).String(), Err: ErrMissingField}
		}
		if token == unknownToken {
			return nil, &InvalidSchemaError{Path: p.field("properties").field(k).String(), Err: ErrReservedToken}
		}
		if seen[token] {
			return nil, &InvalidSchemaError{Path: p.field("properties").field(k).String(), Err: ErrDuplicateToken}
		}
		seen[token] = true
		n.properties = append(n.properties, &propertyDef{name: k, schema: child, required: required, token: token})
	}
	return n, nil
}

// -- structure --------------------------------------------------------------

func (b *builder) parseStructure(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Structure, final: boolField(def)}
	records, ok := getNamedMap(def, "records")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	keys, _ := records.NamedMapKeys()
	seenIndex := map[int]bool{}
	for _, k := range keys {
		v, _ := records.NamedMapGet(k)
		child, err := b.parseNodeDef(v, k, p.field("records").field(k))
		if err != nil {
			return nil, err
		}
		required, _ := getBool(v, "required")
		idx, ok := getInt(v, "index")
		if !ok {
			return nil, &InvalidSchemaError{Path: p.field("records").field(k).String(), Err: ErrMissingField}
		}
		if idx < 0 || int(idx) >= len(keys) {
			return nil, &InvalidSchemaError{Path: p.field("records").field(k).String(), Err: ErrBadIndexRange}
		}
		if seenIndex[int(idx)] {
			return nil, &InvalidSchemaError{Path: p.field("records").field(k).String(), Err: ErrDuplicateIndex}
		}
		seenIndex[int(idx)] = true
		n.records = append(n.records, &recordDef{name: k, schema: child, required: required, index: int(idx)})
	}
	return n, nil
}

// -- selection --------------------------------------------------------------

func (b *builder) parseSelection(def *dataitem.Item, p path) (*Node, error) {
	n := &Node{kind: Selection, final: boolField(def)}
	formats, ok := getNamedMap(def, "formats")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	seen := map[int64]bool{}
	keys, _ := formats.NamedMapKeys()
	for _, k := range keys {
		if k == unknownIdentifier {
			return nil, &InvalidSchemaError{Path: p.field("formats").field(k).String(), Err: ErrReservedToken}
		}
		v, _ := formats.NamedMapGet(k)
		child, err := b.parseNodeDef(v, k, p.field("formats").field(k))
		if err != nil {
			return nil, err
		}
		token, ok := getInt(v, "token")
		if !ok {
			return nil, &InvalidSchemaError{Path: p.field("formats").field(k).String(), Err: ErrMissingField}
		}
		if token == unknownToken {
			return nil, &InvalidSchemaError{Path: p.field("formats").field(k).String(), Err: ErrReservedToken}
		}
		if seen[token] {
			return nil, &InvalidSchemaError{Path: p.field("formats").field(k).String(), Err: ErrDuplicateToken}
		}
		seen[token] = true
		n.formats = append(n.formats, &formatDef{identifier: k, schema: child, token: token})
	}
	defaultIdentifier, ok := getText(def, "default")
	if !ok {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrMissingField}
	}
	if _, known := n.formatByIdentifier(defaultIdentifier); !known {
		return nil, &InvalidSchemaError{Path: p.String(), Err: ErrDefaultOutOfRange}
	}
	n.selectionDefault = defaultIdentifier
	return n, nil
}

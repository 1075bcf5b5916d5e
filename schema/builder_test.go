package schema

import (
	"testing"

	"github.com/relaycore/dataitem/dataitem"
	"github.com/stretchr/testify/require"
)

var f = dataitem.NewFactory()

// node builds a schema-document node-def NAMED_MAP from key/value pairs.
func node(pairs ...interface{}) *dataitem.Item {
	m := f.NamedMap()
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)
		var value *dataitem.Item
		switch v := pairs[i+1].(type) {
		case *dataitem.Item:
			value = v
		case string:
			value = f.TextString(v)
		case int:
			value = f.Integer(int64(v))
		case int64:
			value = f.Integer(v)
		case bool:
			value = f.Boolean(v)
		case float64:
			value = f.FloatDouble(v)
		default:
			panic("unsupported literal in test node()")
		}
		_ = dataitem.SetProperty(m, key, value)
	}
	return m
}

func doc(root *dataitem.Item) *dataitem.Item {
	return node("title", "test schema", "root", root)
}

func buildOrFail(t *testing.T, root *dataitem.Item) *Definition {
	t.Helper()
	def, err := NewBuilder().Build(doc(root), nil)
	require.NoError(t, err)
	return def
}

func TestBuildRequiresTitleAndRoot(t *testing.T) {
	_, err := NewBuilder().Build(f.NamedMap(), nil)
	require.Error(t, err)
}

func TestBooleanDefaultAndValidate(t *testing.T) {
	def := buildOrFail(t, node("type", "boolean", "default", true))

	require.Equal(t, true, mustBool(def.CreateDefault(false)))
	require.True(t, def.Validate(f.Boolean(false), false))
	require.False(t, def.Validate(f.Integer(1), false))
}

func mustBool(it *dataitem.Item) bool {
	v, _ := it.AsBool()
	return v
}

func TestIntegerRangeAndDomainClamp(t *testing.T) {
	def := buildOrFail(t, node("type", "integer", "minValue", 0, "maxValue", 10))

	require.True(t, def.Validate(f.Integer(5), false))
	require.False(t, def.Validate(f.Integer(11), false))
	require.False(t, def.Validate(f.Integer(1<<53+1), false))
}

func TestIntegerBuildRejectsOutOfRangeDefault(t *testing.T) {
	_, err := NewBuilder().Build(doc(node("type", "integer", "minValue", 0, "maxValue", 10, "default", 99)), nil)
	require.Error(t, err)
}

func TestNumberTokenizePrecisionAndExpandWidens(t *testing.T) {
	def := buildOrFail(t, node("type", "number", "precision", "half"))

	tokenized := def.Tokenize(f.FloatDouble(1.5))
	require.Equal(t, dataitem.FloatHalf, tokenized.Variant())

	expanded := def.Expand(tokenized)
	require.Equal(t, dataitem.FloatDouble, expanded.Variant())
	v, _ := expanded.AsFloat64()
	require.InDelta(t, 1.5, v, 0.001)
}

func TestTextStringLengthBounds(t *testing.T) {
	def := buildOrFail(t, node("type", "string", "minLength", 2, "maxLength", 4))

	require.True(t, def.Validate(f.TextString("abc"), false))
	require.False(t, def.Validate(f.TextString("a"), false))
	require.False(t, def.Validate(f.TextString("abcde"), false))
}

func TestTextStringLengthBoundsCountBytesNotRunes(t *testing.T) {
	// "日本" is 2 runes but 6 UTF-8 bytes — a rune-counting bound would wrongly
	// accept it against a 4-byte maximum and reject it against a 5-byte minimum.
	def := buildOrFail(t, node("type", "string", "minLength", 5, "maxLength", 8))

	require.True(t, def.Validate(f.TextString("日本"), false))
	require.False(t, buildOrFail(t, node("type", "string", "maxLength", 4)).
		Validate(f.TextString("日本"), false))
}

func TestByteStringAcceptsBase64Text(t *testing.T) {
	def := buildOrFail(t, node("type", "encoded"))

	require.True(t, def.Validate(f.TextString("aGVsbG8"), false))
	require.False(t, def.Validate(f.TextString("not base64!!"), false))
}

func TestEnumeratedTokenizeExpandExtensible(t *testing.T) {
	values := f.NamedMap()
	_ = dataitem.SetProperty(values, "red", f.Integer(1))
	_ = dataitem.SetProperty(values, "blue", f.Integer(2))
	def := buildOrFail(t, node("type", "enumerated", "values", values, "default", "red"))

	tokenized := def.Tokenize(f.TextString("blue"))
	require.Equal(t, int64(2), mustInt(tokenized))

	// Unknown text maps to token 0 on an extensible (non-final) schema.
	unknownTok := def.Tokenize(f.TextString("green"))
	require.Equal(t, int64(0), mustInt(unknownTok))

	expanded := def.Expand(f.Integer(0))
	text, _ := expanded.AsText()
	require.Equal(t, "unknown", text)
}

func mustInt(it *dataitem.Item) int64 {
	v, _ := it.AsInt64()
	return v
}

func TestEnumeratedFinalRejectsUnknown(t *testing.T) {
	values := f.NamedMap()
	_ = dataitem.SetProperty(values, "red", f.Integer(1))
	def := buildOrFail(t, node("type", "enumerated", "values", values, "default", "red", "final", true))

	require.False(t, def.Validate(f.TextString("green"), false))
	require.True(t, def.Expand(f.Integer(1)).Status() == dataitem.Expanded)
	require.True(t, def.Expand(f.Integer(99)).IsFailure())
}

func TestArrayLengthAndRecursion(t *testing.T) {
	def := buildOrFail(t, node("type", "array", "entries", node("type", "integer"), "minLength", 1, "maxLength", 3))

	require.True(t, def.Validate(f.Array(f.Integer(1), f.Integer(2)), false))
	require.False(t, def.Validate(f.Array(), false))
	require.False(t, def.Validate(f.Array(f.Integer(1), f.TextString("x")), false))
}

func TestArrayDefaultIsMinLengthCopies(t *testing.T) {
	def := buildOrFail(t, node("type", "array", "entries", node("type", "integer", "default", 7), "length", 2))

	out := def.CreateDefault(false)
	elements, _ := out.Array()
	require.Len(t, elements, 2)
	require.Equal(t, int64(7), mustInt(elements[0]))
}

func TestMapValidatesEntries(t *testing.T) {
	def := buildOrFail(t, node("type", "map", "entries", node("type", "boolean")))

	m := f.NamedMap()
	_ = dataitem.SetProperty(m, "a", f.Boolean(true))
	require.True(t, def.Validate(m, false))

	bad := f.NamedMap()
	_ = dataitem.SetProperty(bad, "a", f.Integer(1))
	require.False(t, def.Validate(bad, false))
}

func TestStandardObjectRequiredAndFinal(t *testing.T) {
	props := f.NamedMap()
	_ = dataitem.SetProperty(props, "name", node("type", "string"))
	_ = dataitem.SetProperty(props, "age", node("type", "integer", "required", true))
	def := buildOrFail(t, node("type", "object", "properties", props, "final", true))

	valid := f.NamedMap()
	_ = dataitem.SetProperty(valid, "age", f.Integer(30))
	require.True(t, def.Validate(valid, false))

	missing := f.NamedMap()
	require.False(t, def.Validate(missing, false))

	extra := f.NamedMap()
	_ = dataitem.SetProperty(extra, "age", f.Integer(30))
	_ = dataitem.SetProperty(extra, "nickname", f.TextString("x"))
	require.False(t, def.Validate(extra, false))
}

func TestTokenizableObjectRoundTrip(t *testing.T) {
	props := f.NamedMap()
	nameDef := node("type", "string")
	_ = dataitem.SetProperty(nameDef, "token", f.Integer(1))
	_ = dataitem.SetProperty(nameDef, "required", f.Boolean(true))
	_ = dataitem.SetProperty(props, "name", nameDef)
	def := buildOrFail(t, node("type", "object", "tokenize", true, "properties", props))

	expanded := f.NamedMap()
	_ = dataitem.SetProperty(expanded, "name", f.TextString("ok"))

	tokenized := def.Tokenize(expanded)
	require.Equal(t, dataitem.IndexedMap, tokenized.Variant())
	v, ok := tokenized.IndexedMapGet(1)
	require.True(t, ok)
	text, _ := v.AsText()
	require.Equal(t, "ok", text)

	back := def.Expand(tokenized)
	require.Equal(t, dataitem.NamedMap, back.Variant())
	nv, _ := back.NamedMapGet("name")
	nt, _ := nv.AsText()
	require.Equal(t, "ok", nt)
}

func TestTokenizableObjectAcceptsDecimalStringKeyMap(t *testing.T) {
	props := f.NamedMap()
	nameDef := node("type", "string")
	_ = dataitem.SetProperty(nameDef, "token", f.Integer(1))
	_ = dataitem.SetProperty(props, "name", nameDef)
	def := buildOrFail(t, node("type", "object", "tokenize", true, "properties", props))

	decimalKeyed := f.NamedMap()
	_ = dataitem.SetProperty(decimalKeyed, "1", f.TextString("ok"))
	require.True(t, def.Validate(decimalKeyed, true))

	rejected := f.NamedMap()
	_ = dataitem.SetProperty(rejected, "+1", f.TextString("ok"))
	require.False(t, def.Validate(rejected, true))

	rejectedNegZero := f.NamedMap()
	_ = dataitem.SetProperty(rejectedNegZero, "-0", f.TextString("ok"))
	require.False(t, def.Validate(rejectedNegZero, true))
}

func TestStructureIndexPermutationAndShortArray(t *testing.T) {
	records := f.NamedMap()
	first := node("type", "string")
	_ = dataitem.SetProperty(first, "index", f.Integer(0))
	_ = dataitem.SetProperty(first, "required", f.Boolean(true))
	second := node("type", "integer")
	_ = dataitem.SetProperty(second, "index", f.Integer(1))
	_ = dataitem.SetProperty(records, "name", first)
	_ = dataitem.SetProperty(records, "age", second)
	def := buildOrFail(t, node("type", "structure", "records", records))

	// Short array: "age" missing, synthesised as UNDEFINED, optional so OK.
	require.True(t, def.Validate(f.Array(f.TextString("x")), true))

	expanded := def.Expand(f.Array(f.TextString("x")))
	require.Equal(t, dataitem.NamedMap, expanded.Variant())
	_, hasAge := expanded.NamedMapGet("age")
	require.False(t, hasAge)

	tokenized := def.Tokenize(doc_expandedStructure())
	elements, _ := tokenized.Array()
	require.Len(t, elements, 2)
}

func doc_expandedStructure() *dataitem.Item {
	m := f.NamedMap()
	_ = dataitem.SetProperty(m, "name", f.TextString("y"))
	return m
}

func TestStructureBuildRejectsBadIndices(t *testing.T) {
	records := f.NamedMap()
	only := node("type", "string")
	_ = dataitem.SetProperty(only, "index", f.Integer(5))
	_ = dataitem.SetProperty(records, "name", only)
	_, err := NewBuilder().Build(doc(node("type", "structure", "records", records)), nil)
	require.Error(t, err)
}

func TestSelectionDualShapeAndExtensibleFallback(t *testing.T) {
	formats := f.NamedMap()
	a := node("type", "string")
	_ = dataitem.SetProperty(a, "token", f.Integer(1))
	_ = dataitem.SetProperty(formats, "text", a)
	b := node("type", "integer")
	_ = dataitem.SetProperty(b, "token", f.Integer(2))
	_ = dataitem.SetProperty(formats, "number", b)
	def := buildOrFail(t, node("type", "selection", "formats", formats, "default", "text"))

	expanded := f.NamedMap()
	_ = dataitem.SetProperty(expanded, "number", f.Integer(42))
	tokenized := def.Tokenize(expanded)
	elements, _ := tokenized.Array()
	require.Equal(t, int64(2), mustInt(elements[0]))

	back := def.Expand(tokenized)
	v, ok := back.NamedMapGet("number")
	require.True(t, ok)
	require.Equal(t, int64(42), mustInt(v))

	// Extensible fallback: reserved token 0 with an UNDEFINED payload.
	fallback := def.Expand(f.Array(f.Integer(0), f.Undefined()))
	_, isUnknown := fallback.NamedMapGet("unknown")
	require.True(t, isUnknown)
}

func TestDefinitionsDuplicateDoesNotLeakOverrides(t *testing.T) {
	b := NewBuilder()
	def, err := b.Build(node(
		"title", "t",
		"definitions", node("point", node("type", "integer", "default", 5)),
		"root", node("type", "object", "properties", node(
			"x", node("type", "point", "optional", true),
			"y", node("type", "point"),
		)),
	), nil)
	require.NoError(t, err)

	out := def.CreateDefault(true)
	x, _ := out.NamedMapGet("x")
	y, _ := out.NamedMapGet("y")
	require.Equal(t, int64(5), mustInt(x))
	require.Equal(t, int64(5), mustInt(y))

	// The "optional" override on x must stay on x's own copy of the prototype.
	require.True(t, def.root.properties[0].schema.optional)
	require.False(t, def.root.properties[1].schema.optional)
}

package djson

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/relaycore/dataitem/dataitem"
	"github.com/stretchr/testify/require"
)

func encodeItem(t *testing.T, it *dataitem.Item, pretty bool) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(it, pretty))
	return buf.String()
}

func decodeString(t *testing.T, s string) *dataitem.Item {
	t.Helper()
	it, err := NewDecoder(bytes.NewReader([]byte(s))).Decode()
	require.NoError(t, err)
	return it
}

func TestEncodeCompactPrimitives(t *testing.T) {
	f := dataitem.NewFactory()
	require.Equal(t, "42", encodeItem(t, f.Integer(42), false))
	require.Equal(t, "-1", encodeItem(t, f.Integer(-1), false))
	require.Equal(t, "true", encodeItem(t, f.Boolean(true), false))
	require.Equal(t, "false", encodeItem(t, f.Boolean(false), false))
	require.Equal(t, "null", encodeItem(t, f.Null(), false))
	require.Equal(t, `"hi"`, encodeItem(t, f.TextString("hi"), false))
}

func TestEncodeNonFiniteFloatIsNull(t *testing.T) {
	f := dataitem.NewFactory()
	require.Equal(t, "null", encodeItem(t, f.FloatDouble(math.NaN()), false))
}

func TestEncodeByteStringIsBase64URL(t *testing.T) {
	f := dataitem.NewFactory()
	got := encodeItem(t, f.ByteString([]byte("hello")), false)
	require.Equal(t, `"aGVsbG8"`, got)
}

func TestEncodeStringEscaping(t *testing.T) {
	f := dataitem.NewFactory()
	got := encodeItem(t, f.TextString("a\tb\"c\\d"), false)
	require.Equal(t, `"a\tb\"c\\d"`, got)
}

func TestEncodePrettyArray(t *testing.T) {
	f := dataitem.NewFactory()
	arr := f.Array(f.Integer(1), f.Integer(2))
	got := encodeItem(t, arr, true)
	require.Equal(t, "[\n\t1,\n\t2\n]", got)
}

func TestEncodePrettyObject(t *testing.T) {
	f := dataitem.NewFactory()
	m := f.NamedMap()
	require.NoError(t, dataitem.SetProperty(m, "a", f.Integer(1)))
	got := encodeItem(t, m, true)
	require.Equal(t, "{\n\t\"a\" : 1\n}", got)
}

func TestEncodeIndexedMapKeysAsDecimalStrings(t *testing.T) {
	f := dataitem.NewFactory()
	m := f.IndexedMap()
	require.NoError(t, dataitem.SetEntry(m, 7, f.TextString("x")))
	got := encodeItem(t, m, false)
	require.Equal(t, `{"7":"x"}`, got)
}

func TestEncodeCannotEncodeSimpleOrUndefined(t *testing.T) {
	f := dataitem.NewFactory()
	var buf bytes.Buffer
	require.ErrorIs(t, NewEncoder(&buf).Encode(f.Simple(5), false), ErrCannotEncodeVariant)
	require.ErrorIs(t, NewEncoder(&buf).Encode(f.Undefined(), false), ErrCannotEncodeVariant)
}

func TestDecodePrimitives(t *testing.T) {
	it := decodeString(t, `42`)
	v, ok := it.AsInt64()
	require.True(t, ok)
	require.EqualValues(t, 42, v)

	it = decodeString(t, `3.5`)
	require.Equal(t, dataitem.FloatDouble, it.Variant())
	fv, ok := it.AsFloat64()
	require.True(t, ok)
	require.Equal(t, 3.5, fv)

	it = decodeString(t, `true`)
	bv, _ := it.AsBool()
	require.True(t, bv)

	it = decodeString(t, `null`)
	require.Equal(t, dataitem.Null, it.Variant())
}

func TestDecodeCommentsAreTolerated(t *testing.T) {
	it := decodeString(t, "// leading comment\n{\n  \"a\": 1 /* inline */, \"b\": 2\n}\n")
	require.Equal(t, dataitem.NamedMap, it.Variant())
	a, ok := it.NamedMapGet("a")
	require.True(t, ok)
	v, _ := a.AsInt64()
	require.EqualValues(t, 1, v)
}

func TestDecodeDuplicateKeyFirstWinsAndDowngrades(t *testing.T) {
	it := decodeString(t, `{"a": 1, "a": 2}`)
	require.Equal(t, dataitem.WellFormed, it.Status())
	v, ok := it.NamedMapGet("a")
	require.True(t, ok)
	got, _ := v.AsInt64()
	require.EqualValues(t, 1, got)
}

func TestDecodeUnicodeEscapeAndSurrogatePair(t *testing.T) {
	it := decodeString(t, "\"AB\\ud83d\\ude00\"")
	text, ok := it.AsText()
	require.True(t, ok)
	require.Equal(t, "AB\U0001F600", text)
}

func TestDecodeRawUTF8Passthrough(t *testing.T) {
	it := decodeString(t, `"café"`)
	text, ok := it.AsText()
	require.True(t, ok)
	require.Equal(t, "café", text)
}

func TestDecodeUXXXXEscapeForm(t *testing.T) {
	it := decodeString(t, `"AB\u0041\ud83d\ude00"`)
	text, ok := it.AsText()
	require.True(t, ok)
	require.Equal(t, "ABA\U0001F600", text)
}

func TestDecodeMalformedIsInvalid(t *testing.T) {
	it := decodeString(t, `{"a": }`)
	require.True(t, it.IsFailure())
	require.Equal(t, dataitem.Invalid, it.Status())
}

func TestRoundTripArray(t *testing.T) {
	f := dataitem.NewFactory()
	arr := f.Array(f.Integer(1), f.TextString("x"), f.Boolean(true))
	wire := encodeItem(t, arr, false)
	got := decodeString(t, wire)
	require.Equal(t, dataitem.Array, got.Variant())
	require.Equal(t, 3, got.Len())
}

func TestDecodeReturnsEOFAtCleanStreamEnd(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader(nil)).Decode()
	require.ErrorIs(t, err, io.EOF)
}

package cbor

import (
	"bytes"
	"io"
	"testing"

	"github.com/relaycore/dataitem/dataitem"
	"github.com/stretchr/testify/require"
)

func encodeItem(t *testing.T, it *dataitem.Item) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(it))
	return buf.Bytes()
}

func decodeBytes(t *testing.T, data []byte) *dataitem.Item {
	t.Helper()
	it, err := NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return it
}

func TestEncodeIntegerHeadMinimality(t *testing.T) {
	f := dataitem.NewFactory()

	require.Equal(t, []byte{0x17}, encodeItem(t, f.Integer(23)))
	require.Equal(t, []byte{0x18, 0x18}, encodeItem(t, f.Integer(24)))
	require.Equal(t, []byte{
		0x3B, 0, 0, 0, 0, 0, 0, 0, 0,
	}, encodeItem(t, f.Integer(-1)))
}

func TestDecodeIndefiniteTextStringList(t *testing.T) {
	wire := []byte{0x7F, 0x65, 'H', 'e', 'l', 'l', 'o', 0x65, 'W', 'o', 'r', 'l', 'd', 0xFF}
	it := decodeBytes(t, wire)

	require.Equal(t, dataitem.TextStringList, it.Variant())
	require.Equal(t, dataitem.Translatable, it.Status())
	text, ok := it.AsText()
	require.True(t, ok)
	require.Equal(t, "HelloWorld", text)
}

func TestRoundTripPrimitives(t *testing.T) {
	f := dataitem.NewFactory()
	items := []*dataitem.Item{
		f.Integer(0),
		f.Integer(23),
		f.Integer(24),
		f.Integer(-1),
		f.Integer(-1000),
		f.Boolean(true),
		f.Boolean(false),
		f.Null(),
		f.Undefined(),
		f.TextString("hello"),
		f.ByteString([]byte{1, 2, 3}),
		f.FloatDouble(3.5),
		f.FloatStandard(1.5),
		f.FloatHalf(2.0),
	}

	for _, original := range items {
		wire := encodeItem(t, original)
		got := decodeBytes(t, wire)
		require.True(t, original.Equal(got), "round trip mismatch for variant %s", original.Variant())
		require.Equal(t, dataitem.Translatable, got.Status())
	}
}

func TestRoundTripArrayAndMaps(t *testing.T) {
	f := dataitem.NewFactory()

	arr := f.Array(f.Integer(1), f.Integer(2), f.TextString("x"))
	got := decodeBytes(t, encodeItem(t, arr))
	require.True(t, arr.Equal(got))

	named := f.NamedMap()
	require.NoError(t, dataitem.SetProperty(named, "a", f.Integer(1)))
	require.NoError(t, dataitem.SetProperty(named, "b", f.TextString("y")))
	gotNamed := decodeBytes(t, encodeItem(t, named))
	require.Equal(t, dataitem.NamedMap, gotNamed.Variant())
	require.True(t, named.Equal(gotNamed))

	indexed := f.IndexedMap()
	require.NoError(t, dataitem.SetEntry(indexed, 1, f.Integer(10)))
	require.NoError(t, dataitem.SetEntry(indexed, 2, f.Integer(20)))
	gotIndexed := decodeBytes(t, encodeItem(t, indexed))
	require.Equal(t, dataitem.IndexedMap, gotIndexed.Variant())
	require.True(t, indexed.Equal(gotIndexed))
}

func TestDecodeMapKeyKindMismatchIsUnsupported(t *testing.T) {
	// {"a": 1, 2: 3} — text key then integer key.
	wire := []byte{
		0xA2,
		0x61, 'a', 0x01,
		0x02, 0x03,
	}
	it := decodeBytes(t, wire)
	require.True(t, it.IsFailure())
	require.Equal(t, dataitem.Unsupported, it.Status())
}

func TestDecodeDuplicateKeyKeepsFirstAndDowngrades(t *testing.T) {
	// {"a": 1, "a": 2}
	wire := []byte{
		0xA2,
		0x61, 'a', 0x01,
		0x61, 'a', 0x02,
	}
	it := decodeBytes(t, wire)
	require.False(t, it.IsFailure())
	require.Equal(t, dataitem.WellFormed, it.Status())

	v, ok := it.NamedMapGet("a")
	require.True(t, ok)
	got, _ := v.AsInt64()
	require.EqualValues(t, 1, got)
}

func TestDecodeEmptyMap(t *testing.T) {
	it := decodeBytes(t, []byte{0xA0})
	require.Equal(t, dataitem.EmptyMap, it.Variant())
	require.Equal(t, dataitem.Translatable, it.Status())
}

func TestDecodeEOFDuringRequiredReadIsInvalid(t *testing.T) {
	// A one-byte text string head promising 5 bytes, but only 2 are present.
	wire := []byte{0x65, 'H', 'i'}
	it := decodeBytes(t, wire)
	require.True(t, it.IsFailure())
	require.Equal(t, dataitem.Invalid, it.Status())
}

func TestDecodeReturnsEOFAtCleanStreamEnd(t *testing.T) {
	dec := NewDecoder(bytes.NewReader(nil))
	_, err := dec.Decode()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeTagStack(t *testing.T) {
	// tag(1)(tag(2)(42))
	wire := []byte{0xC1, 0xC2, 0x18, 0x2A}
	it := decodeBytes(t, wire)
	require.False(t, it.IsFailure())
	require.Equal(t, []int32{1, 2}, it.Tags())
	v, ok := it.AsInt64()
	require.True(t, ok)
	require.EqualValues(t, 42, v)
}

func TestEncodeFailureStatusRejected(t *testing.T) {
	it := dataitem.RawInteger(0, dataitem.Invalid)
	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(it)
	require.ErrorIs(t, err, ErrCannotEncodeFailure)
}

func TestHalfPrecisionRoundTrip(t *testing.T) {
	f := dataitem.NewFactory()
	for _, v := range []float64{0, 1, -2, 0.5, 65504} {
		wire := encodeItem(t, f.FloatHalf(v))
		got := decodeBytes(t, wire)
		gv, ok := got.AsFloat64()
		require.True(t, ok)
		require.InDelta(t, v, gv, 0.001)
	}
}

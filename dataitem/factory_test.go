package dataitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactorySimpleDomain(t *testing.T) {
	f := NewFactory()

	for _, v := range []byte{0, 10, 19, 32, 100, 255} {
		it := f.Simple(v)
		require.False(t, it.IsFailure(), "value %d should be valid", v)
		got, ok := it.AsSimple()
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	for v := 20; v <= 31; v++ {
		it := f.Simple(byte(v))
		require.True(t, it.IsFailure(), "reserved value %d should be invalid", v)
		require.Equal(t, Invalid, it.Status())
	}
}

func TestFactoryByteStringFromBase64(t *testing.T) {
	f := NewFactory()

	// "hello" base64url without padding.
	it := f.ByteStringFromBase64("aGVsbG8")
	require.False(t, it.IsFailure())
	got, ok := it.AsBytes()
	require.True(t, ok)
	require.Equal(t, []byte("hello"), got)

	// length == 1 mod 4 is never valid.
	bad := f.ByteStringFromBase64("a")
	require.True(t, bad.IsFailure())
}

func TestFactoryTextStringListIsIndefinite(t *testing.T) {
	it := NewFactory().TextStringList("Hello", "World")
	require.True(t, it.IndefiniteLength())
	text, ok := it.AsText()
	require.True(t, ok)
	require.Equal(t, "HelloWorld", text)
}

func TestFactoryNamedMapRejectsDuplicates(t *testing.T) {
	m := NewFactory().NamedMap()
	require.NoError(t, SetProperty(m, "a", NewFactory().Integer(1)))
	err := SetProperty(m, "a", NewFactory().Integer(2))
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestFactoryIndexedMapRejectsDuplicates(t *testing.T) {
	m := NewFactory().IndexedMap()
	require.NoError(t, SetEntry(m, 1, NewFactory().Integer(1)))
	err := SetEntry(m, 1, NewFactory().Integer(2))
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDecodedContainerIsImmutable(t *testing.T) {
	m := RawNamedMap([]string{"a"}, []*Item{RawInteger(1, Translatable)}, false, false, Translatable)
	err := SetProperty(m, "b", RawInteger(2, Translatable))
	require.ErrorIs(t, err, ErrImmutable)
}

func TestArrayAppend(t *testing.T) {
	arr := NewFactory().Array(NewFactory().Integer(1))
	require.NoError(t, AppendElement(arr, NewFactory().Integer(2)))
	elems, ok := arr.Array()
	require.True(t, ok)
	require.Len(t, elems, 2)
}

package dataitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullAndUndefinedReadAsFalseBool(t *testing.T) {
	f := NewFactory()

	n, ok := f.Null().AsBool()
	require.True(t, ok)
	require.False(t, n)

	u, ok := f.Undefined().AsBool()
	require.True(t, ok)
	require.False(t, u)
}

func TestCloneIsIndependent(t *testing.T) {
	arr := NewFactory().Array(NewFactory().Integer(1), NewFactory().Integer(2))
	require.NoError(t, arr.SetTags([]int32{5}))

	clone := arr.Clone()
	require.True(t, arr.Equal(clone))

	require.NoError(t, AppendElement(clone, NewFactory().Integer(3)))
	require.Equal(t, 2, arr.Len())
	require.Equal(t, 3, clone.Len())
}

func TestEqualIgnoresMutabilityAndStatus(t *testing.T) {
	a := RawInteger(42, Translatable)
	b := NewFactory().Integer(42)
	require.True(t, a.Equal(b))
}

func TestSetTagsRejectsNegative(t *testing.T) {
	it := NewFactory().Integer(1)
	err := it.SetTags([]int32{1, -1})
	require.Error(t, err)
}

func TestNamedMapAccessors(t *testing.T) {
	m := NewFactory().NamedMap()
	require.NoError(t, SetProperty(m, "x", NewFactory().TextString("hi")))
	keys, ok := m.NamedMapKeys()
	require.True(t, ok)
	require.Equal(t, []string{"x"}, keys)

	v, ok := m.NamedMapGet("x")
	require.True(t, ok)
	text, _ := v.AsText()
	require.Equal(t, "hi", text)

	_, ok = m.NamedMapGet("missing")
	require.False(t, ok)
}

package dataitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allStatuses = []DecodeStatus{
	Invalid, Unsupported, FailedSchema, WellFormed, Tokenized, Expanded, Translatable, Original,
}

func TestJoinCommutative(t *testing.T) {
	for _, a := range allStatuses {
		for _, b := range allStatuses {
			require.Equal(t, Join(a, b), Join(b, a), "join(%v,%v) != join(%v,%v)", a, b, b, a)
		}
	}
}

func TestJoinAssociative(t *testing.T) {
	for _, a := range allStatuses {
		for _, b := range allStatuses {
			for _, c := range allStatuses {
				left := Join(a, Join(b, c))
				right := Join(Join(a, b), c)
				require.Equal(t, left, right, "join not associative for %v,%v,%v", a, b, c)
			}
		}
	}
}

func TestJoinIsMinPriority(t *testing.T) {
	require.Equal(t, Invalid, Join(Invalid, Original))
	require.Equal(t, WellFormed, Join(WellFormed, Translatable))
	require.Equal(t, Tokenized, Join(Tokenized, Expanded))
}

func TestIsFailure(t *testing.T) {
	require.True(t, Invalid.IsFailure())
	require.True(t, Unsupported.IsFailure())
	require.True(t, FailedSchema.IsFailure())
	require.False(t, WellFormed.IsFailure())
	require.False(t, Tokenized.IsFailure())
	require.False(t, Expanded.IsFailure())
	require.False(t, Translatable.IsFailure())
	require.False(t, Original.IsFailure())
}

func TestSetStatusMonotonicity(t *testing.T) {
	it := NewFactory().Integer(1)
	require.NoError(t, it.SetStatus(Translatable))

	require.NoError(t, it.SetStatus(Unsupported))
	require.True(t, it.IsFailure())

	err := it.SetStatus(WellFormed)
	require.ErrorIs(t, err, ErrIllegalStateTransition)
	require.Equal(t, Unsupported, it.Status())

	// Assigning another failure status is idempotent (always permitted).
	require.NoError(t, it.SetStatus(Invalid))
	require.Equal(t, Invalid, it.Status())
	require.NoError(t, it.SetStatus(FailedSchema))
	require.Equal(t, FailedSchema, it.Status())
}

func TestJoinAllDowngradesOnFailure(t *testing.T) {
	require.Equal(t, WellFormed, JoinAll(Translatable, WellFormed, Expanded))
	require.Equal(t, Invalid, JoinAll(Original, Translatable, Invalid))
}

package dataitem

import (
	"errors"
	"fmt"
)

// Sentinel errors for Item construction and mutation, in the same flat
// sentinel-plus-wrapper style the codec layer uses for its own failures.
var (
	// ErrIllegalStateTransition is returned by SetStatus when a failure
	// status would move back to a non-failure status.
	ErrIllegalStateTransition = errors.New("dataitem: illegal decode-status transition")
	// ErrImmutable is returned when a mutation is attempted on an item
	// produced by a decoder rather than the Factory.
	ErrImmutable = errors.New("dataitem: item is immutable")
	// ErrDuplicateKey is returned when a constructed map already holds the
	// given key.
	ErrDuplicateKey = errors.New("dataitem: duplicate key")
	// ErrWrongVariant is returned when an operation expects a different
	// variant than the one the item holds.
	ErrWrongVariant = errors.New("dataitem: wrong variant")
	// ErrNegativeTag is returned when SetTags is given a negative value.
	ErrNegativeTag = errors.New("dataitem: tag values must be non-negative")
)

// ItemError wraps an Item-model failure with the variant it occurred on.
type ItemError struct {
	Err     error
	Variant Variant
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("dataitem: %s: %v", e.Variant, e.Err)
}

// Unwrap returns the underlying error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

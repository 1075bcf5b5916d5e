package cbor

import (
	"errors"
	"fmt"
)

// Malformed wire data never produces one of these errors — it is reported
// through the decoded item's decode status instead (see
// dataitem.DecodeStatus and its failure kinds). These sentinels cover
// genuine misuse and structural limits on an in-memory item tree that the
// caller is asking the Encoder to write: a tree too deep to encode safely,
// or an item in a shape the encoder cannot serialise at all.
var (
	// ErrNestingTooDeep is returned when an item tree being encoded exceeds
	// the maximum nesting depth.
	ErrNestingTooDeep = errors.New("cbor: item tree exceeds maximum nesting depth")

	// ErrCannotEncodeFailure is returned when asked to encode an item whose
	// decode status is already a failure kind.
	ErrCannotEncodeFailure = errors.New("cbor: cannot encode an item carrying a failure decode status")

	// ErrUnknownVariant is returned when an item carries a Variant value
	// the encoder does not recognize.
	ErrUnknownVariant = errors.New("cbor: item has an unrecognized variant")
)

// CborError wraps a lower-level error with the variant under encode/decode
// when that context helps diagnose the failure.
type CborError struct {
	Err     error
	Variant string
}

// Error implements the error interface.
func (e *CborError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("cbor: %s: %v", e.Variant, e.Err)
	}
	return fmt.Sprintf("cbor: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CborError) Unwrap() error {
	return e.Err
}

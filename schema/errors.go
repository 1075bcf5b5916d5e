package schema

import (
	"errors"
	"fmt"
)

// Schema construction (parsing a schema document) is programmer-visible
// configuration, not runtime data, so it raises an error rather than
// carrying a decode-status-like result (spec §7). Runtime operations
// (validate/expand/tokenize) never return a Go error for bad input data —
// they return an item with FAILED_SCHEMA status and report through a
// WarningSink instead.
var (
	ErrMissingField      = errors.New("schema: required field missing")
	ErrWrongFieldType    = errors.New("schema: field has the wrong type")
	ErrUnknownTypeRef    = errors.New("schema: type references an undefined name in definitions")
	ErrDuplicateIndex    = errors.New("schema: duplicate structure index")
	ErrDuplicateToken    = errors.New("schema: duplicate token value")
	ErrBadIndexRange     = errors.New("schema: structure indices are not a permutation of [0,N)")
	ErrReservedToken     = errors.New("schema: token 0 and identifier \"unknown\" are reserved")
	ErrDefaultOutOfRange = errors.New("schema: default value violates the node's own constraints")
	ErrInvalidRootType   = errors.New("schema: root document must be a NAMED_MAP")
)

// InvalidSchemaError reports a schema-document parse failure together with
// the dotted path (e.g. "root.records.foo.bar[3]") that located it.
type InvalidSchemaError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvalidSchemaError) Unwrap() error {
	return e.Err
}

// WarningSink receives human-readable validation warnings together with
// the hierarchical dotted path that produced them. A nil sink suppresses
// warnings without changing any operation's return value.
type WarningSink interface {
	Warn(path string, message string)
}

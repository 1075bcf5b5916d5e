package dataitem

// DecodeStatus records how much a decode or schema operation trusts an
// Item. The eight values carry a total priority ordering; Join yields the
// least-strict (minimum priority) of any pair, and the aggregate status of
// a compound item is the Join across its children.
type DecodeStatus int

const (
	// Invalid marks an RFC violation, EOF, or other unrecoverable
	// decode failure. Payload reads are unspecified.
	Invalid DecodeStatus = iota
	// Unsupported marks a value outside this implementation's declared
	// limits (length, integer domain, tag range).
	Unsupported
	// FailedSchema marks an item a schema operation rejected.
	FailedSchema
	// WellFormed marks an item that parsed but is semantically dubious
	// (duplicate keys, an unrecognised simple value).
	WellFormed
	// Tokenized marks an item produced by schema.Definition.Tokenize.
	Tokenized
	// Expanded marks an item produced by schema.Definition.Expand.
	Expanded
	// Translatable marks a clean decode that a codec can losslessly
	// re-encode.
	Translatable
	// Original marks an item built through the Factory, never decoded.
	Original
)

var statusNames = [...]string{
	Invalid:      "INVALID",
	Unsupported:  "UNSUPPORTED",
	FailedSchema: "FAILED_SCHEMA",
	WellFormed:   "WELL_FORMED",
	Tokenized:    "TOKENIZED",
	Expanded:     "EXPANDED",
	Translatable: "TRANSLATABLE",
	Original:     "ORIGINAL",
}

// String renders the status name for diagnostics.
func (s DecodeStatus) String() string {
	if int(s) >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// IsFailure reports whether s is one of the three failure kinds (Invalid,
// Unsupported, FailedSchema). Payload reads on a failure item are
// unspecified but safe.
func (s DecodeStatus) IsFailure() bool {
	return s <= FailedSchema
}

// Join returns the least-strict-criteria of a and b: the minimum-priority
// status. Join is commutative and associative, so it folds over any number
// of children in any order.
func Join(a, b DecodeStatus) DecodeStatus {
	if a < b {
		return a
	}
	return b
}

// JoinAll folds Join across a slice of statuses, starting from Original
// (the join identity: Original never lowers another status below it).
func JoinAll(statuses ...DecodeStatus) DecodeStatus {
	result := Original
	for _, s := range statuses {
		result = Join(result, s)
	}
	return result
}

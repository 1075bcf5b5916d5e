package schema

import (
	"encoding/base64"
	"strconv"
)

// parseStrictDecimalKey parses a tokenized-object decimal-string map key
// into its int64 token value. Per spec §4.3.3/§4.3.6: a leading
// '+' is rejected, and the canonical negative zero "-0" is rejected, so
// the string and integer representations stay in bijection.
func parseStrictDecimalKey(s string) (int64, bool) {
	if s == "" || s == "-0" {
		return 0, false
	}
	if s[0] == '+' {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	// Reject inputs strconv tolerates but the bijection doesn't, such as
	// leading zeros on a non-zero magnitude ("007").
	canonical := strconv.FormatInt(v, 10)
	if canonical != s {
		return 0, false
	}
	return v, true
}

// decodeBase64URL accepts Base64-URL text with or without padding,
// mirroring the Factory's own rule in dataitem so BYTE_STRING nodes can
// transparently accept a text-carrying input.
func decodeBase64URL(text string) ([]byte, bool) {
	if len(text)%4 == 1 {
		return nil, false
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(text); err == nil {
		return decoded, true
	}
	decoded, err := base64.URLEncoding.DecodeString(text)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

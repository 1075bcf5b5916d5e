package schema

import "github.com/relaycore/dataitem/dataitem"

var factory = dataitem.NewFactory()

// -- BOOLEAN --------------------------------------------------------------

func (n *Node) createDefaultBoolean() *dataitem.Item {
	return factory.Boolean(n.boolDefault)
}

func (n *Node) validateBoolean(item *dataitem.Item, p path, sink WarningSink) bool {
	if _, ok := item.AsBool(); !ok || item.Variant() != dataitem.Boolean {
		warn(sink, p, "expected a boolean")
		return false
	}
	return true
}

// -- INTEGER ----------------------------------------------------------------

// integerDomainBound is the hard ±2^53 clamp (spec §4.3.1: JavaScript-safe
// integer range), applied regardless of any narrower configured bounds.
const integerDomainBound int64 = 1 << 53

func (n *Node) createDefaultInteger() *dataitem.Item {
	v := int64(0)
	if n.hasIntDefault {
		v = n.intDefault
	}
	return factory.Integer(v)
}

func (n *Node) validateInteger(item *dataitem.Item, p path, sink WarningSink) bool {
	v, ok := item.AsInt64()
	if !ok {
		warn(sink, p, "expected an integer")
		return false
	}
	if v > integerDomainBound || v < -integerDomainBound {
		warn(sink, p, "integer exceeds the ±2^53 domain bound")
		return false
	}
	if n.hasIntMin {
		if n.intExcludeMin && v <= n.intMin {
			warn(sink, p, "integer at or below the exclusive minimum")
			return false
		}
		if !n.intExcludeMin && v < n.intMin {
			warn(sink, p, "integer below the minimum")
			return false
		}
	}
	if n.hasIntMax {
		if n.intExcludeMax && v >= n.intMax {
			warn(sink, p, "integer at or above the exclusive maximum")
			return false
		}
		if !n.intExcludeMax && v > n.intMax {
			warn(sink, p, "integer above the maximum")
			return false
		}
	}
	return true
}

// -- NUMBER -----------------------------------------------------------------

func (n *Node) createDefaultNumber() *dataitem.Item {
	v := 0.0
	if n.hasNumDefault {
		v = n.numDefault
	}
	return n.numberAtPrecision(v)
}

func (n *Node) numberAtPrecision(v float64) *dataitem.Item {
	switch n.precision {
	case dataitem.FloatHalf:
		return factory.FloatHalf(v)
	case dataitem.FloatStandard:
		return factory.FloatStandard(v)
	default:
		return factory.FloatDouble(v)
	}
}

func (n *Node) validateNumber(item *dataitem.Item, p path, sink WarningSink) bool {
	v, ok := item.AsFloat64()
	if !ok {
		warn(sink, p, "expected a number")
		return false
	}
	if n.hasNumMin {
		if n.numExcludeMin && !(v > n.numMin) {
			warn(sink, p, "number at or below the exclusive minimum")
			return false
		}
		if !n.numExcludeMin && !(v >= n.numMin) {
			warn(sink, p, "number below the minimum")
			return false
		}
	}
	if n.hasNumMax {
		if n.numExcludeMax && !(v < n.numMax) {
			warn(sink, p, "number at or above the exclusive maximum")
			return false
		}
		if !n.numExcludeMax && !(v <= n.numMax) {
			warn(sink, p, "number above the maximum")
			return false
		}
	}
	return true
}

// expandNumber widens a tokenized NUMBER (whichever configured precision)
// to FLOAT_DOUBLE, the canonical expanded representation.
func (n *Node) expandNumber(item *dataitem.Item) *dataitem.Item {
	v, _ := item.AsFloat64()
	out := factory.FloatDouble(v)
	_ = out.SetStatus(dataitem.Expanded)
	return withTags(out, item)
}

// tokenizeNumber narrows an expanded double down to the node's configured
// wire precision.
func (n *Node) tokenizeNumber(item *dataitem.Item) *dataitem.Item {
	v, _ := item.AsFloat64()
	out := n.numberAtPrecision(v)
	_ = out.SetStatus(dataitem.Tokenized)
	return withTags(out, item)
}

// -- TEXT_STRING --------------------------------------------------------------

func (n *Node) createDefaultTextString() *dataitem.Item {
	v := ""
	if n.hasTextDefault {
		v = n.textDefault
	}
	return factory.TextString(v)
}

func (n *Node) validateTextString(item *dataitem.Item, p path, sink WarningSink) bool {
	v, ok := item.AsText()
	if !ok {
		warn(sink, p, "expected a string")
		return false
	}
	length := len(v)
	if n.hasMinLength && length < n.minLength {
		warn(sink, p, "string shorter than the minimum length")
		return false
	}
	if n.hasMaxLength && length > n.maxLength {
		warn(sink, p, "string longer than the maximum length")
		return false
	}
	return true
}

// -- BYTE_STRING ("encoded") ---------------------------------------------------

func (n *Node) createDefaultByteString() *dataitem.Item {
	if n.hasBytesDefault {
		return factory.ByteString(n.bytesDefault)
	}
	return factory.ByteString(nil)
}

// byteStringPayload reads a BYTE_STRING node's value, transparently
// accepting a text-carrying Base64-URL representation in addition to the
// native byte-string shape.
func (n *Node) byteStringPayload(item *dataitem.Item) ([]byte, bool) {
	if b, ok := item.AsBytes(); ok {
		return b, true
	}
	if text, ok := item.AsText(); ok {
		return decodeBase64URL(text)
	}
	return nil, false
}

func (n *Node) validateByteString(item *dataitem.Item, p path, sink WarningSink) bool {
	v, ok := n.byteStringPayload(item)
	if !ok {
		warn(sink, p, "expected a byte string")
		return false
	}
	if n.hasMinLength && len(v) < n.minLength {
		warn(sink, p, "byte string shorter than the minimum length")
		return false
	}
	if n.hasMaxLength && len(v) > n.maxLength {
		warn(sink, p, "byte string longer than the maximum length")
		return false
	}
	return true
}

// -- ENUMERATED -----------------------------------------------------------------

func (n *Node) createDefaultEnumerated() *dataitem.Item {
	return factory.TextString(n.enumDefault)
}

func (n *Node) validateEnumerated(item *dataitem.Item, isTokenized bool, p path, sink WarningSink) bool {
	if isTokenized {
		token, ok := item.AsInt64()
		if !ok {
			warn(sink, p, "expected a tokenized enumerated value")
			return false
		}
		// An extensible enumeration accepts any token; Expand maps the
		// unrecognised ones to "unknown".
		if _, known := n.enumTokenToText[token]; known || !n.final {
			return true
		}
		warn(sink, p, "unrecognized enumerated token")
		return false
	}
	text, ok := item.AsText()
	if !ok {
		warn(sink, p, "expected an enumerated string")
		return false
	}
	// An extensible enumeration accepts any text; Tokenize maps the
	// unrecognised ones to token 0.
	if _, known := n.enumTextToToken[text]; known || !n.final {
		return true
	}
	warn(sink, p, "unrecognized enumerated value")
	return false
}

func (n *Node) expandEnumerated(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	token, _ := item.AsInt64()
	text, known := n.enumTokenToText[token]
	if !known {
		text = unknownIdentifier
	}
	out := factory.TextString(text)
	_ = out.SetStatus(dataitem.Expanded)
	return withTags(out, item)
}

func (n *Node) tokenizeEnumerated(item *dataitem.Item, p path, sink WarningSink) *dataitem.Item {
	text, _ := item.AsText()
	token, known := n.enumTextToToken[text]
	if !known {
		token = unknownToken
	}
	out := factory.Integer(token)
	_ = out.SetStatus(dataitem.Tokenized)
	return withTags(out, item)
}

package djson

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/relaycore/dataitem/dataitem"
)

const maxNestingDepth = 64

// Encoder writes dataitem.Item trees as the library's JSON dialect: RFC
// 8259 plus Base64-URL-without-padding byte strings and non-finite floats
// written as null (spec §4.2.1). An Encoder holds only its writer and is
// not safe to share across goroutines.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for JSON encoding.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one complete JSON value for it. pretty selects tab-indented
// multi-line output (" : " key/value separator, ",\n\t…" delimiters, a
// trailing "\n\t…" before each closing bracket) over compact,
// whitespace-free output. Returns ErrCannotEncodeFailure if it carries a
// failure decode status, or ErrCannotEncodeVariant for SIMPLE/UNDEFINED,
// which have no JSON representation.
func (e *Encoder) Encode(it *dataitem.Item, pretty bool) error {
	return e.encodeItem(it, 0, pretty)
}

func (e *Encoder) write(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}

func (e *Encoder) indent(depth int) error {
	for i := 0; i < depth; i++ {
		if err := e.write("\t"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeItem(it *dataitem.Item, depth int, pretty bool) error {
	if depth > maxNestingDepth {
		return ErrNestingTooDeep
	}
	if it.IsFailure() {
		return ErrCannotEncodeFailure
	}

	switch it.Variant() {
	case dataitem.Integer:
		v, _ := it.AsInt64()
		return e.write(strconv.FormatInt(v, 10))
	case dataitem.FloatHalf, dataitem.FloatStandard, dataitem.FloatDouble:
		v, _ := it.AsFloat64()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return e.write("null")
		}
		return e.write(strconv.FormatFloat(v, 'g', -1, 64))
	case dataitem.Boolean:
		v, _ := it.AsBool()
		if v {
			return e.write("true")
		}
		return e.write("false")
	case dataitem.Null:
		return e.write("null")
	case dataitem.TextString, dataitem.TextStringList:
		text, _ := it.AsText()
		return e.writeQuotedString(text)
	case dataitem.ByteString, dataitem.ByteStringList:
		raw, _ := it.AsBytes()
		return e.writeQuotedString(base64.RawURLEncoding.EncodeToString(raw))
	case dataitem.Array:
		return e.encodeArray(it, depth, pretty)
	case dataitem.NamedMap:
		return e.encodeNamedMap(it, depth, pretty)
	case dataitem.IndexedMap:
		return e.encodeIndexedMap(it, depth, pretty)
	case dataitem.EmptyMap:
		return e.write("{}")
	default:
		return ErrCannotEncodeVariant
	}
}

func (e *Encoder) writeQuotedString(s string) error {
	if err := e.write("\""); err != nil {
		return err
	}
	for _, r := range s {
		switch r {
		case '\b':
			if err := e.write(`\b`); err != nil {
				return err
			}
		case '\f':
			if err := e.write(`\f`); err != nil {
				return err
			}
		case '\n':
			if err := e.write(`\n`); err != nil {
				return err
			}
		case '\r':
			if err := e.write(`\r`); err != nil {
				return err
			}
		case '\t':
			if err := e.write(`\t`); err != nil {
				return err
			}
		case '\\':
			if err := e.write(`\\`); err != nil {
				return err
			}
		case '"':
			if err := e.write(`\"`); err != nil {
				return err
			}
		default:
			if err := e.write(string(r)); err != nil {
				return err
			}
		}
	}
	return e.write("\"")
}

func (e *Encoder) encodeArray(it *dataitem.Item, depth int, pretty bool) error {
	elements, _ := it.Array()
	if len(elements) == 0 {
		return e.write("[]")
	}
	if err := e.write("["); err != nil {
		return err
	}
	for i, child := range elements {
		if i > 0 {
			if err := e.write(","); err != nil {
				return err
			}
		}
		if pretty {
			if err := e.write("\n"); err != nil {
				return err
			}
			if err := e.indent(depth + 1); err != nil {
				return err
			}
		}
		if err := e.encodeItem(child, depth+1, pretty); err != nil {
			return err
		}
	}
	if pretty {
		if err := e.write("\n"); err != nil {
			return err
		}
		if err := e.indent(depth); err != nil {
			return err
		}
	}
	return e.write("]")
}

func (e *Encoder) encodeNamedMap(it *dataitem.Item, depth int, pretty bool) error {
	keys, _ := it.NamedMapKeys()
	if len(keys) == 0 {
		return e.write("{}")
	}
	if err := e.write("{"); err != nil {
		return err
	}
	for i, k := range keys {
		if i > 0 {
			if err := e.write(","); err != nil {
				return err
			}
		}
		if pretty {
			if err := e.write("\n"); err != nil {
				return err
			}
			if err := e.indent(depth + 1); err != nil {
				return err
			}
		}
		if err := e.writeQuotedString(k); err != nil {
			return err
		}
		sep := ":"
		if pretty {
			sep = " : "
		}
		if err := e.write(sep); err != nil {
			return err
		}
		v, _ := it.NamedMapGet(k)
		if err := e.encodeItem(v, depth+1, pretty); err != nil {
			return err
		}
	}
	if pretty {
		if err := e.write("\n"); err != nil {
			return err
		}
		if err := e.indent(depth); err != nil {
			return err
		}
	}
	return e.write("}")
}

func (e *Encoder) encodeIndexedMap(it *dataitem.Item, depth int, pretty bool) error {
	keys, _ := it.IndexedMapKeys()
	if len(keys) == 0 {
		return e.write("{}")
	}
	if err := e.write("{"); err != nil {
		return err
	}
	for i, k := range keys {
		if i > 0 {
			if err := e.write(","); err != nil {
				return err
			}
		}
		if pretty {
			if err := e.write("\n"); err != nil {
				return err
			}
			if err := e.indent(depth + 1); err != nil {
				return err
			}
		}
		// JSON has no integer keys; indexed-map keys carry as their
		// decimal string form, the same convention schema's
		// TOKENIZABLE_OBJECT accepts back on decode.
		if err := e.writeQuotedString(fmt.Sprintf("%d", k)); err != nil {
			return err
		}
		sep := ":"
		if pretty {
			sep = " : "
		}
		if err := e.write(sep); err != nil {
			return err
		}
		v, _ := it.IndexedMapGet(k)
		if err := e.encodeItem(v, depth+1, pretty); err != nil {
			return err
		}
	}
	if pretty {
		if err := e.write("\n"); err != nil {
			return err
		}
		if err := e.indent(depth); err != nil {
			return err
		}
	}
	return e.write("}")
}

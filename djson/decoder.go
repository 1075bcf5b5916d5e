package djson

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/relaycore/dataitem/dataitem"
)

// Decoder reads one JSON-dialect value per Decode call from a byte stream
// (no event/streaming API, matching the codec layer's other format). A
// Decoder holds only its reader and is not safe to share across
// goroutines.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r for JSON decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads one complete JSON value and returns it as a dataitem.Item.
// The returned error is non-nil only for a genuine stream I/O failure,
// including a clean end of stream reported as io.EOF once comments and
// whitespace have been skipped with nothing left to read. Any lexical or
// grammar violation is reported through the item's decode status
// (Invalid), never through the returned error (spec §4.2.2).
func (d *Decoder) Decode() (*dataitem.Item, error) {
	ranOut, err := d.skipSpaceAndComments()
	if err != nil {
		return nil, err
	}
	if ranOut {
		return nil, io.EOF
	}
	item, ranOut, err := d.decodeValue(0)
	if err != nil {
		return nil, err
	}
	if ranOut {
		return dataitem.RawInteger(0, dataitem.Invalid), nil
	}
	return item, nil
}

func isEOFish(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// peekByte returns the next byte without consuming it. ranOut is true at a
// clean end of stream; err is non-nil only for a genuine I/O failure.
func (d *Decoder) peekByte() (b byte, ranOut bool, err error) {
	buf, err := d.r.Peek(1)
	if err != nil {
		if isEOFish(err) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return buf[0], false, nil
}

func (d *Decoder) readByte() (b byte, ranOut bool, err error) {
	bb, err := d.r.ReadByte()
	if err != nil {
		if isEOFish(err) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return bb, false, nil
}

// skipSpaceAndComments discards whitespace and //.../*...*/ comments.
func (d *Decoder) skipSpaceAndComments() (ranOut bool, err error) {
	for {
		b, ranOut, err := d.peekByte()
		if err != nil {
			return false, err
		}
		if ranOut {
			return true, nil
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			_, _, _ = d.readByte()
			continue
		case b == '/':
			pair, perr := d.r.Peek(2)
			if perr != nil && !isEOFish(perr) {
				return false, perr
			}
			if len(pair) < 2 || (pair[1] != '/' && pair[1] != '*') {
				// a lone trailing '/' or one that does not start a comment:
				// leave it unread so the caller's grammar check rejects it.
				return false, nil
			}
			next := pair[1]
			_, _, _ = d.readByte()
			_, _, _ = d.readByte()
			switch next {
			case '/':
				if err := d.skipLineComment(); err != nil {
					return false, err
				}
			case '*':
				if err := d.skipBlockComment(); err != nil {
					return false, err
				}
			}
		default:
			return false, nil
		}
	}
}

func (d *Decoder) skipLineComment() error {
	for {
		b, ranOut, err := d.readByte()
		if err != nil {
			return err
		}
		if ranOut || b == '\n' {
			return nil
		}
	}
}

func (d *Decoder) skipBlockComment() error {
	prevStar := false
	for {
		b, ranOut, err := d.readByte()
		if err != nil {
			return err
		}
		if ranOut {
			return nil
		}
		if prevStar && b == '/' {
			return nil
		}
		prevStar = b == '*'
	}
}

func invalid() (*dataitem.Item, bool, error) {
	return dataitem.RawInteger(0, dataitem.Invalid), false, nil
}

// decodeValue decodes one JSON value. ranOut signals the stream ended
// before a value could be read at all (the caller turns this into an
// Invalid item); err is non-nil only for a genuine I/O failure.
func (d *Decoder) decodeValue(depth int) (*dataitem.Item, bool, error) {
	if depth > maxNestingDepth {
		return dataitem.RawInteger(0, dataitem.Unsupported), false, nil
	}

	b, ranOut, err := d.peekByte()
	if err != nil {
		return nil, false, err
	}
	if ranOut {
		return nil, true, nil
	}

	switch {
	case b == '"':
		_, _, _ = d.readByte()
		s, ok, err := d.decodeStringBody()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return invalid()
		}
		return dataitem.RawTextString(s, dataitem.Translatable), false, nil
	case b == '{':
		_, _, _ = d.readByte()
		return d.decodeObject(depth)
	case b == '[':
		_, _, _ = d.readByte()
		return d.decodeArray(depth)
	case b == 't':
		return d.expectLiteral("true", dataitem.RawBoolean(true, dataitem.Translatable))
	case b == 'f':
		return d.expectLiteral("false", dataitem.RawBoolean(false, dataitem.Translatable))
	case b == 'n':
		return d.expectLiteral("null", dataitem.RawNull(dataitem.Translatable))
	case b == '-' || (b >= '0' && b <= '9'):
		return d.decodeNumber()
	default:
		return invalid()
	}
}

func (d *Decoder) expectLiteral(lit string, result *dataitem.Item) (*dataitem.Item, bool, error) {
	for i := 0; i < len(lit); i++ {
		b, ranOut, err := d.readByte()
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		if b != lit[i] {
			return invalid()
		}
	}
	return result, false, nil
}

func (d *Decoder) decodeNumber() (*dataitem.Item, bool, error) {
	var sb strings.Builder
	readDigits := func() (bool, error) {
		any := false
		for {
			b, ranOut, err := d.peekByte()
			if err != nil {
				return any, err
			}
			if ranOut || b < '0' || b > '9' {
				return any, nil
			}
			_, _, _ = d.readByte()
			sb.WriteByte(b)
			any = true
		}
	}

	b, ranOut, err := d.peekByte()
	if err != nil {
		return nil, false, err
	}
	if !ranOut && b == '-' {
		_, _, _ = d.readByte()
		sb.WriteByte('-')
	}
	if ok, err := readDigits(); err != nil {
		return nil, false, err
	} else if !ok {
		return invalid()
	}

	isFloat := false
	b, ranOut, err = d.peekByte()
	if err != nil {
		return nil, false, err
	}
	if !ranOut && b == '.' {
		isFloat = true
		_, _, _ = d.readByte()
		sb.WriteByte('.')
		if ok, err := readDigits(); err != nil {
			return nil, false, err
		} else if !ok {
			return invalid()
		}
	}

	b, ranOut, err = d.peekByte()
	if err != nil {
		return nil, false, err
	}
	if !ranOut && (b == 'e' || b == 'E') {
		isFloat = true
		_, _, _ = d.readByte()
		sb.WriteByte('e')
		b, ranOut, err = d.peekByte()
		if err != nil {
			return nil, false, err
		}
		if !ranOut && (b == '+' || b == '-') {
			_, _, _ = d.readByte()
			sb.WriteByte(b)
		}
		if ok, err := readDigits(); err != nil {
			return nil, false, err
		} else if !ok {
			return invalid()
		}
	}

	literal := sb.String()
	if isFloat {
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return invalid()
		}
		return dataitem.RawFloat(dataitem.FloatDouble, v, dataitem.Translatable), false, nil
	}
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return dataitem.RawInteger(0, dataitem.Unsupported), false, nil
	}
	return dataitem.RawInteger(v, dataitem.Translatable), false, nil
}

// decodeStringBody decodes the body of a string up to and including its
// closing quote (the opening quote has already been consumed).
func (d *Decoder) decodeStringBody() (string, bool, error) {
	var sb strings.Builder
	for {
		b, ranOut, err := d.readByte()
		if err != nil {
			return "", false, err
		}
		if ranOut {
			return "", false, nil
		}
		switch b {
		case '"':
			return sb.String(), true, nil
		case '\\':
			esc, ranOut, err := d.readByte()
			if err != nil {
				return "", false, err
			}
			if ranOut {
				return "", false, nil
			}
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				r, ok, err := d.readUnicodeEscape()
				if err != nil {
					return "", false, err
				}
				if !ok {
					return "", false, nil
				}
				if utf16.IsSurrogate(r) {
					r2, ok, err := d.readSurrogatePair(r)
					if err != nil {
						return "", false, err
					}
					if !ok {
						return "", false, nil
					}
					sb.WriteRune(r2)
				} else {
					sb.WriteRune(r)
				}
			default:
				return "", false, nil
			}
		default:
			sb.WriteByte(b)
		}
	}
}

func (d *Decoder) readHex4() (uint16, bool, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		b, ranOut, err := d.readByte()
		if err != nil {
			return 0, false, err
		}
		if ranOut {
			return 0, false, nil
		}
		var digit uint16
		switch {
		case b >= '0' && b <= '9':
			digit = uint16(b - '0')
		case b >= 'a' && b <= 'f':
			digit = uint16(b-'a') + 10
		case b >= 'A' && b <= 'F':
			digit = uint16(b-'A') + 10
		default:
			return 0, false, nil // not a hex digit: the escape is malformed
		}
		v = v<<4 | digit
	}
	return v, true, nil
}

func (d *Decoder) readUnicodeEscape() (rune, bool, error) {
	v, ok, err := d.readHex4()
	if err != nil || !ok {
		return 0, ok, err
	}
	return rune(v), true, nil
}

// readSurrogatePair expects \uXXXX immediately following a high surrogate
// already read into first, and combines it into a single rune.
func (d *Decoder) readSurrogatePair(first rune) (rune, bool, error) {
	b, ranOut, err := d.readByte()
	if err != nil {
		return 0, false, err
	}
	if ranOut || b != '\\' {
		return 0, false, nil
	}
	b, ranOut, err = d.readByte()
	if err != nil {
		return 0, false, err
	}
	if ranOut || b != 'u' {
		return 0, false, nil
	}
	second, ok, err := d.readUnicodeEscape()
	if err != nil || !ok {
		return 0, ok, err
	}
	combined := utf16.DecodeRune(first, second)
	if combined == utf8.RuneError {
		return 0, false, nil
	}
	return combined, true, nil
}

func (d *Decoder) decodeArray(depth int) (*dataitem.Item, bool, error) {
	var elements []*dataitem.Item

	if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
		return nil, false, err
	} else if ranOut {
		return nil, true, nil
	}
	if b, ranOut, err := d.peekByte(); err != nil {
		return nil, false, err
	} else if ranOut {
		return nil, true, nil
	} else if b == ']' {
		_, _, _ = d.readByte()
		return dataitem.RawArray(elements, false, false, dataitem.Translatable), false, nil
	}

	for {
		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		child, ranOut, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		elements = append(elements, child)
		if child.IsFailure() {
			return dataitem.RawArray(elements, false, false, child.Status()), false, nil
		}

		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		b, ranOut, err := d.readByte()
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		switch b {
		case ',':
			continue
		case ']':
			return dataitem.RawArray(elements, false, false, dataitem.Translatable), false, nil
		default:
			return invalid()
		}
	}
}

func (d *Decoder) decodeObject(depth int) (*dataitem.Item, bool, error) {
	status := dataitem.Translatable
	var keys []string
	var values []*dataitem.Item
	seen := map[string]bool{}

	if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
		return nil, false, err
	} else if ranOut {
		return nil, true, nil
	}
	if b, ranOut, err := d.peekByte(); err != nil {
		return nil, false, err
	} else if ranOut {
		return nil, true, nil
	} else if b == '}' {
		_, _, _ = d.readByte()
		return dataitem.RawNamedMap(keys, values, false, false, status), false, nil
	}

	for {
		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		b, ranOut, err := d.readByte()
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		if b != '"' {
			return invalid()
		}
		key, ok, err := d.decodeStringBody()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return invalid()
		}

		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		b, ranOut, err = d.readByte()
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		if b != ':' {
			return invalid()
		}

		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		value, ranOut, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		if value.IsFailure() {
			return dataitem.RawNamedMap(keys, values, false, false, value.Status()), false, nil
		}

		if seen[key] {
			status = dataitem.Join(status, dataitem.WellFormed)
		} else {
			seen[key] = true
			keys = append(keys, key)
			values = append(values, value)
		}

		if _, ranOut, err := d.skipSpaceAndComments(); err != nil {
			return nil, false, err
		} else if ranOut {
			return nil, true, nil
		}
		b, ranOut, err = d.readByte()
		if err != nil {
			return nil, false, err
		}
		if ranOut {
			return nil, true, nil
		}
		switch b {
		case ',':
			continue
		case '}':
			return dataitem.RawNamedMap(keys, values, false, false, status), false, nil
		default:
			return invalid()
		}
	}
}

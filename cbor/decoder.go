package cbor

import (
	"bufio"
	"errors"
	"io"
	"math"
	"unicode/utf8"

	"github.com/relaycore/dataitem/dataitem"
)

// maxNestingDepth bounds recursive descent, mirroring the teacher reader's
// default nesting-depth guard.
const maxNestingDepth = 64

// maxTagStack bounds the number of stacked tags read per item before the
// item is downgraded to Unsupported instead of growing without limit.
const maxTagStack = 64

// Decoder reads CBOR-encoded dataitem.Item values from a byte stream, one
// fully materialised item per Decode call (no event/streaming API — see
// spec §1 non-goals). A Decoder holds only its reader and is not safe to
// share across goroutines.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r for CBOR decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads one complete CBOR data item and returns it as a
// dataitem.Item. The returned error is non-nil only for a genuine stream
// I/O failure (including a clean end-of-stream, reported as io.EOF before
// any byte of a new item has been consumed); malformed CBOR is reported
// through the item's decode status (Invalid/Unsupported/WellFormed), never
// through the returned error, per spec §7.
func (d *Decoder) Decode() (*dataitem.Item, error) {
	if _, err := d.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return d.decodeItem(0)
}

func isEOFish(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// readInitialByte reads and splits the next initial byte.
func (d *Decoder) readInitialByte() (majorType, byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	mt, ai := decodeInitialByte(b)
	return mt, ai, nil
}

// readArgumentValue reads the argument value that follows additional-info
// ai. ok is false when the stream ran out of bytes mid-read (the caller
// treats this as an Invalid item, not a Go error); err is non-nil only for
// a genuine I/O failure.
func (d *Decoder) readArgumentValue(ai byte) (value uint64, isIndefinite bool, ok bool, err error) {
	switch {
	case ai <= aiDirectMax:
		return uint64(ai), false, true, nil
	case ai == ai8Bit:
		b, e := d.r.ReadByte()
		if e != nil {
			if isEOFish(e) {
				return 0, false, false, nil
			}
			return 0, false, false, e
		}
		return uint64(b), false, true, nil
	case ai == ai16Bit:
		buf := make([]byte, 2)
		if _, e := io.ReadFull(d.r, buf); e != nil {
			if isEOFish(e) {
				return 0, false, false, nil
			}
			return 0, false, false, e
		}
		return uint64(buf[0])<<8 | uint64(buf[1]), false, true, nil
	case ai == ai32Bit:
		buf := make([]byte, 4)
		if _, e := io.ReadFull(d.r, buf); e != nil {
			if isEOFish(e) {
				return 0, false, false, nil
			}
			return 0, false, false, e
		}
		v := uint64(0)
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		return v, false, true, nil
	case ai == ai64Bit:
		buf := make([]byte, 8)
		if _, e := io.ReadFull(d.r, buf); e != nil {
			if isEOFish(e) {
				return 0, false, false, nil
			}
			return 0, false, false, e
		}
		v := uint64(0)
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		return v, false, true, nil
	case ai == aiIndefinite:
		return 0, true, true, nil
	default: // 28..30 reserved
		return 0, false, true, nil // value is meaningless; caller marks Unsupported
	}
}

func isReservedAI(ai byte) bool {
	return ai >= reservedAILow && ai <= reservedAIHigh
}

// decodeItem decodes one item, accumulating any leading tag stack first.
func (d *Decoder) decodeItem(depth int) (*dataitem.Item, error) {
	if depth > maxNestingDepth {
		return invalidItem(dataitem.Unsupported, nil), nil
	}

	tags := []int32(nil)
	status := dataitem.Translatable

	for {
		b, err := d.r.Peek(1)
		if err != nil {
			if isEOFish(err) {
				return invalidItem(dataitem.Invalid, tags), nil
			}
			return nil, err
		}
		mt, ai := decodeInitialByte(b[0])
		if mt != majorTag {
			break
		}
		_, _ = d.r.ReadByte() // consume the peeked byte

		val, _, ok, err := d.readArgumentValue(ai)
		if err != nil {
			return nil, err
		}
		if !ok {
			return invalidItem(dataitem.Invalid, tags), nil
		}
		if isReservedAI(ai) || val > math.MaxInt32 || len(tags) >= maxTagStack {
			status = dataitem.Join(status, dataitem.Unsupported)
			continue
		}
		tags = append(tags, int32(val))
	}

	mt, ai, err := d.readInitialByte()
	if err != nil {
		if isEOFish(err) {
			return invalidItem(dataitem.Invalid, tags), nil
		}
		return nil, err
	}

	item, status2, err := d.decodePayload(mt, ai, depth)
	if err != nil {
		return nil, err
	}
	status = dataitem.Join(status, status2)

	if item == nil {
		return invalidItem(status, tags), nil
	}
	if status.IsFailure() {
		_ = item.SetStatus(status)
	} else if err := item.SetStatus(status); err != nil {
		// item already carries a failure from a deeper child; keep it.
		_ = err
	}
	if len(tags) > 0 {
		_ = item.SetTags(tags)
	}
	return item, nil
}

// decodePayload dispatches on the major type of the (already consumed)
// initial byte and returns the decoded item plus the status this level
// contributes (the caller joins it with the tag-stack status).
func (d *Decoder) decodePayload(mt majorType, ai byte, depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	switch mt {
	case majorUnsignedInt:
		return d.decodeUnsigned(ai)
	case majorNegativeInt:
		return d.decodeNegative(ai)
	case majorByteString:
		return d.decodeByteString(ai, depth)
	case majorTextString:
		return d.decodeTextString(ai, depth)
	case majorArray:
		return d.decodeArray(ai, depth)
	case majorMap:
		return d.decodeMap(ai, depth)
	case majorSimpleFloat:
		return d.decodeSimpleOrFloat(ai)
	default:
		return nil, dataitem.Invalid, nil
	}
}

func (d *Decoder) decodeUnsigned(ai byte) (*dataitem.Item, dataitem.DecodeStatus, error) {
	val, _, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) || val > math.MaxInt64 {
		return nil, dataitem.Unsupported, nil
	}
	return dataitem.RawInteger(int64(val), dataitem.Translatable), dataitem.Translatable, nil
}

func (d *Decoder) decodeNegative(ai byte) (*dataitem.Item, dataitem.DecodeStatus, error) {
	val, _, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) || val > math.MaxInt64 {
		return nil, dataitem.Unsupported, nil
	}
	// CBOR negative integers are encoded as -1 - n.
	return dataitem.RawInteger(-1-int64(val), dataitem.Translatable), dataitem.Translatable, nil
}

func (d *Decoder) decodeByteString(ai byte, depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	length, indefinite, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) {
		return nil, dataitem.Unsupported, nil
	}
	if indefinite {
		return d.decodeIndefiniteByteString(depth)
	}
	if length >= 1<<31 {
		return nil, dataitem.Unsupported, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if isEOFish(err) {
			return nil, dataitem.Invalid, nil
		}
		return nil, 0, err
	}
	return dataitem.RawByteString(buf, dataitem.Translatable), dataitem.Translatable, nil
}

func (d *Decoder) decodeIndefiniteByteString(depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	var segments [][]byte
	status := dataitem.Translatable
	for {
		b, err := d.r.Peek(1)
		if err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		if b[0] == breakByte {
			_, _ = d.r.ReadByte()
			break
		}
		mt, ai, err := d.readInitialByte()
		if err != nil {
			return nil, 0, err
		}
		if mt != majorByteString {
			return nil, dataitem.Invalid, nil
		}
		length, childIndefinite, ok, err := d.readArgumentValue(ai)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, dataitem.Invalid, nil
		}
		if childIndefinite || isReservedAI(ai) || length >= 1<<31 {
			// nested indefinite-length segments are forbidden.
			return nil, dataitem.Invalid, nil
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		segments = append(segments, buf)
	}
	return dataitem.RawByteStringList(segments, status), status, nil
}

func (d *Decoder) decodeTextString(ai byte, depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	length, indefinite, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) {
		return nil, dataitem.Unsupported, nil
	}
	if indefinite {
		return d.decodeIndefiniteTextString(depth)
	}
	if length >= 1<<31 {
		return nil, dataitem.Unsupported, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if isEOFish(err) {
			return nil, dataitem.Invalid, nil
		}
		return nil, 0, err
	}
	if !utf8.Valid(buf) {
		return nil, dataitem.Invalid, nil
	}
	return dataitem.RawTextString(string(buf), dataitem.Translatable), dataitem.Translatable, nil
}

func (d *Decoder) decodeIndefiniteTextString(depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	var segments []string
	status := dataitem.Translatable
	for {
		b, err := d.r.Peek(1)
		if err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		if b[0] == breakByte {
			_, _ = d.r.ReadByte()
			break
		}
		mt, ai, err := d.readInitialByte()
		if err != nil {
			return nil, 0, err
		}
		if mt != majorTextString {
			return nil, dataitem.Invalid, nil
		}
		length, childIndefinite, ok, err := d.readArgumentValue(ai)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, dataitem.Invalid, nil
		}
		if childIndefinite || isReservedAI(ai) || length >= 1<<31 {
			return nil, dataitem.Invalid, nil
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		if !utf8.Valid(buf) {
			return nil, dataitem.Invalid, nil
		}
		segments = append(segments, string(buf))
	}
	return dataitem.RawTextStringList(segments, status), status, nil
}

func (d *Decoder) decodeArray(ai byte, depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	length, indefinite, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) {
		return nil, dataitem.Unsupported, nil
	}
	if !indefinite && length >= 1<<31 {
		return nil, dataitem.Unsupported, nil
	}

	var elements []*dataitem.Item
	status := dataitem.Translatable

	if indefinite {
		for {
			b, err := d.r.Peek(1)
			if err != nil {
				if isEOFish(err) {
					return nil, dataitem.Invalid, nil
				}
				return nil, 0, err
			}
			if b[0] == breakByte {
				_, _ = d.r.ReadByte()
				break
			}
			child, err := d.decodeItem(depth + 1)
			if err != nil {
				return nil, 0, err
			}
			status = dataitem.Join(status, child.Status())
			elements = append(elements, child)
			if child.IsFailure() {
				return dataitem.RawArray(elements, true, false, status), status, nil
			}
		}
	} else {
		for i := uint64(0); i < length; i++ {
			child, err := d.decodeItem(depth + 1)
			if err != nil {
				return nil, 0, err
			}
			status = dataitem.Join(status, child.Status())
			elements = append(elements, child)
			if child.IsFailure() {
				return dataitem.RawArray(elements, false, false, status), status, nil
			}
		}
	}
	return dataitem.RawArray(elements, indefinite, false, status), status, nil
}

// mapKeyKind distinguishes which concrete map variant a CBOR map decodes
// to, chosen lazily by the first key.
type mapKeyKind int

const (
	mapKeyUnknown mapKeyKind = iota
	mapKeyText
	mapKeyInt
)

func (d *Decoder) decodeMap(ai byte, depth int) (*dataitem.Item, dataitem.DecodeStatus, error) {
	length, indefinite, ok, err := d.readArgumentValue(ai)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, dataitem.Invalid, nil
	}
	if isReservedAI(ai) {
		return nil, dataitem.Unsupported, nil
	}
	if !indefinite && length >= 1<<31 {
		return nil, dataitem.Unsupported, nil
	}

	status := dataitem.Translatable
	kind := mapKeyUnknown
	var textKeys []string
	var textVals []*dataitem.Item
	textSeen := map[string]bool{}
	var intKeys []int64
	var intVals []*dataitem.Item
	intSeen := map[int64]bool{}
	count := uint64(0)

	for {
		if indefinite {
			b, err := d.r.Peek(1)
			if err != nil {
				if isEOFish(err) {
					return nil, dataitem.Invalid, nil
				}
				return nil, 0, err
			}
			if b[0] == breakByte {
				_, _ = d.r.ReadByte()
				break
			}
		} else if count >= length {
			break
		}

		keyItem, err := d.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		status = dataitem.Join(status, keyItem.Status())
		if keyItem.IsFailure() {
			return invalidItem(status, nil), status, nil
		}

		valItem, err := d.decodeItem(depth + 1)
		if err != nil {
			return nil, 0, err
		}
		status = dataitem.Join(status, valItem.Status())
		if valItem.IsFailure() {
			return invalidItem(status, nil), status, nil
		}

		switch {
		case kind == mapKeyUnknown:
			if text, isText := keyItem.AsText(); isText && keyItem.Variant() == dataitem.TextString {
				kind = mapKeyText
				textKeys = append(textKeys, text)
				textVals = append(textVals, valItem)
				textSeen[text] = true
			} else if i, isInt := keyItem.AsInt64(); isInt {
				kind = mapKeyInt
				intKeys = append(intKeys, i)
				intVals = append(intVals, valItem)
				intSeen[i] = true
			} else {
				return nil, dataitem.Unsupported, nil
			}
		case kind == mapKeyText:
			text, isText := keyItem.AsText()
			if !isText || keyItem.Variant() != dataitem.TextString {
				return nil, dataitem.Unsupported, nil
			}
			if textSeen[text] {
				status = dataitem.Join(status, dataitem.WellFormed)
			} else {
				textSeen[text] = true
				textKeys = append(textKeys, text)
				textVals = append(textVals, valItem)
			}
		case kind == mapKeyInt:
			i, isInt := keyItem.AsInt64()
			if !isInt {
				return nil, dataitem.Unsupported, nil
			}
			if intSeen[i] {
				status = dataitem.Join(status, dataitem.WellFormed)
			} else {
				intSeen[i] = true
				intKeys = append(intKeys, i)
				intVals = append(intVals, valItem)
			}
		}
		count++
	}

	switch {
	case kind == mapKeyUnknown:
		return dataitem.RawEmptyMap(indefinite, status), status, nil
	case kind == mapKeyText:
		return dataitem.RawNamedMap(textKeys, textVals, indefinite, false, status), status, nil
	default:
		return dataitem.RawIndexedMap(intKeys, intVals, indefinite, false, status), status, nil
	}
}

func (d *Decoder) decodeSimpleOrFloat(ai byte) (*dataitem.Item, dataitem.DecodeStatus, error) {
	switch ai {
	case simpleFalse:
		return dataitem.RawBoolean(false, dataitem.Translatable), dataitem.Translatable, nil
	case simpleTrue:
		return dataitem.RawBoolean(true, dataitem.Translatable), dataitem.Translatable, nil
	case simpleNull:
		return dataitem.RawNull(dataitem.Translatable), dataitem.Translatable, nil
	case simpleUndefined:
		return dataitem.RawUndefined(dataitem.Translatable), dataitem.Translatable, nil
	case ai8Bit:
		b, err := d.r.ReadByte()
		if err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		if b >= simpleFalse && b <= aiIndefinite {
			// 20..31 lie outside the simple-value domain {0..19, 32..255}.
			return nil, dataitem.Invalid, nil
		}
		return dataitem.RawSimple(b, dataitem.WellFormed), dataitem.WellFormed, nil
	case simpleFloat16:
		buf := make([]byte, 2)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		bits := uint16(buf[0])<<8 | uint16(buf[1])
		return dataitem.RawFloat(dataitem.FloatHalf, float64(float16BitsToFloat32(bits)), dataitem.Translatable), dataitem.Translatable, nil
	case simpleFloat32:
		buf := make([]byte, 4)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		bits := uint32(0)
		for _, b := range buf {
			bits = bits<<8 | uint32(b)
		}
		return dataitem.RawFloat(dataitem.FloatStandard, float64(math.Float32frombits(bits)), dataitem.Translatable), dataitem.Translatable, nil
	case simpleFloat64:
		buf := make([]byte, 8)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			if isEOFish(err) {
				return nil, dataitem.Invalid, nil
			}
			return nil, 0, err
		}
		bits := uint64(0)
		for _, b := range buf {
			bits = bits<<8 | uint64(b)
		}
		return dataitem.RawFloat(dataitem.FloatDouble, math.Float64frombits(bits), dataitem.Translatable), dataitem.Translatable, nil
	case aiIndefinite:
		// a stray break outside an indefinite container.
		return nil, dataitem.Invalid, nil
	default:
		if ai <= aiDirectMax {
			return dataitem.RawSimple(ai, dataitem.WellFormed), dataitem.WellFormed, nil
		}
		return nil, dataitem.Invalid, nil
	}
}

func invalidItem(status dataitem.DecodeStatus, tags []int32) *dataitem.Item {
	it := dataitem.RawInteger(0, status)
	if len(tags) > 0 {
		_ = it.SetTags(tags)
	}
	return it
}

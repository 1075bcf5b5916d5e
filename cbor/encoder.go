package cbor

import (
	"io"
	"math"

	"github.com/relaycore/dataitem/dataitem"
)

// Encoder writes dataitem.Item trees to a byte stream as RFC 7049/8949
// CBOR. An Encoder holds only its writer and is not safe to share across
// goroutines.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w for CBOR encoding.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one complete CBOR data item for it. It returns
// ErrCannotEncodeFailure if it carries a failure decode status — only
// successfully decoded or Factory-built items are meaningful on the wire —
// and ErrNestingTooDeep if the tree exceeds the encoder's nesting guard.
func (e *Encoder) Encode(it *dataitem.Item) error {
	return e.encodeItem(it, 0)
}

func (e *Encoder) encodeItem(it *dataitem.Item, depth int) error {
	if depth > maxNestingDepth {
		return ErrNestingTooDeep
	}
	if it.IsFailure() {
		return ErrCannotEncodeFailure
	}

	for _, tag := range it.Tags() {
		if err := e.writeHead(majorTag, uint64(tag)); err != nil {
			return err
		}
	}

	switch it.Variant() {
	case dataitem.Integer:
		return e.encodeInteger(it)
	case dataitem.FloatHalf:
		return e.encodeFloatHalf(it)
	case dataitem.FloatStandard:
		return e.encodeFloatStandard(it)
	case dataitem.FloatDouble:
		return e.encodeFloatDouble(it)
	case dataitem.Boolean:
		return e.encodeBoolean(it)
	case dataitem.Null:
		return e.writeInitialByte(majorSimpleFloat, simpleNull)
	case dataitem.Undefined:
		return e.writeInitialByte(majorSimpleFloat, simpleUndefined)
	case dataitem.Simple:
		return e.encodeSimple(it)
	case dataitem.TextString:
		return e.encodeTextString(it)
	case dataitem.TextStringList:
		return e.encodeTextStringList(it, depth)
	case dataitem.ByteString:
		return e.encodeByteString(it)
	case dataitem.ByteStringList:
		return e.encodeByteStringList(it, depth)
	case dataitem.Array:
		return e.encodeArray(it, depth)
	case dataitem.NamedMap:
		return e.encodeNamedMap(it, depth)
	case dataitem.IndexedMap:
		return e.encodeIndexedMap(it, depth)
	case dataitem.EmptyMap:
		return e.encodeEmptyMap(it)
	default:
		return &CborError{Err: ErrUnknownVariant, Variant: it.Variant().String()}
	}
}

func (e *Encoder) writeByte(b byte) error {
	_, err := e.w.Write([]byte{b})
	return err
}

func (e *Encoder) writeInitialByte(mt majorType, ai byte) error {
	return e.writeByte(encodeInitialByte(mt, ai))
}

// writeHead writes the shortest initial-byte-plus-argument encoding of val
// under major type mt — the minimal-length head selection the teacher's
// writer used, generalized to any major type instead of just integers.
func (e *Encoder) writeHead(mt majorType, val uint64) error {
	switch {
	case val <= aiDirectMax:
		return e.writeInitialByte(mt, byte(val))
	case val <= math.MaxUint8:
		if err := e.writeInitialByte(mt, ai8Bit); err != nil {
			return err
		}
		return e.writeByte(byte(val))
	case val <= math.MaxUint16:
		if err := e.writeInitialByte(mt, ai16Bit); err != nil {
			return err
		}
		return e.writeBytesBE(val, 2)
	case val <= math.MaxUint32:
		if err := e.writeInitialByte(mt, ai32Bit); err != nil {
			return err
		}
		return e.writeBytesBE(val, 4)
	default:
		if err := e.writeInitialByte(mt, ai64Bit); err != nil {
			return err
		}
		return e.writeBytesBE(val, 8)
	}
}

// writeHeadFull always writes the full-width (8-byte) argument form for mt,
// regardless of whether val would fit in a shorter head. Used for negative
// integers, where the wire form preserves the full one's-complement bit
// pattern instead of shrinking to the shortest representation (see the
// encoder's negative-integer asymmetry, documented in SPEC_FULL.md §5).
func (e *Encoder) writeHeadFull(mt majorType, val uint64) error {
	if err := e.writeInitialByte(mt, ai64Bit); err != nil {
		return err
	}
	return e.writeBytesBE(val, 8)
}

func (e *Encoder) writeBytesBE(val uint64, n int) error {
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(val)
		val >>= 8
	}
	_, err := e.w.Write(buf)
	return err
}

func (e *Encoder) encodeInteger(it *dataitem.Item) error {
	v, _ := it.AsInt64()
	if v >= 0 {
		return e.writeHead(majorUnsignedInt, uint64(v))
	}
	// Negative integers always use the full 8-byte form; see writeHeadFull.
	return e.writeHeadFull(majorNegativeInt, uint64(-1-v))
}

func (e *Encoder) encodeFloatHalf(it *dataitem.Item) error {
	f, _ := it.AsFloat64()
	if err := e.writeInitialByte(majorSimpleFloat, simpleFloat16); err != nil {
		return err
	}
	bits := float32ToFloat16Bits(float32(f))
	return e.writeBytesBE(uint64(bits), 2)
}

func (e *Encoder) encodeFloatStandard(it *dataitem.Item) error {
	f, _ := it.AsFloat64()
	if err := e.writeInitialByte(majorSimpleFloat, simpleFloat32); err != nil {
		return err
	}
	bits := math.Float32bits(float32(f))
	return e.writeBytesBE(uint64(bits), 4)
}

func (e *Encoder) encodeFloatDouble(it *dataitem.Item) error {
	f, _ := it.AsFloat64()
	if err := e.writeInitialByte(majorSimpleFloat, simpleFloat64); err != nil {
		return err
	}
	bits := math.Float64bits(f)
	return e.writeBytesBE(bits, 8)
}

func (e *Encoder) encodeBoolean(it *dataitem.Item) error {
	v, _ := it.AsBool()
	if v {
		return e.writeInitialByte(majorSimpleFloat, simpleTrue)
	}
	return e.writeInitialByte(majorSimpleFloat, simpleFalse)
}

func (e *Encoder) encodeSimple(it *dataitem.Item) error {
	v, _ := it.AsSimple()
	if v <= aiDirectMax {
		return e.writeInitialByte(majorSimpleFloat, v)
	}
	if err := e.writeInitialByte(majorSimpleFloat, ai8Bit); err != nil {
		return err
	}
	return e.writeByte(v)
}

func (e *Encoder) encodeTextString(it *dataitem.Item) error {
	v, _ := it.AsText()
	if err := e.writeHead(majorTextString, uint64(len(v))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, v)
	return err
}

func (e *Encoder) encodeTextStringList(it *dataitem.Item, depth int) error {
	segments, _ := it.TextSegments()
	if err := e.writeInitialByte(majorTextString, aiIndefinite); err != nil {
		return err
	}
	for _, s := range segments {
		if err := e.writeHead(majorTextString, uint64(len(s))); err != nil {
			return err
		}
		if _, err := io.WriteString(e.w, s); err != nil {
			return err
		}
	}
	return e.writeByte(breakByte)
}

func (e *Encoder) encodeByteString(it *dataitem.Item) error {
	v, _ := it.AsBytes()
	if err := e.writeHead(majorByteString, uint64(len(v))); err != nil {
		return err
	}
	_, err := e.w.Write(v)
	return err
}

func (e *Encoder) encodeByteStringList(it *dataitem.Item, depth int) error {
	segments, _ := it.ByteSegments()
	if err := e.writeInitialByte(majorByteString, aiIndefinite); err != nil {
		return err
	}
	for _, b := range segments {
		if err := e.writeHead(majorByteString, uint64(len(b))); err != nil {
			return err
		}
		if _, err := e.w.Write(b); err != nil {
			return err
		}
	}
	return e.writeByte(breakByte)
}

func (e *Encoder) encodeArray(it *dataitem.Item, depth int) error {
	elements, _ := it.Array()
	if it.IndefiniteLength() {
		if err := e.writeInitialByte(majorArray, aiIndefinite); err != nil {
			return err
		}
		for _, child := range elements {
			if err := e.encodeItem(child, depth+1); err != nil {
				return err
			}
		}
		return e.writeByte(breakByte)
	}
	if err := e.writeHead(majorArray, uint64(len(elements))); err != nil {
		return err
	}
	for _, child := range elements {
		if err := e.encodeItem(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeNamedMap(it *dataitem.Item, depth int) error {
	keys, _ := it.NamedMapKeys()
	if it.IndefiniteLength() {
		if err := e.writeInitialByte(majorMap, aiIndefinite); err != nil {
			return err
		}
		for _, k := range keys {
			if err := e.writeHead(majorTextString, uint64(len(k))); err != nil {
				return err
			}
			if _, err := io.WriteString(e.w, k); err != nil {
				return err
			}
			v, _ := it.NamedMapGet(k)
			if err := e.encodeItem(v, depth+1); err != nil {
				return err
			}
		}
		return e.writeByte(breakByte)
	}
	if err := e.writeHead(majorMap, uint64(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := e.writeHead(majorTextString, uint64(len(k))); err != nil {
			return err
		}
		if _, err := io.WriteString(e.w, k); err != nil {
			return err
		}
		v, _ := it.NamedMapGet(k)
		if err := e.encodeItem(v, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeIndexedMap(it *dataitem.Item, depth int) error {
	keys, _ := it.IndexedMapKeys()
	writeKey := func(k int64) error {
		if k >= 0 {
			return e.writeHead(majorUnsignedInt, uint64(k))
		}
		return e.writeHeadFull(majorNegativeInt, uint64(-1-k))
	}
	if it.IndefiniteLength() {
		if err := e.writeInitialByte(majorMap, aiIndefinite); err != nil {
			return err
		}
		for _, k := range keys {
			if err := writeKey(k); err != nil {
				return err
			}
			v, _ := it.IndexedMapGet(k)
			if err := e.encodeItem(v, depth+1); err != nil {
				return err
			}
		}
		return e.writeByte(breakByte)
	}
	if err := e.writeHead(majorMap, uint64(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := writeKey(k); err != nil {
			return err
		}
		v, _ := it.IndexedMapGet(k)
		if err := e.encodeItem(v, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeEmptyMap(it *dataitem.Item) error {
	if it.IndefiniteLength() {
		if err := e.writeInitialByte(majorMap, aiIndefinite); err != nil {
			return err
		}
		return e.writeByte(breakByte)
	}
	return e.writeHead(majorMap, 0)
}

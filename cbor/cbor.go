// Package cbor implements the binary codec layer: an Encoder/Decoder pair
// that serialise dataitem.Item trees to and from RFC 7049/8949 CBOR.
package cbor

// majorType represents the CBOR major type (3-bit value in the initial
// byte).
type majorType byte

const (
	majorUnsignedInt majorType = 0
	majorNegativeInt majorType = 1
	majorByteString  majorType = 2
	majorTextString  majorType = 3
	majorArray       majorType = 4
	majorMap         majorType = 5
	majorTag         majorType = 6
	majorSimpleFloat majorType = 7
)

// Additional-info values in the initial byte's low 5 bits.
const (
	aiDirectMax    = 23
	ai8Bit         = 24
	ai16Bit        = 25
	ai32Bit        = 26
	ai64Bit        = 27
	aiIndefinite   = 31
	reservedAILow  = 28
	reservedAIHigh = 30
)

// Simple values carried by major type 7.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
)

// breakByte terminates an indefinite-length item.
const breakByte byte = 0xFF

// encodeInitialByte packs a major type and additional-info value into the
// CBOR initial byte.
func encodeInitialByte(mt majorType, ai byte) byte {
	return byte(mt)<<5 | (ai & 0x1F)
}

// decodeInitialByte splits the CBOR initial byte into major type and
// additional-info value.
func decodeInitialByte(b byte) (majorType, byte) {
	return majorType(b >> 5), b & 0x1F
}

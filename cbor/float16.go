package cbor

import (
	"github.com/x448/float16"
)

// float32ToFloat16Bits converts f to its IEEE 754 half-precision bit
// pattern, rounding to nearest as float16.Fromfloat32 does. The FLOAT_HALF
// variant is chosen explicitly by the caller (via the Factory), not
// auto-selected by the encoder, so no precision-loss detection is needed
// here — the encoder always trusts the item's declared variant.
func float32ToFloat16Bits(f float32) uint16 {
	return float16.Fromfloat32(f).Bits()
}

// float16BitsToFloat32 widens a half-precision bit pattern to float32.
func float16BitsToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

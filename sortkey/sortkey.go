// Package sortkey implements order-preserving 32-bit encodings for
// IEEE-754 floats and two's-complement signed integers. The encoded
// form sorts, byte-for-byte in big-endian order, the same way the
// original values sort numerically — which is what lets the bucketed
// inverted index use a plain byte-ordered key space for range scans.
package sortkey

import "math"

// EncodeFloat32 maps v to an order-preserving uint32. Positive values
// (sign bit clear) get their sign bit set; negative values (sign bit
// set) get every bit flipped. This keeps the IEEE-754 bit pattern's
// natural ordering for positives while reversing it for negatives,
// which is what IEEE-754's sign-magnitude layout requires.
func EncodeFloat32(v float32) uint32 {
	bits := math.Float32bits(v)
	if bits&0x80000000 == 0 {
		return bits | 0x80000000
	}
	return ^bits
}

// DecodeFloat32 inverts EncodeFloat32.
func DecodeFloat32(s uint32) float32 {
	if s&0x80000000 != 0 {
		return math.Float32frombits(s &^ 0x80000000)
	}
	return math.Float32frombits(^s)
}

// EncodeInt32 maps v to an order-preserving uint32 by flipping the
// sign bit, turning two's-complement ordering into unsigned ordering.
func EncodeInt32(v int32) uint32 {
	return uint32(v) ^ 0x80000000
}

// DecodeInt32 inverts EncodeInt32.
func DecodeInt32(s uint32) int32 {
	return int32(s ^ 0x80000000)
}

// Package fixedpoint implements the Q16.16 and Q48.16 fixed-point
// numeric types used throughout the deterministic simulation core.
// Floating point must never touch simulation state; these types are
// the only numeric representation the core packages operate on.
package fixedpoint

import "math"

// Q16 is a signed Q16.16 fixed-point value: 16 integer bits, 16
// fractional bits, backed by an int32. Ratios and weights are clamped
// to [0, One].
type Q16 int32

// Q48 is a signed Q48.16 fixed-point accumulator: 48 integer bits, 16
// fractional bits, backed by an int64.
type Q48 int64

const fracBits = 16

// One is the Q16.16 representation of 1.0.
const One Q16 = 1 << fracBits

// Zero is the Q16.16 representation of 0.0.
const Zero Q16 = 0

// FromInt converts a whole number to Q16.16. Overflow is not checked;
// callers passing values outside int16 range get undefined high bits,
// matching the original engine's unchecked integer-to-fixed casts.
func FromInt(n int32) Q16 {
	return Q16(n) << fracBits
}

// Int returns the integer part of q, rounding toward negative infinity
// (an arithmetic shift), so -1.5 yields -2.
func (q Q16) Int() int32 {
	return int32(q) >> fracBits
}

// Widen promotes a Q16.16 value to Q48.16 for overflow-safe
// accumulation.
func (q Q16) Widen() Q48 {
	return Q48(q)
}

// Narrow truncates a Q48.16 accumulator back to Q16.16, clamping to
// the representable int32 range rather than wrapping.
func (a Q48) Narrow() Q16 {
	if a > Q48(math.MaxInt32) {
		return Q16(math.MaxInt32)
	}
	if a < Q48(math.MinInt32) {
		return Q16(math.MinInt32)
	}
	return Q16(a)
}

// ClampRatio clamps q to [0, One], the representation used for
// ratios, weights, confidence, uncertainty, and bias values.
func ClampRatio(q Q16) Q16 {
	if q < Zero {
		return Zero
	}
	if q > One {
		return One
	}
	return q
}

// AddClamped adds b to a and clamps the result to [0, One]. Used for
// confidence/uncertainty/bias updates, which must never leave the
// unit range regardless of intermediate overflow.
func AddClamped(a, b Q16) Q16 {
	sum := a.Widen() + b.Widen()
	return ClampRatio(sum.Narrow())
}

// SubClamped subtracts b from a and clamps the result to [0, One].
func SubClamped(a, b Q16) Q16 {
	diff := a.Widen() - b.Widen()
	return ClampRatio(diff.Narrow())
}

// MulQ16 multiplies two Q16.16 values, computing the product in 64-bit
// intermediate precision and narrowing back to Q16.16 via truncation.
func MulQ16(a, b Q16) Q16 {
	product := (int64(a) * int64(b)) >> fracBits
	return Q16(int32(product))
}

// MulWiden multiplies a Q16.16 value by a tick count (or other plain
// integer multiplier), producing a Q48.16 accumulator without
// overflowing int32 intermediate math.
func MulWiden(a Q16, n int64) Q48 {
	return Q48(int64(a) * n)
}

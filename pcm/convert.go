// SPDX-License-Identifier: EPL-2.0

package pcm

import "math"

// Sample is the element type of the render buffers.
type Sample interface {
	~int32 | ~float32
}

// fixedScale maps 1.0 to one Q8.24 unit with 8 bits of integer headroom.
const fixedScale = float64(math.MaxInt32) / 128

// FloatToFixed converts a float sample to Q8.24, rounding to nearest and
// saturating at the int32 range.
func FloatToFixed(x float64) int32 {
	v := math.Round(x * fixedScale)
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	if v <= math.MinInt32 {
		return math.MinInt32
	}

	return int32(v)
}

// FixedToFloat is the inverse of FloatToFixed.
func FixedToFloat(v int32) float64 {
	return float64(v) / fixedScale
}

// ConvertSample rescales raw from one representation's value domain into
// another's. Fixed-point results are whole numbers.
func ConvertSample(raw float64, from, to Representation) float64 {
	if from == to {
		return raw
	}

	switch {
	case from == Float32 && to == Fixed824:
		return float64(FloatToFixed(raw))
	case from == Fixed824 && to == Float32:
		return raw / fixedScale
	default:
		return raw
	}
}

// RepresentationOf reports the representation stored in S.
func RepresentationOf[S Sample]() Representation {
	var zero S
	switch any(zero).(type) {
	case float32:
		return Float32
	default:
		return Fixed824
	}
}

// FromFloat converts a normalized float sample into S.
func FromFloat[S Sample](x float64) S {
	if RepresentationOf[S]() == Float32 {
		return S(x)
	}

	return S(FloatToFixed(x))
}

// ToFloat converts a sample of S into the normalized float domain.
func ToFloat[S Sample](s S) float64 {
	if RepresentationOf[S]() == Float32 {
		return float64(s)
	}

	return FixedToFloat(int32(s))
}

// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 quantizes a normalized sample to 16-bit PCM, rounding to
// nearest. Input outside [-1, 1] is clipped; -1 maps to math.MinInt16.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return math.MaxInt16
	case x <= -1:
		return math.MinInt16
	case x >= 0:
		return int16(x*math.MaxInt16 + 0.5)
	default:
		return int16(x*-math.MinInt16 - 0.5)
	}
}

// Float32ToInt16s converts src into dst and returns the number of samples
// written, min(len(dst), len(src)).
func Float32ToInt16s(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}

	return n
}

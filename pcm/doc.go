// SPDX-License-Identifier: EPL-2.0

// Package pcm describes the linear PCM layouts the render engine works with.
//
// Two sample representations exist:
//   - Fixed824: signed int32 with 24 fractional bits, the canonical format of
//     the hardware render callback. 1.0 maps to MaxInt32/128, leaving 8 bits
//     of headroom.
//   - Float32: float samples in [-1, 1), used on targets without audio
//     hardware.
//
// A Format is immutable:
//
//	f, err := pcm.Describe(44100, 2, pcm.Fixed824)
//	f.FrameStride() // 4, one buffer per channel
//
// ConvertSample moves a raw value between the two domains:
//
//	pcm.ConvertSample(0.5, pcm.Float32, pcm.Fixed824) // 8388608
package pcm

// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"math"
)

// PutFloat32LE interleaves frames of planar src into dst as little-endian
// float32, the layout the output devices consume. It returns the number of
// frames written, bounded by the shortest channel and by len(dst).
func PutFloat32LE[S Sample](dst []byte, src [][]S, frames int) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}

	frames = min(frames, len(dst)/(4*channels))
	for _, ch := range src {
		frames = min(frames, len(ch))
	}

	off := 0
	for i := range frames {
		for c := range channels {
			v := float32(ToFloat(src[c][i]))
			binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
			off += 4
		}
	}

	return frames
}

// Float32LE de-interleaves little-endian float32 frames from src into the
// planar dst buffers. It returns the number of frames read.
func Float32LE[S Sample](dst [][]S, src []byte, frames int) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}

	frames = min(frames, len(src)/(4*channels))
	for _, ch := range dst {
		frames = min(frames, len(ch))
	}

	off := 0
	for i := range frames {
		for c := range channels {
			v := math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
			dst[c][i] = FromFloat[S](float64(v))
			off += 4
		}
	}

	return frames
}

// SPDX-License-Identifier: EPL-2.0

// Package buffer holds fully decoded clips for buffer playback.
//
// A Buffer is produced once, before the render goroutine starts, by a
// single bulk read from a decoder:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	clip, err := buffer.LoadFile[int32]("loop.wav", reg, buffer.LoadOptions{SampleRate: 44100})
//
// The source is resampled to the engine rate when needed and converted to the
// sample type of the buffer (int32 for Q8.24, float32 for float). Nothing
// writes to a Buffer after construction.
package buffer

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audrender/internal/audiotest"
)

// The helpers hide the length hint unless wrapped in sized.

func newMockSource(sampleRate, channels, frames int, waveform func(sample, channel int) float32) *audiotest.MockSource {
	m := audiotest.NewMockSource(sampleRate, channels, frames, waveform)
	m.Unsized = true
	return m
}

func newSilentSource(sampleRate, channels, frames int) *audiotest.MockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) float32 { return 0 })
}

func newConstantSource(sampleRate, channels, frames int, value float32) *audiotest.MockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, frames int, frequency float64) *audiotest.MockSource {
	return newMockSource(sampleRate, channels, frames, func(sample, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(sample) / float64(sampleRate)))
	})
}

func sized(m *audiotest.MockSource) *audiotest.MockSource {
	m.Unsized = false
	return m
}

// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
)

// MockSource generates audio data for tests.
// It implements the audio.Source and audio.Lengther interfaces (without
// importing them to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) float32

	// MaxRead caps the frames returned per ReadSamples call when positive,
	// imitating decoders that return short reads.
	MaxRead int
	// Unsized hides the length hint.
	Unsized bool
	// FailAt makes ReadSamples fail once this many frames were produced.
	FailAt int

	closed bool
}

// ErrInjected is returned by a MockSource configured with FailAt.
var ErrInjected = errors.New("injected read failure")

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return value
	})
}

// NewValuesSource plays back planar values, one slice per channel, all of
// the same length.
func NewValuesSource(sampleRate int, values ...[]float32) *MockSource {
	return NewMockSource(sampleRate, len(values), len(values[0]), func(sample int, channel int) float32 {
		return values[channel][sample]
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Closed() bool    { return m.closed }
func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Frames reports the total length, or -1 when Unsized is set.
func (m *MockSource) Frames() int64 {
	if m.Unsized {
		return -1
	}

	return int64(m.totalSamples)
}

// Position is the number of frames produced so far.
func (m *MockSource) Position() int { return m.generated }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

// SeekFrame moves the read position, clamped to the source length.
func (m *MockSource) SeekFrame(frame int64) error {
	m.generated = int(max(0, min(frame, int64(m.totalSamples))))
	return nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailAt > 0 && m.generated >= m.FailAt {
		return 0, ErrInjected
	}
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)
	if m.MaxRead > 0 {
		framesToWrite = min(framesToWrite, m.MaxRead)
	}
	if m.FailAt > 0 {
		framesToWrite = min(framesToWrite, m.FailAt-m.generated)
	}

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

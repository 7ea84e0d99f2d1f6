// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"

	"github.com/ik5/audrender/audio"
)

// Representation is how one sample is stored in the render buffers.
type Representation uint8

const (
	// Fixed824 is a signed 32-bit integer with 24 fractional bits, the
	// canonical sample type of the hardware render callback.
	Fixed824 Representation = iota + 1
	// Float32 is the canonical sample type of the simulated target.
	Float32
)

// FractionBits is the number of fractional bits of a Fixed824 sample.
const FractionBits = 24

func (r Representation) String() string {
	switch r {
	case Fixed824:
		return "Q8.24"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Representation(%d)", uint8(r))
	}
}

func (r Representation) valid() bool {
	return r == Fixed824 || r == Float32
}

// Format describes a linear PCM layout. The zero value is invalid; build one
// with Describe or DescribeInterleaved. A Format never changes after it is
// built.
type Format struct {
	sampleRate  int
	channels    int
	rep         Representation
	interleaved bool
}

// Describe returns the canonical non-interleaved layout: one buffer per
// channel, each sample packed on its own.
func Describe(sampleRate, channels int, rep Representation) (Format, error) {
	return describe(sampleRate, channels, rep, false)
}

// DescribeInterleaved returns a packed interleaved layout, one buffer holding
// every channel of a frame side by side.
func DescribeInterleaved(sampleRate, channels int, rep Representation) (Format, error) {
	return describe(sampleRate, channels, rep, true)
}

func describe(sampleRate, channels int, rep Representation, interleaved bool) (Format, error) {
	if sampleRate <= 0 {
		return Format{}, fmt.Errorf("sample rate %d: %w", sampleRate, audio.ErrInvalidConfiguration)
	}
	if channels <= 0 {
		return Format{}, fmt.Errorf("channel count %d: %w", channels, audio.ErrInvalidConfiguration)
	}
	if !rep.valid() {
		return Format{}, fmt.Errorf("%s: %w", rep, audio.ErrInvalidConfiguration)
	}

	return Format{
		sampleRate:  sampleRate,
		channels:    channels,
		rep:         rep,
		interleaved: interleaved,
	}, nil
}

func (f Format) SampleRate() int                { return f.sampleRate }
func (f Format) Channels() int                  { return f.channels }
func (f Format) Representation() Representation { return f.rep }
func (f Format) Interleaved() bool              { return f.interleaved }

// Valid reports whether f was built by Describe or DescribeInterleaved.
func (f Format) Valid() bool {
	return f.sampleRate > 0 && f.channels > 0 && f.rep.valid()
}

// BytesPerSample is 4 for both representations.
func (f Format) BytesPerSample() int {
	if !f.rep.valid() {
		return 0
	}

	return 4
}

func (f Format) BitsPerSample() int { return 8 * f.BytesPerSample() }

// FrameStride is the distance in bytes between two frames of one buffer.
func (f Format) FrameStride() int {
	if f.interleaved {
		return f.BytesPerSample() * f.channels
	}

	return f.BytesPerSample()
}

// FractionBits reports the fixed-point fraction width, 0 for float.
func (f Format) FractionBits() int {
	if f.rep == Fixed824 {
		return FractionBits
	}

	return 0
}

// WithChannels returns a copy of f with another channel count.
func (f Format) WithChannels(channels int) (Format, error) {
	return describe(f.sampleRate, channels, f.rep, f.interleaved)
}

func (f Format) String() string {
	layout := "non-interleaved"
	if f.interleaved {
		layout = "interleaved"
	}

	return fmt.Sprintf("%d Hz, %d ch, %s, %s", f.sampleRate, f.channels, f.rep, layout)
}

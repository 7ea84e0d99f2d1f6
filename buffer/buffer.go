// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"fmt"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

// MaxSamples caps a bulk load (frames × channels), about ten minutes of
// stereo audio at 48 kHz.
const MaxSamples = 1 << 26

// Buffer is a fully decoded multi-channel clip. It is never mutated after
// construction, so the render goroutine reads it without locks.
type Buffer[S pcm.Sample] struct {
	format   pcm.Format
	channels [][]S
	frames   int
}

// New wraps already decoded planar data. Every channel must have the same
// length and the channel count must match format.
func New[S pcm.Sample](format pcm.Format, channels [][]S) (*Buffer[S], error) {
	if !format.Valid() {
		return nil, fmt.Errorf("buffer format: %w", audio.ErrInvalidConfiguration)
	}
	if format.Representation() != pcm.RepresentationOf[S]() {
		return nil, fmt.Errorf("buffer of %s samples in a %s format: %w",
			pcm.RepresentationOf[S](), format.Representation(), audio.ErrInvalidConfiguration)
	}
	if len(channels) != format.Channels() {
		return nil, fmt.Errorf("got %d channels for a %d channel format: %w",
			len(channels), format.Channels(), audio.ErrInvalidConfiguration)
	}

	frames := len(channels[0])
	for c, ch := range channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("channel %d has %d frames, channel 0 has %d: %w",
				c, len(ch), frames, audio.ErrInvalidConfiguration)
		}
	}
	if frames*len(channels) > MaxSamples {
		return nil, fmt.Errorf("%d frames × %d channels: %w", frames, len(channels), audio.ErrOutOfMemory)
	}

	return &Buffer[S]{
		format:   format,
		channels: channels,
		frames:   frames,
	}, nil
}

func (b *Buffer[S]) FrameCount() int    { return b.frames }
func (b *Buffer[S]) ChannelCount() int  { return len(b.channels) }
func (b *Buffer[S]) Format() pcm.Format { return b.format }
func (b *Buffer[S]) Channel(c int) []S  { return b.channels[c] }
func (b *Buffer[S]) At(c, frame int) S  { return b.channels[c][frame] }

// Duration is the clip length in seconds.
func (b *Buffer[S]) Duration() float64 {
	return float64(b.frames) / float64(b.format.SampleRate())
}

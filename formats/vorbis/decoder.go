// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audrender/audio"
	"github.com/jfreymuth/oggvorbis"
)

const bufSize = 4096

// oggReader is the subset of oggvorbis.Reader the source uses.
// Read fills whole frames and returns the number of values written.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
	Length() int64
	SetPosition(pos int64) error
}

type source struct {
	dec      oggReader
	channels int
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return bufSize }

// Frames is -1 when the reader could not find the last page.
func (s *source) Frames() int64 {
	if n := s.dec.Length(); n > 0 {
		return n
	}

	return -1
}

func (s *source) SeekFrame(frame int64) error {
	if err := s.dec.SetPosition(max(0, frame)); err != nil {
		return fmt.Errorf("seeking vorbis to frame %d: %w", frame, err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)/s.channels*s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	return s.dec.Read(dst)
}

// Decoder decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding vorbis headers: %w", err)
	}
	if dec.Channels() < 1 {
		return nil, ErrNoChannels
	}

	return &source{dec: dec, channels: dec.Channels()}, nil
}

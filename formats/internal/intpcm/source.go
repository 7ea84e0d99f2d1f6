// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the go-audio container decoders, which hand out
// integer PCM, to audio.Source.
package intpcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the part of wav.Decoder and aiff.Decoder a Source needs.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source normalizes integer PCM of a fixed bit depth to float32 in [-1, 1).
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	scale      float32
	offset     int
	frames     int64
	intBuf     *goaudio.IntBuffer
}

// Options describe the stream behind a Reader.
type Options struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Unsigned8 marks 8-bit data stored unsigned around 128, as WAV does.
	Unsigned8 bool
	// Frames is the length in frames, -1 when unknown.
	Frames int64
}

// ErrBitDepth is returned for depths other than 8, 16, 24 and 32.
var ErrBitDepth = errors.New("unsupported bit depth")

func NewSource(dec Reader, opts Options) (*Source, error) {
	var scale float32
	switch opts.BitDepth {
	case 8:
		scale = 128
	case 16:
		scale = 32768
	case 24:
		scale = 8388608
	case 32:
		scale = 2147483648
	default:
		return nil, fmt.Errorf("%d bits: %w", opts.BitDepth, ErrBitDepth)
	}

	s := &Source{
		dec:        dec,
		sampleRate: opts.SampleRate,
		channels:   opts.Channels,
		scale:      scale,
		frames:     opts.Frames,
	}
	if opts.BitDepth == 8 && opts.Unsigned8 {
		s.offset = 128
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }
func (s *Source) Frames() int64   { return s.frames }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}

	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.offset) / s.scale
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}

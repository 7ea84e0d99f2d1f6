// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audrender/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 4
)

// mp3Reader is the subset of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// Frames is -1 when the decoder could not measure the stream.
func (s *source) Frames() int64 {
	n := s.dec.Length()
	if n < 0 {
		return -1
	}

	return n / bytesPerFrame
}

func (s *source) SeekFrame(frame int64) error {
	length := s.dec.Length()
	if length < 0 {
		return ErrNotSeekable
	}

	off := max(0, min(frame*bytesPerFrame, length))
	if _, err := s.dec.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seeking mp3 to frame %d: %w", frame, err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// Whole frames only so the interleaving never drifts.
	bytesNeeded := len(dst) / channels * bytesPerFrame
	if bytesNeeded == 0 {
		return 0, nil
	}
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	n -= n % bytesPerFrame

	for i := range n / 2 {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	return n / 2, err
}

// Decoder decodes MPEG-1/2 Layer III through github.com/hajimehoshi/go-mp3.
// Seekable readers give a length hint and frame seeking.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3 header: %w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// Writer streams interleaved 16-bit PCM into a WAV file. The header sizes
// are patched on Close, so w must be seekable.
type Writer struct {
	enc    *gowav.Encoder
	buf    *goaudio.IntBuffer
	frames int
	closed bool
}

func NewWriter(w io.WriteSeeker, sampleRate, channels int) *Writer {
	return &Writer{
		enc: gowav.NewEncoder(w, sampleRate, 16, channels, pcmFormat),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

// WriteInt16 appends interleaved samples; a trailing partial frame is
// dropped.
func (w *Writer) WriteInt16(samples []int16) error {
	if w.closed {
		return ErrWriterClosed
	}

	channels := w.buf.Format.NumChannels
	n := len(samples) - len(samples)%channels
	if n == 0 {
		return nil
	}

	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	for i, s := range samples[:n] {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav frames: %w", err)
	}
	w.frames += n / channels

	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.frames == 0 {
		// go-audio only writes the header with the first frame.
		if err := w.enc.Write(&goaudio.IntBuffer{Format: w.buf.Format, Data: nil}); err != nil {
			return fmt.Errorf("writing wav header: %w", err)
		}
	}

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}

	return nil
}

// WriteWAV16 writes a complete 16-bit PCM WAV of interleaved samples.
func WriteWAV16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	wr := NewWriter(w, sampleRate, channels)
	if err := wr.WriteInt16(samples); err != nil {
		return err
	}

	return wr.Close()
}

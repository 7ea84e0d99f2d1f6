// SPDX-License-Identifier: EPL-2.0

package intpcm

import (
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type fakeReader struct {
	data []int
	pos  int
	err  error
}

func (f *fakeReader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: 1, SampleRate: 8000}
}

func (f *fakeReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data[f.pos:])
	f.pos += n

	return n, nil
}

func TestSource_Scaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		in   int
		want float32
	}{
		{"16 bit", Options{BitDepth: 16}, -16384, -0.5},
		{"24 bit", Options{BitDepth: 24}, 4194304, 0.5},
		{"32 bit", Options{BitDepth: 32}, -1073741824, -0.5},
		{"signed 8 bit", Options{BitDepth: 8}, 64, 0.5},
		{"unsigned 8 bit", Options{BitDepth: 8, Unsigned8: true}, 64, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewSource(&fakeReader{data: []int{tt.in}}, tt.opts)
			if err != nil {
				t.Fatal(err)
			}

			dst := make([]float32, 1)
			n, err := s.ReadSamples(dst)
			if n != 1 || (err != nil && err != io.EOF) {
				t.Fatalf("ReadSamples() = %d, %v", n, err)
			}
			if dst[0] != tt.want {
				t.Errorf("sample = %v, want %v", dst[0], tt.want)
			}
		})
	}
}

func TestSource_EOFAndErrors(t *testing.T) {
	t.Parallel()

	s, err := NewSource(&fakeReader{data: []int{1, 2, 3}}, Options{SampleRate: 8000, Channels: 1, BitDepth: 16, Frames: 3})
	if err != nil {
		t.Fatal(err)
	}
	if s.Frames() != 3 || s.SampleRate() != 8000 || s.Channels() != 1 {
		t.Errorf("metadata = %d frames, %d Hz, %d ch", s.Frames(), s.SampleRate(), s.Channels())
	}

	dst := make([]float32, 8)
	if n, err := s.ReadSamples(dst); n != 3 || err != io.EOF {
		t.Errorf("short read = %d, %v; want 3, EOF", n, err)
	}
	if n, err := s.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("drained read = %d, %v; want 0, EOF", n, err)
	}
	if n, _ := s.ReadSamples(nil); n != 0 {
		t.Errorf("empty dst read = %d", n)
	}

	boom := errors.New("boom")
	bad, _ := NewSource(&fakeReader{err: boom}, Options{BitDepth: 16})
	if _, err := bad.ReadSamples(dst); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}

	if _, err := NewSource(&fakeReader{}, Options{BitDepth: 12}); !errors.Is(err, ErrBitDepth) {
		t.Errorf("12 bit error = %v, want ErrBitDepth", err)
	}
}

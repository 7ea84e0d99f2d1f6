// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audrender/audio"
)

// mockMP3Reader stands in for gomp3.Decoder with a fixed int16 stream.
type mockMP3Reader struct {
	samples  []int16
	offset   int // in samples
	maxRead  int // bytes per Read when positive
	unsized  bool
	readErr  error
	seekedTo int64
}

func (m *mockMP3Reader) SampleRate() int { return 44100 }

func (m *mockMP3Reader) Length() int64 {
	if m.unsized {
		return -1
	}

	return int64(len(m.samples) * 2)
}

func (m *mockMP3Reader) Seek(offset int64, whence int) (int64, error) {
	m.seekedTo = offset
	m.offset = int(offset / 2)
	return offset, nil
}

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := min(len(buf)/2, len(m.samples)-m.offset)
	if m.maxRead > 0 {
		n = min(n, m.maxRead/2)
	}
	for i := range n {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(m.samples[m.offset+i]))
	}
	m.offset += n

	return n * 2, nil
}

func newTestSource(m *mockMP3Reader) *source {
	return &source{dec: m, sampleRate: m.SampleRate(), buf: make([]byte, 64)}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("This is not MP3 data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		maxRead int
	}{
		{"whole reads", 0},
		{"short decoder reads", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newTestSource(&mockMP3Reader{
				samples: []int16{0, 16384, -16384, -32768, 8192, -8192},
				maxRead: tt.maxRead,
			})

			dst := make([]float32, 4)
			n, err := src.ReadSamples(dst)
			if err != nil || n != 4 {
				t.Fatalf("ReadSamples() = %d, %v, want 4, nil", n, err)
			}
			want := []float32{0, 0.5, -0.5, -1}
			for i := range want {
				if dst[i] != want[i] {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
				}
			}

			n, err = src.ReadSamples(dst)
			if n != 2 || err != io.EOF {
				t.Errorf("tail ReadSamples() = %d, %v, want 2, EOF", n, err)
			}
			n, err = src.ReadSamples(dst)
			if n != 0 || err != io.EOF {
				t.Errorf("drained ReadSamples() = %d, %v, want 0, EOF", n, err)
			}
		})
	}
}

func TestSource_ReadSamples_OddDst(t *testing.T) {
	t.Parallel()

	src := newTestSource(&mockMP3Reader{samples: make([]int16, 8)})

	n, err := src.ReadSamples(make([]float32, 3))
	if n != 2 || err != nil {
		t.Errorf("ReadSamples() = %d, %v, want 2, nil", n, err)
	}
	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := newTestSource(&mockMP3Reader{samples: make([]int16, 8), readErr: boom})

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_FramesAndSeek(t *testing.T) {
	t.Parallel()

	m := &mockMP3Reader{samples: []int16{1, 1, 2, 2, 3, 3, 4, 4}}
	src := newTestSource(m)

	if got := audio.FramesOf(src); got != 4 {
		t.Errorf("FramesOf() = %d, want 4", got)
	}

	if err := src.SeekFrame(2); err != nil {
		t.Fatal(err)
	}
	if m.seekedTo != 8 {
		t.Errorf("byte offset = %d, want 8", m.seekedTo)
	}

	dst := make([]float32, 2)
	if _, err := src.ReadSamples(dst); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 3.0/32768 {
		t.Errorf("after seek dst[0] = %v, want frame 2", dst[0])
	}

	if err := src.SeekFrame(100); err != nil {
		t.Fatal(err)
	}
	if m.seekedTo != 16 {
		t.Errorf("clamped byte offset = %d, want 16", m.seekedTo)
	}
}

func TestSource_UnsizedCannotSeek(t *testing.T) {
	t.Parallel()

	src := newTestSource(&mockMP3Reader{samples: make([]int16, 8), unsized: true})

	if got := src.Frames(); got != -1 {
		t.Errorf("Frames() = %d, want -1", got)
	}
	if err := src.SeekFrame(0); !errors.Is(err, ErrNotSeekable) {
		t.Errorf("SeekFrame() error = %v, want ErrNotSeekable", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	m := &mockMP3Reader{samples: make([]int16, 1<<16)}
	src := newTestSource(m)
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := src.ReadSamples(dst); err == io.EOF {
			m.offset = 0
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
	"testing"
)

func TestMonoMixer_MonoPassthrough(t *testing.T) {
	t.Parallel()

	src := newConstantSource(44100, 1, 64, 0.5)
	mono := NewMonoMixer(src)

	buf := make([]float32, 64)
	n, err := mono.ReadSamples(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	if n != 64 {
		t.Fatalf("ReadSamples() n = %d, want 64", n)
	}

	for i := range n {
		if buf[i] != 0.5 {
			t.Errorf("buf[%d] = %v, want 0.5", i, buf[i])
		}
	}
}

func TestMonoMixer_Averages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		values   []float32
		want     float32
	}{
		{"stereo", 2, []float32{0.2, 0.6}, 0.4},
		{"stereo opposite", 2, []float32{0.5, -0.5}, 0},
		{"three channel", 3, []float32{0.3, 0.3, 0.6}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newMockSource(44100, tt.channels, 16, func(sample, channel int) float32 {
				return tt.values[channel]
			})
			mono := NewMonoMixer(src)

			buf := make([]float32, 16)
			n, _ := mono.ReadSamples(buf)
			if n != 16 {
				t.Fatalf("ReadSamples() n = %d, want 16", n)
			}

			for i := range n {
				if math.Abs(float64(buf[i]-tt.want)) > 1e-6 {
					t.Errorf("buf[%d] = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestMonoMixer_Metadata(t *testing.T) {
	t.Parallel()

	src := sized(newSilentSource(22050, 2, 300))
	mono := NewMonoMixer(src)

	if mono.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", mono.Channels())
	}
	if mono.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", mono.SampleRate())
	}
	if mono.Frames() != 300 {
		t.Errorf("Frames() = %d, want 300", mono.Frames())
	}
}

func TestMonoMixer_EmptyBuffer(t *testing.T) {
	t.Parallel()

	mono := NewMonoMixer(newSilentSource(44100, 2, 10))

	n, err := mono.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	mono := NewMonoMixer(newSilentSource(44100, 2, 10))

	buf := make([]float32, 32)
	n, err := mono.ReadSamples(buf)
	if n != 10 || err != io.EOF {
		t.Fatalf("first read = (%d, %v), want (10, io.EOF)", n, err)
	}

	n, err = mono.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("second read = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func BenchmarkMonoMixer_StereoToMono(b *testing.B) {
	buf := make([]float32, 512)

	b.ReportAllocs()

	for b.Loop() {
		mono := NewMonoMixer(newSineSource(44100, 2, 4410, 440.0))
		for {
			if _, err := mono.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audrender/internal/audiotest"
)

func drain(t *testing.T, src Source, bufSize int) []float32 {
	t.Helper()

	buf := make([]float32, bufSize)
	var out []float32

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if n == 0 {
			return out
		}
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	src := newSilentSource(48000, 2, 1000)
	resampler := NewResampler(src, 44100)

	if resampler.SampleRate() != 44100 {
		t.Errorf("Resampler.SampleRate() = %d, want 44100", resampler.SampleRate())
	}

	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}

	if got := resampler.Frames(); got != -1 {
		t.Errorf("Resampler.Frames() = %d, want -1 without a length hint", got)
	}
}

func TestResampler_FramesHint(t *testing.T) {
	t.Parallel()

	src := sized(newSilentSource(48000, 1, 48000))
	resampler := NewResampler(src, 44100)

	if got := resampler.Frames(); got != 44100 {
		t.Errorf("Resampler.Frames() = %d, want 44100", got)
	}
}

func TestResampler_SameRate(t *testing.T) {
	t.Parallel()

	src := newConstantSource(44100, 1, 100, 0.5)
	samples := drain(t, NewResampler(src, 44100), 100)

	if len(samples) == 0 {
		t.Fatal("ReadSamples() returned 0 samples")
	}

	for i, s := range samples {
		if math.Abs(float64(s-0.5)) > 0.1 {
			t.Errorf("samples[%d] = %v, want ≈0.5", i, s)
		}
	}
}

func TestResampler_RateConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		srcRate   int
		dstRate   int
		channels  int
		wantFrame int
		tolerance int
	}{
		{"48k to 44.1k mono", 48000, 44100, 1, 44100, 100},
		{"22.05k to 44.1k stereo", 22050, 44100, 2, 44100, 200},
		{"8k to 44.1k mono", 8000, 44100, 1, 44100, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSineSource(tt.srcRate, tt.channels, tt.srcRate, 440.0)
			samples := drain(t, NewResampler(src, tt.dstRate), 1024*tt.channels)

			if len(samples)%tt.channels != 0 {
				t.Fatalf("got %d samples, not a multiple of %d channels", len(samples), tt.channels)
			}

			frames := len(samples) / tt.channels
			if frames < tt.wantFrame-tt.tolerance || frames > tt.wantFrame+tt.tolerance {
				t.Errorf("resampled %d frames, want ≈%d (±%d)", frames, tt.wantFrame, tt.tolerance)
			}

			for i, s := range samples {
				if s < -1.5 || s > 1.5 {
					t.Fatalf("samples[%d] = %v, outside [-1.5, 1.5]", i, s)
				}
			}
		})
	}
}

func TestResampler_StereoChannelsStayApart(t *testing.T) {
	t.Parallel()

	src := newMockSource(48000, 2, 4800, func(sample, channel int) float32 {
		if channel == 0 {
			return 0.25
		}
		return -0.25
	})

	samples := drain(t, NewResampler(src, 44100), 2048)
	for f := 0; f+1 < len(samples); f += 2 {
		if math.Abs(float64(samples[f]-0.25)) > 0.05 || math.Abs(float64(samples[f+1]+0.25)) > 0.05 {
			t.Fatalf("frame %d = (%v, %v), want (0.25, -0.25)", f/2, samples[f], samples[f+1])
		}
	}
}

func TestResampler_TerminatesOnShortSource(t *testing.T) {
	t.Parallel()

	samples := drain(t, NewResampler(newSilentSource(48000, 1, 10), 44100), 64)
	if len(samples) > 16 {
		t.Errorf("got %d samples from a 10-frame source, want at most 16", len(samples))
	}
}

func TestResampler_ShortSourceReads(t *testing.T) {
	t.Parallel()

	src := newConstantSource(22050, 2, 500, 0.25)
	src.MaxRead = 3
	samples := drain(t, NewResampler(src, 44100), 256)

	if frames := len(samples) / 2; frames < 990 || frames > 1000 {
		t.Errorf("resampled %d frames, want ≈1000", frames)
	}
	for i, s := range samples {
		if math.Abs(float64(s-0.25)) > 1e-5 {
			t.Fatalf("samples[%d] = %v, want 0.25", i, s)
		}
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	src := newSilentSource(48000, 1, 4096)
	src.FailAt = 100
	resampler := NewResampler(src, 44100)

	var err error
	for err == nil {
		_, err = resampler.ReadSamples(make([]float32, 64))
	}
	if !errors.Is(err, audiotest.ErrInjected) {
		t.Errorf("ReadSamples() error = %v, want ErrInjected", err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newSilentSource(48000, 2, 100), 44100)

	_, err := resampler.ReadSamples(make([]float32, 3))
	if !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newSilentSource(48000, 1, 10), 44100)
	if err := resampler.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func BenchmarkResampler_48kTo44k(b *testing.B) {
	buf := make([]float32, 1024)

	b.ReportAllocs()

	for b.Loop() {
		resampler := NewResampler(newSineSource(48000, 2, 4800, 440.0), 44100)
		for {
			if _, err := resampler.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}

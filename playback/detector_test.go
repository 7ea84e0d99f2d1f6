// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

func newDetector(t *testing.T, threshold float64, duration int) *Detector {
	t.Helper()

	d, err := NewDetector(DetectorConfig{
		Threshold:       threshold,
		Attack:          DefaultAttack,
		Release:         DefaultRelease,
		PlayingDuration: duration,
	})
	if err != nil {
		t.Fatal(err)
	}

	return d
}

func gates(d *Detector, samples ...float64) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		if d.Update(s) {
			out[i] = 1
		}
	}

	return out
}

func TestDetector_TriggerOpensWindow(t *testing.T) {
	t.Parallel()

	d := newDetector(t, 100000, 5)

	got := gates(d, 200000, 0, 0, 0, 0, 0, 0, 0, 0)
	want := []int{0, 1, 1, 1, 1, 1, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("gates = %v, want %v", got, want)
	}
	if d.Open() || d.Remaining() != 0 {
		t.Errorf("Open() = %v, Remaining() = %d after window", d.Open(), d.Remaining())
	}
}

func TestDetector_SilenceNeverOpens(t *testing.T) {
	t.Parallel()

	d := newDetector(t, 100000, 5)
	for i := range 10000 {
		if d.Update(0) {
			t.Fatalf("gate opened on silent frame %d", i)
		}
	}
	if d.Level() != 0 {
		t.Errorf("Level() = %v, want 0", d.Level())
	}
}

func TestDetector_LevelDecaysTowardZero(t *testing.T) {
	t.Parallel()

	d := newDetector(t, math.MaxFloat64, 5)
	for range 50000 {
		d.Update(50000)
	}
	peak := d.Level()
	if peak <= 0 {
		t.Fatalf("Level() = %v after steady input, want > 0", peak)
	}

	for range 200000 {
		d.Update(0)
	}
	if lvl := d.Level(); lvl < 0 || lvl > peak/100 {
		t.Errorf("Level() = %v after silence, want in [0, %v]", lvl, peak/100)
	}
}

func TestDetector_LevelIsRectified(t *testing.T) {
	t.Parallel()

	pos := newDetector(t, math.MaxFloat64, 5)
	neg := newDetector(t, math.MaxFloat64, 5)
	for range 1000 {
		pos.Update(30000)
		neg.Update(-30000)
	}
	if pos.Level() != neg.Level() {
		t.Errorf("Level() differs by sign: %v vs %v", pos.Level(), neg.Level())
	}
}

func TestDetector_IgnoresTriggersWhileOpen(t *testing.T) {
	t.Parallel()

	d := newDetector(t, 100000, 4)

	// The second spike lands inside the window and does not extend it.
	got := gates(d, 200000, 0, 200000, 0, 0, 0, 0, 0)
	want := []int{0, 1, 1, 1, 1, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("gates = %v, want %v", got, want)
	}
}

func TestDetector_Reset(t *testing.T) {
	t.Parallel()

	d := newDetector(t, 100000, 5)
	d.Update(200000)
	if !d.Open() {
		t.Fatal("window not open after trigger")
	}

	d.Reset()
	if d.Open() || d.Level() != 0 || d.Remaining() != 0 {
		t.Errorf("after Reset: Open() = %v, Level() = %v, Remaining() = %d", d.Open(), d.Level(), d.Remaining())
	}
}

func TestDefaultDetectorConfig(t *testing.T) {
	t.Parallel()

	fixed, _ := pcm.Describe(48000, 1, pcm.Fixed824)
	cfg := DefaultDetectorConfig(fixed)
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("fixed threshold = %v, want %v", cfg.Threshold, DefaultThreshold)
	}
	if cfg.PlayingDuration != 96000 {
		t.Errorf("PlayingDuration = %d, want 96000", cfg.PlayingDuration)
	}

	float, _ := pcm.Describe(48000, 1, pcm.Float32)
	fcfg := DefaultDetectorConfig(float)
	want := DefaultThreshold * 128 / float64(math.MaxInt32)
	if math.Abs(fcfg.Threshold-want) > 1e-9 {
		t.Errorf("float threshold = %v, want %v", fcfg.Threshold, want)
	}
	if err := fcfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDetectorConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DetectorConfig
	}{
		{"negative threshold", DetectorConfig{Threshold: -1, Attack: 1, Release: 1, PlayingDuration: 1}},
		{"NaN threshold", DetectorConfig{Threshold: math.NaN(), Attack: 1, Release: 1, PlayingDuration: 1}},
		{"zero attack", DetectorConfig{Threshold: 1, Attack: 0, Release: 1, PlayingDuration: 1}},
		{"zero release", DetectorConfig{Threshold: 1, Attack: 1, Release: 0, PlayingDuration: 1}},
		{"zero duration", DetectorConfig{Threshold: 1, Attack: 1, Release: 1, PlayingDuration: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewDetector(tt.cfg); !errors.Is(err, audio.ErrInvalidConfiguration) {
				t.Errorf("NewDetector() error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

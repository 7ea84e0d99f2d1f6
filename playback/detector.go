// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

const (
	// DefaultThreshold is the trigger level in the Q8.24 sample domain.
	DefaultThreshold = 100000
	DefaultAttack    = 1000
	DefaultRelease   = 10000
	// DefaultPlayingSeconds is how long one trigger keeps playback open.
	DefaultPlayingSeconds = 2
)

// DetectorConfig tunes the level follower and the trigger window.
type DetectorConfig struct {
	// Threshold is compared against the jump between the rectified input
	// and the smoothed level, in the engine's sample domain.
	Threshold float64
	// Attack and Release divide the rising and falling steps of the follower.
	Attack  float64
	Release float64
	// PlayingDuration is the window length in frames.
	PlayingDuration int
}

// DefaultDetectorConfig returns the stock tuning for format: the Q8.24
// threshold converted to the format's representation and a two second
// window.
func DefaultDetectorConfig(format pcm.Format) DetectorConfig {
	return DetectorConfig{
		Threshold:       pcm.ConvertSample(DefaultThreshold, pcm.Fixed824, format.Representation()),
		Attack:          DefaultAttack,
		Release:         DefaultRelease,
		PlayingDuration: DefaultPlayingSeconds * format.SampleRate(),
	}
}

func (c DetectorConfig) Validate() error {
	switch {
	case c.Threshold < 0 || math.IsNaN(c.Threshold):
		return fmt.Errorf("threshold %v: %w", c.Threshold, audio.ErrInvalidConfiguration)
	case c.Attack < 1 || c.Release < 1:
		return fmt.Errorf("attack %v / release %v must be >= 1: %w", c.Attack, c.Release, audio.ErrInvalidConfiguration)
	case c.PlayingDuration <= 0:
		return fmt.Errorf("playing duration %d: %w", c.PlayingDuration, audio.ErrInvalidConfiguration)
	}

	return nil
}

// Detector is an asymmetric level follower driving a one-shot trigger
// window. While the window is open further crossings are ignored.
//
// Update belongs to the render goroutine; Level, Remaining and Open are
// atomic snapshots for any goroutine.
type Detector struct {
	cfg       DetectorConfig
	level     float64
	remaining int

	levelBits atomic.Uint64
	left      atomic.Int64
}

func NewDetector(cfg DetectorConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Detector{cfg: cfg}, nil
}

func (d *Detector) Config() DetectorConfig { return d.cfg }

// Update feeds one input sample and reports whether the window is open for
// this frame. The gate is taken before the sample is analysed, so a trigger
// sample opens the window for the next PlayingDuration frames.
func (d *Detector) Update(sample float64) bool {
	gate := d.remaining > 0
	if gate {
		d.remaining--
	}

	diff := math.Abs(sample) - d.level
	if diff > 0 {
		d.level += diff / d.cfg.Attack
	} else {
		d.level += diff / d.cfg.Release
	}

	if d.remaining == 0 && math.Abs(diff) > d.cfg.Threshold {
		d.remaining = d.cfg.PlayingDuration
	}

	d.levelBits.Store(math.Float64bits(d.level))
	d.left.Store(int64(d.remaining))

	return gate
}

// Reset clears the follower and closes the window. Call it only while the
// render goroutine is not running.
func (d *Detector) Reset() {
	d.level = 0
	d.remaining = 0
	d.levelBits.Store(0)
	d.left.Store(0)
}

// Level is the smoothed signal level, never negative.
func (d *Detector) Level() float64 { return math.Float64frombits(d.levelBits.Load()) }

// Remaining is the number of open frames left in the window.
func (d *Detector) Remaining() int { return int(d.left.Load()) }

// Open reports whether the next frame will be audible.
func (d *Detector) Open() bool { return d.left.Load() > 0 }

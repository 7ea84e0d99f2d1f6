// SPDX-License-Identifier: EPL-2.0

package audrender

import (
	"fmt"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
	"github.com/ik5/audrender/playback"
	"github.com/ik5/audrender/session"
)

// Mode selects the render strategy of a Player.
type Mode int

const (
	ModeBuffer Mode = iota + 1
	ModeStream
	ModeSynth
	ModePassthrough
	ModeTriggered
)

func (m Mode) String() string {
	switch m {
	case ModeBuffer:
		return "buffer"
	case ModeStream:
		return "stream"
	case ModeSynth:
		return "synth"
	case ModePassthrough:
		return "passthrough"
	case ModeTriggered:
		return "triggered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m := ModeBuffer; m <= ModeTriggered; m++ {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown mode %q: %w", s, audio.ErrInvalidConfiguration)
}

// needsInput reports whether the mode renders from captured input.
func (m Mode) needsInput() bool { return m == ModePassthrough || m == ModeTriggered }

// needsClip reports whether the mode plays a file.
func (m Mode) needsClip() bool {
	return m == ModeBuffer || m == ModeStream || m == ModeTriggered
}

// Backend selects the device clock.
type Backend int

const (
	// BackendOto plays through github.com/ebitengine/oto/v3. Output only.
	BackendOto Backend = iota + 1
	// BackendMalgo plays, and captures in duplex sessions, through
	// github.com/gen2brain/malgo.
	BackendMalgo
	// BackendOffline renders on a software clock goroutine.
	BackendOffline
	// BackendManual renders only when the caller invokes RenderBlocks.
	BackendManual
)

func (b Backend) String() string {
	switch b {
	case BackendOto:
		return "oto"
	case BackendMalgo:
		return "malgo"
	case BackendOffline:
		return "offline"
	case BackendManual:
		return "manual"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend is the inverse of Backend.String.
func ParseBackend(s string) (Backend, error) {
	for b := BackendOto; b <= BackendManual; b++ {
		if b.String() == s {
			return b, nil
		}
	}

	return 0, fmt.Errorf("unknown backend %q: %w", s, audio.ErrInvalidConfiguration)
}

// Config describes a Player.
type Config[S pcm.Sample] struct {
	Mode    Mode
	Backend Backend
	Session session.Config

	// Path is the clip for the buffer, stream and triggered modes.
	Path string
	// Mono folds a multi-channel clip into one channel when loading.
	Mono bool
	// Loop and Reverse set the initial cursor of buffer playback.
	Loop    bool
	Reverse bool
	// Frequency of the synth tone. Zero means engine.DefaultFrequency.
	Frequency float64
	// Detector tunes triggered playback; nil uses the stock tuning.
	Detector *playback.DetectorConfig

	// RecordPath, when set, records every rendered block to a WAV file.
	RecordPath string

	// Registry maps file extensions to decoders. Nil means
	// DefaultRegistry().
	Registry *audio.Registry

	// Realtime paces the offline clock at the session period.
	Realtime bool
	// Input feeds captured frames to the offline and manual backends.
	Input session.Capture[S]
}

// DefaultConfig plays a clip from memory on the default output device.
func DefaultConfig[S pcm.Sample](path string) Config[S] {
	return Config[S]{
		Mode:    ModeBuffer,
		Backend: BackendOto,
		Session: session.DefaultConfig(),
		Path:    path,
	}
}

// withDefaults derives the session settings implied by the mode and sample
// type.
func (c Config[S]) withDefaults() Config[S] {
	c.Session.Representation = pcm.RepresentationOf[S]()
	if c.Mode.needsInput() {
		c.Session.Direction |= session.Input
		c.Session.Category = session.CategoryPlayAndRecord
		if c.Session.InputChannels < 1 {
			c.Session.InputChannels = 1
		}
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}

	return c
}

func (c Config[S]) Validate() error {
	switch {
	case c.Mode < ModeBuffer || c.Mode > ModeTriggered:
		return fmt.Errorf("mode %s: %w", c.Mode, audio.ErrInvalidConfiguration)
	case c.Backend < BackendOto || c.Backend > BackendManual:
		return fmt.Errorf("backend %s: %w", c.Backend, audio.ErrInvalidConfiguration)
	case c.Mode.needsClip() && c.Path == "":
		return fmt.Errorf("%s mode needs a clip path: %w", c.Mode, audio.ErrInvalidConfiguration)
	case c.Mode.needsInput() && c.Backend == BackendOto:
		return fmt.Errorf("%s mode needs input, the %s backend is output only: %w", c.Mode, c.Backend, audio.ErrInvalidConfiguration)
	case c.Frequency < 0:
		return fmt.Errorf("frequency %g: %w", c.Frequency, audio.ErrInvalidConfiguration)
	}

	if c.Detector != nil {
		if err := c.Detector.Validate(); err != nil {
			return err
		}
	}

	return c.withDefaults().Session.Validate()
}

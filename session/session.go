// SPDX-License-Identifier: EPL-2.0

package session

import (
	"fmt"
	"math"
	"time"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/engine"
	"github.com/ik5/audrender/pcm"
)

// Direction flags select the device streams.
type Direction uint8

const (
	Output Direction = 1 << iota
	Input
)

func (d Direction) Has(flag Direction) bool { return d&flag != 0 }

func (d Direction) String() string {
	switch d {
	case Output:
		return "output"
	case Input:
		return "input"
	case Output | Input:
		return "duplex"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Category says what the application does with the hardware.
type Category uint8

const (
	CategoryPlayback Category = iota
	CategoryPlayAndRecord
)

func (c Category) String() string {
	switch c {
	case CategoryPlayback:
		return "playback"
	case CategoryPlayAndRecord:
		return "play-and-record"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

const (
	DefaultSampleRate     = 44100
	DefaultBufferDuration = 10 * time.Millisecond

	minFramesPerBuffer = 16
	maxFramesPerBuffer = 8192
)

// Config is what the application asks the hardware for.
type Config struct {
	SampleRate int
	// BufferDuration is a hint for the device period.
	BufferDuration time.Duration
	Channels       int
	InputChannels  int
	Direction      Direction
	Category       Category
	Representation pcm.Representation
}

// DefaultConfig is stereo float output at 44.1 kHz with a 10 ms period.
func DefaultConfig() Config {
	return Config{
		SampleRate:     DefaultSampleRate,
		BufferDuration: DefaultBufferDuration,
		Channels:       2,
		InputChannels:  1,
		Direction:      Output,
		Category:       CategoryPlayback,
		Representation: pcm.Float32,
	}
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("sample rate %d: %w", c.SampleRate, audio.ErrInvalidConfiguration)
	case c.BufferDuration <= 0:
		return fmt.Errorf("buffer duration %s: %w", c.BufferDuration, audio.ErrInvalidConfiguration)
	case c.Channels < 1:
		return fmt.Errorf("channels %d: %w", c.Channels, audio.ErrInvalidConfiguration)
	case !c.Direction.Has(Output):
		return fmt.Errorf("direction %s has no output: %w", c.Direction, audio.ErrInvalidConfiguration)
	case c.Direction.Has(Input) && c.InputChannels < 1:
		return fmt.Errorf("input channels %d: %w", c.InputChannels, audio.ErrInvalidConfiguration)
	case c.Direction.Has(Input) && c.Category != CategoryPlayAndRecord:
		return fmt.Errorf("input needs the %s category: %w", CategoryPlayAndRecord, audio.ErrInvalidConfiguration)
	}

	return nil
}

// Session is a negotiated hardware configuration.
type Session struct {
	cfg             Config
	format          pcm.Format
	framesPerBuffer int
}

// Configure validates cfg and negotiates the period. The software backends
// honour the requested rate, so the negotiated rate is cfg.SampleRate; the
// period is rounded to whole frames and clamped to [16, 8192].
func Configure(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, err := pcm.Describe(cfg.SampleRate, cfg.Channels, cfg.Representation)
	if err != nil {
		return nil, err
	}

	frames := int(math.Round(cfg.BufferDuration.Seconds() * float64(cfg.SampleRate)))
	frames = max(minFramesPerBuffer, min(frames, maxFramesPerBuffer))

	return &Session{
		cfg:             cfg,
		format:          format,
		framesPerBuffer: frames,
	}, nil
}

func (s *Session) Config() Config       { return s.cfg }
func (s *Session) SampleRate() int      { return s.format.SampleRate() }
func (s *Session) Channels() int        { return s.format.Channels() }
func (s *Session) InputChannels() int   { return s.cfg.InputChannels }
func (s *Session) Format() pcm.Format   { return s.format }
func (s *Session) FramesPerBuffer() int { return s.framesPerBuffer }
func (s *Session) Direction() Direction { return s.cfg.Direction }
func (s *Session) Duplex() bool         { return s.cfg.Direction.Has(Input) }
func (s *Session) Period() time.Duration {
	return time.Duration(s.framesPerBuffer) * time.Second / time.Duration(s.format.SampleRate())
}

// EngineConfig sizes an engine for this session. MaxFrames leaves room for
// devices that ask for more than one period per callback.
func (s *Session) EngineConfig() engine.Config {
	return engine.Config{
		Format:    s.format,
		MaxFrames: max(s.framesPerBuffer, engine.DefaultMaxFrames),
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("%s, %s, %d frames/buffer", s.format, s.cfg.Direction, s.framesPerBuffer)
}

// Renderer is the device side of an engine.
type Renderer[S pcm.Sample] interface {
	Callback(args *engine.RenderArgs[S]) engine.Status
	MaxFrames() int
}

// Device is a clock driving a Renderer.
type Device interface {
	Start() error
	Stop() error
	Close() error
}

// Sink receives every block a device rendered.
type Sink[S pcm.Sample] = engine.Tap[S]

// planes allocates channels × frames of scratch.
func planes[S pcm.Sample](channels, frames int) [][]S {
	out := make([][]S, channels)
	for c := range out {
		out[c] = make([]S, frames)
	}

	return out
}

// window points view at the first n frames of each scratch plane.
func window[S pcm.Sample](view, scratch [][]S, n int) [][]S {
	for c := range view {
		view[c] = scratch[c][:n]
	}

	return view
}

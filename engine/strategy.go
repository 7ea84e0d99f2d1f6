// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

// Kind names a render strategy.
type Kind uint8

const (
	KindPassthrough Kind = iota + 1
	KindSynth
	KindBuffer
	KindStream
	KindTriggered
)

func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindSynth:
		return "synth"
	case KindBuffer:
		return "buffer"
	case KindStream:
		return "stream"
	case KindTriggered:
		return "triggered"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Strategy is the per-callback render policy. The set is closed: use the
// constructors in this package.
type Strategy[S pcm.Sample] interface {
	Kind() Kind

	prepare(cfg Config) error
	// render fills n frames of out and reports whether any were audible.
	render(e *Engine[S], out, in [][]S, n int) bool
}

// Passthrough copies the captured input to the output (monitoring). Output
// channels past the last input channel reuse it; missing input is silence.
type Passthrough[S pcm.Sample] struct{}

func NewPassthrough[S pcm.Sample]() *Passthrough[S] { return &Passthrough[S]{} }

func (*Passthrough[S]) Kind() Kind           { return KindPassthrough }
func (*Passthrough[S]) prepare(Config) error { return nil }

func (*Passthrough[S]) render(_ *Engine[S], out, in [][]S, n int) bool {
	if len(in) == 0 {
		silenceAll(out, n)
		return false
	}

	last := len(in) - 1
	for c, dst := range out {
		src := in[min(c, last)]
		k := copy(dst[:n], src[:min(n, len(src))])
		for i := k; i < n; i++ {
			dst[i] = 0
		}
	}

	return true
}

// DefaultFrequency is the Synth tone in Hz.
const DefaultFrequency = 440.0

// floatHeadroom divides the float sine so it stays well under full scale.
const floatHeadroom = 2048

// Synth generates a sine tone, identical on every output channel.
type Synth[S pcm.Sample] struct {
	frequency float64
	step      float64
	phase     float64
	fixed     bool

	published atomic.Uint64
}

// NewSynth returns a sine generator at frequency Hz.
func NewSynth[S pcm.Sample](frequency float64) *Synth[S] {
	return &Synth[S]{frequency: frequency}
}

func (*Synth[S]) Kind() Kind { return KindSynth }

func (s *Synth[S]) prepare(cfg Config) error {
	nyquist := float64(cfg.Format.SampleRate()) / 2
	if s.frequency <= 0 || s.frequency >= nyquist || math.IsNaN(s.frequency) {
		return fmt.Errorf("frequency %v Hz outside (0, %v): %w", s.frequency, nyquist, audio.ErrInvalidConfiguration)
	}

	s.step = 2 * math.Pi * s.frequency / float64(cfg.Format.SampleRate())
	s.fixed = cfg.Format.Representation() == pcm.Fixed824

	return nil
}

func (s *Synth[S]) render(_ *Engine[S], out, _ [][]S, n int) bool {
	for i := range n {
		v := math.Sin(s.phase)
		var sample S
		if s.fixed {
			sample = S(pcm.ConvertSample(v, pcm.Float32, pcm.Fixed824))
		} else {
			sample = S(v / floatHeadroom)
		}
		for _, ch := range out {
			ch[i] = sample
		}
		s.phase += s.step
	}
	s.phase = math.Mod(s.phase, 2*math.Pi)
	s.published.Store(math.Float64bits(s.phase))

	return true
}

func (s *Synth[S]) Frequency() float64 { return s.frequency }

// Phase is the accumulator after the last render, in [0, 2π).
func (s *Synth[S]) Phase() float64 { return math.Float64frombits(s.published.Load()) }

// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
	"github.com/ik5/audrender/playback"
)

// Tap observes every rendered block after the strategy ran. PostRender runs
// on the render goroutine and must not block; out is only valid during the
// call.
type Tap[S pcm.Sample] interface {
	PostRender(out [][]S, n int)
}

type tapBox[S pcm.Sample] struct{ tap Tap[S] }

// Engine renders one strategy into device buffers.
type Engine[S pcm.Sample] struct {
	cfg      Config
	strategy Strategy[S]

	running  atomic.Bool
	tap      atomic.Pointer[tapBox[S]]
	rendered atomic.Uint64
	stamp    atomic.Int64
	dropped  atomic.Uint64
	starts   atomic.Uint64

	// gen is the Start count seen by the current render.
	gen    uint64
	events chan Event
}

// New validates cfg, prepares strategy for it and returns a stopped engine.
// S must match cfg.Format's representation.
func New[S pcm.Sample](cfg Config, strategy Strategy[S]) (*Engine[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rep := pcm.RepresentationOf[S](); rep != cfg.Format.Representation() {
		return nil, fmt.Errorf("%s engine with a %s format: %w", rep, cfg.Format.Representation(), audio.ErrInvalidConfiguration)
	}
	if strategy == nil {
		return nil, fmt.Errorf("no render strategy: %w", audio.ErrInvalidConfiguration)
	}
	if err := strategy.prepare(cfg); err != nil {
		return nil, fmt.Errorf("%s strategy: %w", strategy.Kind(), err)
	}

	return &Engine[S]{
		cfg:      cfg,
		strategy: strategy,
		events:   make(chan Event, eventQueue),
	}, nil
}

// Render fills out with up to frameCount frames and returns the number
// written: frameCount clamped to MaxFrames and to the shortest out channel.
// in carries the captured input for strategies that read it and may be nil.
// A stopped engine writes silence.
func (e *Engine[S]) Render(frameCount int, out, in [][]S) int {
	n, _ := e.render(frameCount, out, in)
	return n
}

func (e *Engine[S]) render(frameCount int, out, in [][]S) (int, bool) {
	if len(out) == 0 {
		return 0, false
	}

	n := min(frameCount, e.cfg.MaxFrames)
	for _, ch := range out {
		n = min(n, len(ch))
	}
	if n <= 0 {
		return 0, false
	}
	e.gen = e.starts.Load()

	audible := false
	if e.running.Load() {
		audible = e.strategy.render(e, out, in, n)
	} else {
		silenceAll(out, n)
	}

	if box := e.tap.Load(); box != nil {
		box.tap.PostRender(out, n)
	}
	e.rendered.Add(uint64(n))

	return n, audible
}

func silenceAll[S pcm.Sample](out [][]S, n int) {
	for _, ch := range out {
		for i := range ch[:n] {
			ch[i] = 0
		}
	}
}

// post hands ev to the host without blocking. A full queue drops the event.
func (e *Engine[S]) post(ev Event) {
	ev.Generation = e.gen
	select {
	case e.events <- ev:
	default:
		e.dropped.Add(1)
	}
}

// Start arms the engine. Cursor strategies resume, rewinding first when
// they finished.
func (e *Engine[S]) Start() {
	if c := e.cursor(); c != nil {
		c.Start()
	}
	e.starts.Add(1)
	e.running.Store(true)
}

// Stop makes the next render produce silence. Positions are kept.
func (e *Engine[S]) Stop() {
	e.running.Store(false)
	if c := e.cursor(); c != nil {
		c.Stop()
	}
}

func (e *Engine[S]) Running() bool { return e.running.Load() }

// Generation counts Start calls.
func (e *Engine[S]) Generation() uint64 { return e.starts.Load() }

// Seek moves a cursor strategy to frame, clamped to the buffer. Streams are
// repositioned with StreamPlayback.Replace instead; for them and for
// strategies without a position Seek does nothing.
func (e *Engine[S]) Seek(frame int) {
	if c := e.cursor(); c != nil {
		c.Seek(frame)
	}
}

// SetLoop and SetReverse configure BufferPlayback. Triggered playback always
// loops.
func (e *Engine[S]) SetLoop(loop bool) {
	if b, ok := e.strategy.(*BufferPlayback[S]); ok {
		b.cur.SetLoop(loop)
	}
}

func (e *Engine[S]) SetReverse(reverse bool) {
	if c := e.cursor(); c != nil {
		c.SetReverse(reverse)
	}
}

// CurrentPosition is the frame position of the last render, or of a pending
// seek.
func (e *Engine[S]) CurrentPosition() int {
	switch s := e.strategy.(type) {
	case *StreamPlayback[S]:
		return s.Position()
	default:
		if c := e.cursor(); c != nil {
			return c.Position()
		}
	}

	return 0
}

// TotalFrames is the clip length, 0 when unknown or not applicable.
func (e *Engine[S]) TotalFrames() int {
	switch s := e.strategy.(type) {
	case *StreamPlayback[S]:
		return max(0, s.TotalFrames())
	default:
		if c := e.cursor(); c != nil {
			return c.TotalFrames()
		}
	}

	return 0
}

// SignalLevel is the smoothed input level of Triggered playback, 0 for the
// other strategies.
func (e *Engine[S]) SignalLevel() float64 {
	if t, ok := e.strategy.(*Triggered[S]); ok {
		return t.det.Level()
	}

	return 0
}

// Done reports whether a cursor strategy finished its clip.
func (e *Engine[S]) Done() bool {
	if c := e.cursor(); c != nil {
		return c.Done()
	}

	return false
}

// Events delivers render-side state changes. The channel is never closed.
func (e *Engine[S]) Events() <-chan Event { return e.events }

// SetTap installs t as the post-render tap, nil removes it.
func (e *Engine[S]) SetTap(t Tap[S]) {
	if t == nil {
		e.tap.Store(nil)
		return
	}
	e.tap.Store(&tapBox[S]{tap: t})
}

func (e *Engine[S]) Kind() Kind             { return e.strategy.Kind() }
func (e *Engine[S]) Strategy() Strategy[S]  { return e.strategy }
func (e *Engine[S]) Format() pcm.Format     { return e.cfg.Format }
func (e *Engine[S]) MaxFrames() int         { return e.cfg.MaxFrames }
func (e *Engine[S]) RenderedFrames() uint64 { return e.rendered.Load() }
func (e *Engine[S]) DroppedEvents() uint64  { return e.dropped.Load() }

func (e *Engine[S]) cursor() *playback.Cursor[S] {
	if c, ok := e.strategy.(interface{ cursor() *playback.Cursor[S] }); ok {
		return c.cursor()
	}

	return nil
}

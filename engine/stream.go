// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

type streamSource struct {
	src   audio.Source
	start int
	total int64
}

// StreamPlayback reads the source on every callback into scratch allocated
// at setup. A read that comes back short pads the block with silence and
// posts EventEndOfStream once; the host is expected to stop and rewind with
// Replace.
type StreamPlayback[S pcm.Sample] struct {
	channels int
	rate     int
	scratch  []float32

	next  atomic.Pointer[streamSource]
	epoch atomic.Uint64
	pos   atomic.Int64
	ended atomic.Bool

	cur *streamSource
	at  int
	eos bool
}

// NewStreamPlayback streams src, which must already be at the engine rate.
func NewStreamPlayback[S pcm.Sample](src audio.Source) *StreamPlayback[S] {
	s := &StreamPlayback[S]{}
	if src != nil {
		s.next.Store(&streamSource{src: src, total: audio.FramesOf(src)})
	}

	return s
}

func (*StreamPlayback[S]) Kind() Kind { return KindStream }

func (s *StreamPlayback[S]) prepare(cfg Config) error {
	next := s.next.Load()
	if next == nil {
		return fmt.Errorf("no stream source: %w", audio.ErrInvalidConfiguration)
	}
	if err := checkSource(next.src, cfg); err != nil {
		return err
	}

	s.channels = next.src.Channels()
	s.rate = cfg.Format.SampleRate()
	s.scratch = make([]float32, cfg.MaxFrames*s.channels)

	return nil
}

func checkSource(src audio.Source, cfg Config) error {
	switch {
	case src == nil:
		return fmt.Errorf("no stream source: %w", audio.ErrInvalidConfiguration)
	case src.Channels() < 1:
		return fmt.Errorf("stream has %d channels: %w", src.Channels(), audio.ErrInvalidConfiguration)
	case src.SampleRate() != cfg.Format.SampleRate():
		return fmt.Errorf("stream at %d Hz, engine at %d Hz: %w",
			src.SampleRate(), cfg.Format.SampleRate(), audio.ErrInvalidConfiguration)
	}

	return nil
}

func (s *StreamPlayback[S]) render(e *Engine[S], out, _ [][]S, n int) bool {
	s.epoch.Add(1)
	defer s.epoch.Add(1)

	if next := s.next.Load(); next != s.cur {
		s.cur = next
		s.at = next.start
		s.eos = false
		s.ended.Store(false)
	}
	if s.eos {
		silenceAll(out, n)
		return false
	}

	want := n * s.channels
	got := 0
	var err error
	for got < want {
		var k int
		k, err = s.cur.src.ReadSamples(s.scratch[got:want])
		got += k
		if err != nil || k == 0 {
			break
		}
	}

	frames := got / s.channels
	last := s.channels - 1
	for c, dst := range out {
		src := min(c, last)
		for i := range frames {
			dst[i] = pcm.FromFloat[S](float64(s.scratch[i*s.channels+src]))
		}
		for i := frames; i < n; i++ {
			dst[i] = 0
		}
	}

	s.at += frames
	s.pos.Store(int64(s.at))

	if frames < n {
		s.eos = true
		s.ended.Store(true)
		if errors.Is(err, io.EOF) {
			err = nil
		}
		e.post(Event{Kind: EventEndOfStream, Position: s.at, Err: err})
	}

	return frames > 0
}

// Replace swaps in src positioned at frame start and returns the source it
// replaced once no render call can still be reading it; the caller closes
// it. src must have the channel count and rate of the original source.
func (s *StreamPlayback[S]) Replace(src audio.Source, start int) (audio.Source, error) {
	if src == nil || src.Channels() != s.channels || src.SampleRate() != s.rate {
		return nil, fmt.Errorf("replacement stream: %w", audio.ErrInvalidConfiguration)
	}

	old := s.next.Swap(&streamSource{src: src, start: start, total: audio.FramesOf(src)})
	s.pos.Store(int64(start))
	s.ended.Store(false)
	s.quiesce()

	if old == nil {
		return nil, nil
	}

	return old.src, nil
}

// quiesce waits for a render call that may have loaded the previous source.
func (s *StreamPlayback[S]) quiesce() {
	e := s.epoch.Load()
	if e%2 == 0 {
		return
	}
	for s.epoch.Load() == e {
		time.Sleep(100 * time.Microsecond)
	}
}

// Source is the source the next render reads.
func (s *StreamPlayback[S]) Source() audio.Source {
	if next := s.next.Load(); next != nil {
		return next.src
	}

	return nil
}

// Position is the frame position of the stream.
func (s *StreamPlayback[S]) Position() int { return int(s.pos.Load()) }

// TotalFrames is the source length hint, -1 when unknown.
func (s *StreamPlayback[S]) TotalFrames() int {
	if next := s.next.Load(); next != nil {
		return int(next.total)
	}

	return -1
}

// Ended reports whether the current source ran short.
func (s *StreamPlayback[S]) Ended() bool { return s.ended.Load() }

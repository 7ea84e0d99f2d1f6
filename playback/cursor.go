// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audrender/buffer"
	"github.com/ik5/audrender/pcm"
)

// State is the cursor state observed by the last render call.
type State uint32

const (
	PlayingForward State = iota
	PlayingReverse
	Done
	Halted
)

func (s State) String() string {
	switch s {
	case PlayingForward:
		return "playing-forward"
	case PlayingReverse:
		return "playing-reverse"
	case Done:
		return "done"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

const noSeek = -1

// Cursor walks a Buffer frame by frame.
//
// The index is a boundary position in [0, total]: forward playback emits
// frame index and moves right, reverse playback emits frame index-1 and
// moves left, so a reverse pass is the exact mirror of a forward pass.
//
// Only the render goroutine calls Sync, Advance, Fill and Publish. Every
// other method may be called from any goroutine; requests are atomic words
// picked up by the next Sync.
type Cursor[S pcm.Sample] struct {
	chans [][]S
	total int

	index   int
	done    bool
	halted  bool
	reverse bool
	loop    bool
	started uint32

	position atomic.Int64
	state    atomic.Uint32
	finished atomic.Bool

	seekReq    atomic.Int64
	running    atomic.Bool
	startSeq   atomic.Uint32
	reverseReq atomic.Bool
	loopReq    atomic.Bool
}

// NewCursor returns a halted forward cursor at frame 0. Call Start to play.
func NewCursor[S pcm.Sample](buf *buffer.Buffer[S]) *Cursor[S] {
	c := &Cursor[S]{
		chans:  make([][]S, buf.ChannelCount()),
		total:  buf.FrameCount(),
		halted: true,
	}
	for i := range c.chans {
		c.chans[i] = buf.Channel(i)
	}
	c.seekReq.Store(noSeek)
	c.state.Store(uint32(Halted))
	if c.total == 0 {
		c.done = true
		c.finished.Store(true)
	}

	return c
}

// Start resumes playback. A cursor that finished on the terminal boundary
// of its direction rewinds to the start boundary first.
func (c *Cursor[S]) Start() {
	c.startSeq.Add(1)
	c.running.Store(true)
}

// Stop halts advancement. The position is kept.
func (c *Cursor[S]) Stop() {
	c.running.Store(false)
}

// Seek moves to frame, clamped to [0, TotalFrames()].
func (c *Cursor[S]) Seek(frame int) {
	frame = max(0, min(frame, c.total))
	c.seekReq.Store(int64(frame))
}

func (c *Cursor[S]) SetLoop(loop bool)       { c.loopReq.Store(loop) }
func (c *Cursor[S]) SetReverse(reverse bool) { c.reverseReq.Store(reverse) }
func (c *Cursor[S]) Loop() bool              { return c.loopReq.Load() }
func (c *Cursor[S]) Reverse() bool           { return c.reverseReq.Load() }
func (c *Cursor[S]) TotalFrames() int        { return c.total }

// Position is the frame index now. A pending seek is reported before the
// render goroutine applies it.
func (c *Cursor[S]) Position() int {
	if v := c.seekReq.Load(); v != noSeek {
		return int(v)
	}

	return int(c.position.Load())
}

// Done reports whether the cursor reached its terminal boundary without
// looping.
func (c *Cursor[S]) Done() bool { return c.finished.Load() }

// Finished is the render-side done flag. Only the render goroutine may call
// it; other goroutines use Done.
func (c *Cursor[S]) Finished() bool { return c.done }

// State is the state published by the last render call.
func (c *Cursor[S]) State() State { return State(c.state.Load()) }

// Sync applies pending control requests. Render calls it once per callback.
func (c *Cursor[S]) Sync() {
	c.reverse = c.reverseReq.Load()
	c.loop = c.loopReq.Load()
	c.halted = !c.running.Load()

	// A seek issued while stopped lands before the start that follows it.
	if v := c.seekReq.Swap(noSeek); v != noSeek {
		c.index = int(v)
	}

	if seq := c.startSeq.Load(); seq != c.started {
		c.started = seq
		if c.total > 0 {
			if c.atTerminal() {
				c.rewind()
			}
			c.done = false
		}
	}

	if c.total == 0 {
		c.done = true
	}
}

func (c *Cursor[S]) atTerminal() bool {
	if c.reverse {
		return c.index <= 0
	}

	return c.index >= c.total
}

func (c *Cursor[S]) rewind() {
	if c.reverse {
		c.index = c.total
		return
	}

	c.index = 0
}

// Advance writes frame i of every out channel and moves the cursor one
// frame. Done or halted cursors write silence and stay put. It reports
// whether a buffer frame was emitted.
func (c *Cursor[S]) Advance(out [][]S, i int) bool {
	if c.done || c.halted {
		silence(out, i)
		return false
	}

	if !c.reverse {
		if c.index >= c.total {
			if !c.loop {
				c.done = true
				silence(out, i)
				return false
			}
			c.index = 0
		}
		c.emit(out, i, c.index)
		c.index++
		return true
	}

	if c.index <= 0 {
		if !c.loop {
			c.done = true
			silence(out, i)
			return false
		}
		c.index = c.total
	}
	c.index--
	c.emit(out, i, c.index)
	return true
}

// emit copies one source frame to every output channel; output channels
// past the last source channel reuse it (mono fans out to stereo).
func (c *Cursor[S]) emit(out [][]S, i, frame int) {
	last := len(c.chans) - 1
	for ch := range out {
		out[ch][i] = c.chans[min(ch, last)][frame]
	}
}

// Fill syncs, renders n frames and publishes the new position. It returns
// the number of buffer frames emitted; the rest of out is silence.
func (c *Cursor[S]) Fill(out [][]S, n int) int {
	c.Sync()
	emitted := 0
	for i := range n {
		if c.Advance(out, i) {
			emitted++
		}
	}
	c.Publish()

	return emitted
}

// Silence zeroes frame i of every out channel.
func Silence[S pcm.Sample](out [][]S, i int) {
	silence(out, i)
}

// Publish makes the render-side state visible to readers.
func (c *Cursor[S]) Publish() {
	c.position.Store(int64(c.index))
	c.finished.Store(c.done)

	switch {
	case c.done:
		c.state.Store(uint32(Done))
	case c.halted:
		c.state.Store(uint32(Halted))
	case c.reverse:
		c.state.Store(uint32(PlayingReverse))
	default:
		c.state.Store(uint32(PlayingForward))
	}
}

func silence[S pcm.Sample](out [][]S, i int) {
	for ch := range out {
		out[ch][i] = 0
	}
}

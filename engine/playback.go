// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/buffer"
	"github.com/ik5/audrender/pcm"
	"github.com/ik5/audrender/playback"
)

// BufferPlayback delegates every frame to a cursor over a preloaded buffer.
// EventDone is posted once each time a non-looping pass ends.
type BufferPlayback[S pcm.Sample] struct {
	buf *buffer.Buffer[S]
	cur *playback.Cursor[S]
}

func NewBufferPlayback[S pcm.Sample](buf *buffer.Buffer[S]) *BufferPlayback[S] {
	b := &BufferPlayback[S]{buf: buf}
	if buf != nil {
		b.cur = playback.NewCursor(buf)
	}

	return b
}

func (*BufferPlayback[S]) Kind() Kind { return KindBuffer }

func (b *BufferPlayback[S]) prepare(cfg Config) error {
	return checkBuffer(b.buf, cfg)
}

func (b *BufferPlayback[S]) render(e *Engine[S], out, _ [][]S, n int) bool {
	b.cur.Sync()
	wasDone := b.cur.Finished()

	audible := false
	for i := range n {
		if b.cur.Advance(out, i) {
			audible = true
		}
	}
	b.cur.Publish()

	if b.cur.Finished() && !wasDone {
		e.post(Event{Kind: EventDone, Position: b.cur.Position()})
	}

	return audible
}

func (b *BufferPlayback[S]) cursor() *playback.Cursor[S] { return b.cur }
func (b *BufferPlayback[S]) Cursor() *playback.Cursor[S] { return b.cur }
func (b *BufferPlayback[S]) Buffer() *buffer.Buffer[S]   { return b.buf }

// Triggered plays a looping buffer only while the detector window is open.
// The detector listens to channel 0 of the captured input. Gated frames are
// silent and the cursor does not move, so playback resumes mid-buffer on
// the next trigger.
type Triggered[S pcm.Sample] struct {
	buf    *buffer.Buffer[S]
	cur    *playback.Cursor[S]
	det    *playback.Detector
	detCfg *playback.DetectorConfig
}

// NewTriggered gates buf on the input level. A nil detector config selects
// playback.DefaultDetectorConfig for the engine format.
func NewTriggered[S pcm.Sample](buf *buffer.Buffer[S], detCfg *playback.DetectorConfig) *Triggered[S] {
	t := &Triggered[S]{buf: buf, detCfg: detCfg}
	if buf != nil {
		t.cur = playback.NewCursor(buf)
		t.cur.SetLoop(true)
	}

	return t
}

func (*Triggered[S]) Kind() Kind { return KindTriggered }

func (t *Triggered[S]) prepare(cfg Config) error {
	if err := checkBuffer(t.buf, cfg); err != nil {
		return err
	}

	dc := playback.DefaultDetectorConfig(cfg.Format)
	if t.detCfg != nil {
		dc = *t.detCfg
	}
	det, err := playback.NewDetector(dc)
	if err != nil {
		return err
	}
	t.det = det

	return nil
}

func (t *Triggered[S]) render(_ *Engine[S], out, in [][]S, n int) bool {
	var mic []S
	if len(in) > 0 {
		mic = in[0]
	}

	t.cur.Sync()
	audible := false
	for i := range n {
		var sample float64
		if i < len(mic) {
			sample = float64(mic[i])
		}

		if t.det.Update(sample) {
			if t.cur.Advance(out, i) {
				audible = true
			}
			continue
		}
		playback.Silence(out, i)
	}
	t.cur.Publish()

	return audible
}

func (t *Triggered[S]) cursor() *playback.Cursor[S]  { return t.cur }
func (t *Triggered[S]) Cursor() *playback.Cursor[S]  { return t.cur }
func (t *Triggered[S]) Detector() *playback.Detector { return t.det }

func checkBuffer[S pcm.Sample](buf *buffer.Buffer[S], cfg Config) error {
	switch {
	case buf == nil:
		return fmt.Errorf("no sample buffer: %w", audio.ErrInvalidConfiguration)
	case buf.ChannelCount() < 1:
		return fmt.Errorf("sample buffer has no channels: %w", audio.ErrInvalidConfiguration)
	case buf.Format().SampleRate() != cfg.Format.SampleRate():
		return fmt.Errorf("buffer at %d Hz, engine at %d Hz: %w",
			buf.Format().SampleRate(), cfg.Format.SampleRate(), audio.ErrInvalidConfiguration)
	}

	return nil
}

// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package session

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audrender/engine"
	"github.com/ik5/audrender/pcm"
)

// oto allows one context per process.
var (
	otoMu       sync.Mutex
	otoCtx      *oto.Context
	otoRate     int
	otoChannels int
)

func otoContext(s *Session) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != s.SampleRate() || otoChannels != s.Channels() {
			return nil, fmt.Errorf("open at %d Hz/%d ch, want %d Hz/%d ch: %w",
				otoRate, otoChannels, s.SampleRate(), s.Channels(), ErrContextRate)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.SampleRate(),
		ChannelCount: s.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   s.Period(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	otoCtx, otoRate, otoChannels = ctx, s.SampleRate(), s.Channels()
	log.Printf("Audio output context: %d Hz, %d channels, float32 (oto)", otoRate, otoChannels)

	return ctx, nil
}

// OtoOutput is an output-only device. The oto player pulls bytes from Read,
// which is the render callback: it renders into pre-allocated planes and
// packs them as interleaved little-endian float32.
type OtoOutput[S pcm.Sample] struct {
	sess *Session
	r    Renderer[S]

	ctx    *oto.Context
	player *oto.Player

	scratch [][]S
	view    [][]S
	args    engine.RenderArgs[S]
	clock   int64

	closed atomic.Bool
	mu     sync.Mutex
}

func NewOtoOutput[S pcm.Sample](sess *Session, r Renderer[S]) (*OtoOutput[S], error) {
	ctx, err := otoContext(sess)
	if err != nil {
		return nil, err
	}

	o := &OtoOutput[S]{
		sess:    sess,
		r:       r,
		ctx:     ctx,
		scratch: planes[S](sess.Channels(), r.MaxFrames()),
		view:    make([][]S, sess.Channels()),
	}
	o.player = ctx.NewPlayer(o)

	return o, nil
}

// Read implements io.Reader for the oto player.
func (o *OtoOutput[S]) Read(p []byte) (int, error) {
	stride := o.sess.Format().BytesPerSample() * o.sess.Channels()
	frames := len(p) / stride
	limit := len(o.scratch[0])

	for off := 0; off < frames; {
		n := min(frames-off, limit)
		o.args = engine.RenderArgs[S]{
			Flags:      engine.PostRender,
			Timestamp:  engine.Timestamp{SampleTime: o.clock},
			FrameCount: n,
			Out:        window(o.view, o.scratch, n),
		}
		o.r.Callback(&o.args)
		pcm.PutFloat32LE(p[off*stride:], o.args.Out, n)

		o.clock += int64(n)
		off += n
	}

	// Trailing bytes of a partial frame.
	tail := p[frames*stride:]
	for i := range tail {
		tail[i] = 0
	}

	return len(p), nil
}

func (o *OtoOutput[S]) Start() error {
	if o.closed.Load() {
		return ErrDeviceClosed
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ctx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	o.player.Play()

	return nil
}

// Stop pauses the player. The engine keeps its state.
func (o *OtoOutput[S]) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player.IsPlaying() {
		o.player.Pause()
	}

	return nil
}

func (o *OtoOutput[S]) Close() error {
	if o.closed.Swap(true) {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.player.Close(); err != nil {
		return fmt.Errorf("failed to close oto player: %w", err)
	}

	return nil
}

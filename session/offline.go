// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ik5/audrender/engine"
	"github.com/ik5/audrender/pcm"
)

// Capture fills the input planes of a block before it is rendered.
type Capture[S pcm.Sample] interface {
	Capture(in [][]S, n int)
}

// OfflineOptions tune the software clock.
type OfflineOptions[S pcm.Sample] struct {
	// Realtime paces blocks at the session period instead of rendering as
	// fast as possible.
	Realtime bool
	// Input supplies captured frames for duplex sessions.
	Input Capture[S]
	// Sink receives every rendered block.
	Sink Sink[S]
}

// Offline drives a Renderer from a goroutine, one session period per block.
type Offline[S pcm.Sample] struct {
	sess *Session
	r    Renderer[S]
	opts OfflineOptions[S]

	out     [][]S
	in      [][]S
	args    engine.RenderArgs[S]
	clock   int64
	renders sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

func NewOffline[S pcm.Sample](sess *Session, r Renderer[S], opts OfflineOptions[S]) *Offline[S] {
	frames := min(sess.FramesPerBuffer(), r.MaxFrames())

	o := &Offline[S]{
		sess: sess,
		r:    r,
		opts: opts,
		out:  planes[S](sess.Channels(), frames),
	}
	if sess.Duplex() {
		o.in = planes[S](sess.InputChannels(), frames)
	}

	return o
}

// RenderBlocks renders count blocks synchronously. It must not be mixed
// with a running clock.
func (o *Offline[S]) RenderBlocks(count int) {
	for range count {
		o.block()
	}
}

func (o *Offline[S]) block() {
	o.renders.Lock()
	defer o.renders.Unlock()

	n := len(o.out[0])
	var in [][]S
	if o.in != nil && o.opts.Input != nil {
		o.opts.Input.Capture(o.in, n)
		in = o.in
	}

	o.args = engine.RenderArgs[S]{
		Flags:      engine.PostRender,
		Timestamp:  engine.Timestamp{SampleTime: o.clock, HostTime: time.Now().UnixNano()},
		FrameCount: n,
		Out:        o.out,
		In:         in,
	}
	o.r.Callback(&o.args)
	if o.opts.Sink != nil {
		o.opts.Sink.PostRender(o.out, n)
	}
	o.clock += int64(n)
}

// Frames is the number of frames rendered so far.
func (o *Offline[S]) Frames() int64 {
	o.renders.Lock()
	defer o.renders.Unlock()

	return o.clock
}

func (o *Offline[S]) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrDeviceClosed
	}
	if o.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})

	go o.run(ctx, o.done)
	log.Printf("Offline clock started: %s", o.sess)

	return nil
}

func (o *Offline[S]) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if !o.opts.Realtime {
		for ctx.Err() == nil {
			o.block()
		}
		return
	}

	ticker := time.NewTicker(o.sess.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.block()
		}
	}
}

// Stop halts the clock and waits for the block in flight.
func (o *Offline[S]) Stop() error {
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.cancel, o.done = nil, nil
	o.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	return nil
}

func (o *Offline[S]) Close() error {
	err := o.Stop()

	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	return err
}

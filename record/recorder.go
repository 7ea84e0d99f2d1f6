// SPDX-License-Identifier: EPL-2.0

package record

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/formats/wav"
	"github.com/ik5/audrender/pcm"
	"github.com/ik5/audrender/utils"
)

const (
	// DefaultRingDuration is how much audio the writer may lag behind.
	DefaultRingDuration = 500 * time.Millisecond
	// DefaultFlushInterval is how often the writer drains the ring. A ring
	// filled past half wakes it early.
	DefaultFlushInterval = 20 * time.Millisecond
)

// Options describe the recorded stream.
type Options struct {
	SampleRate int
	Channels   int

	// RingDuration sizes the queue between the render callback and the
	// writer. Zero means DefaultRingDuration.
	RingDuration time.Duration
	// FlushInterval is the writer's idle poll period. Zero means
	// DefaultFlushInterval.
	FlushInterval time.Duration
}

func (o Options) Validate() error {
	if o.SampleRate <= 0 || o.Channels < 1 {
		return fmt.Errorf("recording %d Hz, %d channels: %w", o.SampleRate, o.Channels, audio.ErrInvalidConfiguration)
	}
	if o.RingDuration < 0 || o.FlushInterval < 0 {
		return fmt.Errorf("negative recorder timing: %w", audio.ErrInvalidConfiguration)
	}

	return nil
}

func (o Options) withDefaults() Options {
	if o.RingDuration == 0 {
		o.RingDuration = DefaultRingDuration
	}
	if o.FlushInterval == 0 {
		o.FlushInterval = DefaultFlushInterval
	}

	return o
}

// Recorder is a post-render tap writing rendered frames to a WAV file.
// PostRender must be called from a single goroutine.
type Recorder[S pcm.Sample] struct {
	opts    Options
	ring    *ring
	w       *wav.Writer
	closer  io.Closer
	scratch []int16

	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	dropped atomic.Uint64
	written atomic.Int64

	closeOnce sync.Once
	err       error
}

// New starts a recorder writing into w. closer, when not nil, is closed
// after the WAV header is finalized.
func New[S pcm.Sample](w io.WriteSeeker, closer io.Closer, opts Options) (*Recorder[S], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	frames := max(1, int(int64(opts.RingDuration)*int64(opts.SampleRate)/int64(time.Second)))
	r := &Recorder[S]{
		opts:    opts,
		ring:    newRing(frames, opts.Channels),
		w:       wav.NewWriter(w, opts.SampleRate, opts.Channels),
		closer:  closer,
		scratch: make([]int16, frames*opts.Channels),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go r.run()

	return r, nil
}

// Create records into a new file at path.
func Create[S pcm.Sample](path string, opts Options) (*Recorder[S], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording %q: %w", path, err)
	}

	r, err := New[S](f, f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	log.Printf("Recording %d Hz, %d ch to %s", opts.SampleRate, opts.Channels, path)

	return r, nil
}

// PostRender queues the first n frames of out. Output channels beyond the
// recorded count are ignored; missing ones repeat the last plane.
func (r *Recorder[S]) PostRender(out [][]S, n int) {
	if len(out) == 0 || n <= 0 {
		return
	}

	last := len(out) - 1
	written := r.ring.produce(n, func(frame int, slot []float32) {
		for c := range slot {
			slot[c] = float32(pcm.ToFloat(out[min(c, last)][frame]))
		}
	})
	if written < n {
		r.dropped.Add(uint64(n - written))
	}

	// Below half full the ticker drains the ring.
	if r.ring.free() > r.ring.size()/2 {
		return
	}
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Recorder[S]) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			r.finish(r.flush())
			return
		case <-r.wake:
		case <-ticker.C:
		}

		if err := r.flush(); err != nil {
			log.Printf("Recorder write failed, stopping: %v", err)
			<-r.stop
			r.finish(err)
			return
		}
	}
}

func (r *Recorder[S]) flush() error {
	return r.ring.consume(func(run []float32) error {
		n := utils.Float32ToInt16s(r.scratch, run)
		if err := r.w.WriteInt16(r.scratch[:n]); err != nil {
			return err
		}
		r.written.Add(int64(n / r.opts.Channels))

		return nil
	})
}

func (r *Recorder[S]) finish(err error) {
	if cerr := r.w.Close(); err == nil {
		err = cerr
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing recording: %w", cerr)
		}
	}
	r.err = err

	if d := r.dropped.Load(); d > 0 {
		log.Printf("Recorder dropped %d frames", d)
	}
}

// Close drains the queue, finalizes the file and reports the first write
// error. The tap must be removed from the engine before Close.
func (r *Recorder[S]) Close() error {
	r.closeOnce.Do(func() { close(r.stop) })
	<-r.done

	return r.err
}

// Frames is the number of frames written to the file so far.
func (r *Recorder[S]) Frames() int64 { return r.written.Load() }

// Dropped is the number of frames lost to a full queue.
func (r *Recorder[S]) Dropped() uint64 { return r.dropped.Load() }

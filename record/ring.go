// SPDX-License-Identifier: EPL-2.0

package record

import "sync/atomic"

// ring is a single-producer single-consumer queue of interleaved float32
// frames. head and tail count frames since creation and only grow.
type ring struct {
	data     []float32
	frames   uint64
	channels int

	head atomic.Uint64
	tail atomic.Uint64
}

func newRing(frames, channels int) *ring {
	return &ring{
		data:     make([]float32, frames*channels),
		frames:   uint64(frames),
		channels: channels,
	}
}

func (r *ring) size() int { return int(r.frames) }

// free is the number of frames the producer may write.
func (r *ring) free() int {
	return int(r.frames - (r.head.Load() - r.tail.Load()))
}

// produce reserves up to want frames and calls fill for each with the slot
// to write. It returns how many frames were committed.
func (r *ring) produce(want int, fill func(frame int, slot []float32)) int {
	n := min(want, r.free())
	head := r.head.Load()

	for f := range n {
		i := int((head+uint64(f))%r.frames) * r.channels
		fill(f, r.data[i:i+r.channels])
	}
	r.head.Store(head + uint64(n))

	return n
}

// consume hands the queued frames to drain as at most two contiguous
// interleaved runs and releases them.
func (r *ring) consume(drain func(run []float32) error) error {
	tail := r.tail.Load()
	queued := r.head.Load() - tail

	for queued > 0 {
		start := tail % r.frames
		run := min(queued, r.frames-start)

		err := drain(r.data[int(start)*r.channels : int(start+run)*r.channels])
		tail += run
		queued -= run
		r.tail.Store(tail)
		if err != nil {
			return err
		}
	}

	return nil
}

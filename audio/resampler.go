// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audrender/utils"
)

const (
	resampleBlock = 1024 // source frames pulled per read
	lowpassAlpha  = 0.5  // one-pole smoothing applied before downsampling
)

// Resampler converts src to another sample rate with Catmull-Rom cubic
// interpolation, keeping the channel count. Downsampling runs the input
// through a one-pole low-pass first.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// hist holds the frames at t-1, t, t+1, t+2 around pos; live marks
	// which of them came from the source rather than edge replication.
	hist [4][]float32
	live [4]bool
	pos  float64

	in        []float32
	inPos     int
	inLen     int
	srcEOF    bool
	primed    bool
	exhausted bool

	lp []float32 // nil when not downsampling
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		rate:     dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		in:       make([]float32, resampleBlock*channels),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}
	if r.step > 1 {
		r.lp = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames estimates the output length from the source length hint.
func (r *Resampler) Frames() int64 {
	n := FramesOf(r.src)
	if n < 0 {
		return -1
	}

	srcRate := int64(r.src.SampleRate())
	return (n*int64(r.rate) + srcRate - 1) / srcRate
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampled source: %w", err)
	}

	return nil
}

// pull copies the next source frame into frame. It reports false once
// the source is drained.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("resampling: %w", err)
		}
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lp != nil {
		for c, x := range frame {
			r.lp[c] = lowpassAlpha*x + (1-lowpassAlpha)*r.lp[c]
			frame[c] = r.lp[c]
		}
	}

	return true, nil
}

// shift rotates the history one frame forward and fills the newest slot.
func (r *Resampler) shift() error {
	oldest := r.hist[0]
	copy(r.hist[:], r.hist[1:])
	r.hist[3] = oldest
	copy(r.live[:], r.live[1:])

	ok, err := r.pull(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.live[3] = ok

	return nil
}

func (r *Resampler) prime() error {
	r.primed = true

	first := r.hist[1]
	if r.lp != nil {
		// Seed the filter with the first frame so it starts settled.
		ok, err := r.peekInto(r.lp)
		if err != nil || !ok {
			return err
		}
	}
	ok, err := r.pull(first)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	copy(r.hist[0], first)
	r.live[0], r.live[1] = true, true

	for _, i := range []int{2, 3} {
		ok, err := r.pull(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
		r.live[i] = ok
	}

	return nil
}

// peekInto copies the next raw source frame without consuming it.
func (r *Resampler) peekInto(frame []float32) (bool, error) {
	lp := r.lp
	r.lp = nil
	ok, err := r.pull(frame)
	r.lp = lp
	if ok {
		r.inPos -= r.channels
	}

	return ok, err
}

// ReadSamples produces interleaved samples at the target rate.
// len(dst) must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1 {
			r.pos--
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.live[1] {
			r.exhausted = true
			break
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.pos += r.step
	}

	if r.exhausted {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}

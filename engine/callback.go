// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audrender/pcm"

// ActionFlags describe one callback invocation, the way an audio-unit
// render notification does.
type ActionFlags uint32

const (
	PreRender ActionFlags = 1 << iota
	PostRender
	// OutputIsSilence is set by the engine when nothing audible was written.
	OutputIsSilence
)

func (f ActionFlags) Has(flag ActionFlags) bool { return f&flag != 0 }

// Timestamp is the device clock for the first frame of a callback.
type Timestamp struct {
	// SampleTime counts frames since the device started.
	SampleTime int64
	// HostTime is a monotonic clock reading in nanoseconds, 0 if unknown.
	HostTime int64
}

// Status is what the callback returns to the device.
type Status int

const (
	StatusOK Status = iota
	// StatusNoBuffers means the device passed no output channels.
	StatusNoBuffers
	// StatusBadBus means the engine has no bus with that index.
	StatusBadBus
)

// RenderArgs is the host boundary of a render callback. Out and In are
// device owned and sized for FrameCount; the engine fills Out in place.
type RenderArgs[S pcm.Sample] struct {
	Flags      ActionFlags
	Timestamp  Timestamp
	Bus        int
	FrameCount int
	Out        [][]S
	In         [][]S
}

// Callback renders args.FrameCount frames into args.Out. A pure PreRender
// notification renders nothing. Frames past what the engine could render
// are zeroed.
func (e *Engine[S]) Callback(args *RenderArgs[S]) Status {
	if args.Bus != 0 {
		return StatusBadBus
	}
	if len(args.Out) == 0 {
		return StatusNoBuffers
	}
	if args.Flags.Has(PreRender) && !args.Flags.Has(PostRender) {
		return StatusOK
	}

	e.stamp.Store(args.Timestamp.SampleTime)
	n, audible := e.render(args.FrameCount, args.Out, args.In)

	for _, ch := range args.Out {
		for i := n; i < min(args.FrameCount, len(ch)); i++ {
			ch[i] = 0
		}
	}

	if audible {
		args.Flags &^= OutputIsSilence
	} else {
		args.Flags |= OutputIsSilence
	}

	return StatusOK
}

// SampleTime is the device clock of the last Callback.
func (e *Engine[S]) SampleTime() int64 { return e.stamp.Load() }

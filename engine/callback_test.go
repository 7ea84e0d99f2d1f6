// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"slices"
	"testing"
)

func TestCallback(t *testing.T) {
	t.Parallel()

	e, err := New(fixedConfig(t, 2, 4), NewBufferPlayback(fixedBuffer(t, []int32{7, 8})))
	if err != nil {
		t.Fatal(err)
	}

	args := &RenderArgs[int32]{FrameCount: 6, Out: planes[int32](2, 6), Timestamp: Timestamp{SampleTime: 512}}
	if st := e.Callback(args); st != StatusOK {
		t.Fatalf("Callback() = %v, want StatusOK", st)
	}
	if !args.Flags.Has(OutputIsSilence) {
		t.Error("stopped engine did not flag silence")
	}
	if e.SampleTime() != 512 {
		t.Errorf("SampleTime() = %d, want 512", e.SampleTime())
	}

	e.Start()
	for i := range args.Out[0] {
		args.Out[0][i] = 99
	}
	args.Flags = PostRender
	e.Callback(args)
	if args.Flags.Has(OutputIsSilence) {
		t.Error("audible block flagged as silence")
	}
	// MaxFrames is 4: the two frames past it are zeroed, not left stale.
	if want := []int32{7, 8, 0, 0, 0, 0}; !slices.Equal(args.Out[0], want) {
		t.Errorf("out = %v, want %v", args.Out[0], want)
	}

	e.Callback(args)
	if !args.Flags.Has(OutputIsSilence) {
		t.Error("finished clip not flagged as silence")
	}
}

func TestCallback_Rejects(t *testing.T) {
	t.Parallel()

	e, err := New(fixedConfig(t, 1, 4), NewPassthrough[int32]())
	if err != nil {
		t.Fatal(err)
	}
	e.Start()

	if st := e.Callback(&RenderArgs[int32]{Bus: 1, FrameCount: 1, Out: planes[int32](1, 1)}); st != StatusBadBus {
		t.Errorf("bus 1 = %v, want StatusBadBus", st)
	}
	if st := e.Callback(&RenderArgs[int32]{FrameCount: 1}); st != StatusNoBuffers {
		t.Errorf("no buffers = %v, want StatusNoBuffers", st)
	}

	pre := &RenderArgs[int32]{Flags: PreRender, FrameCount: 2, Out: [][]int32{{5, 5}}, In: [][]int32{{1, 2}}}
	if st := e.Callback(pre); st != StatusOK {
		t.Errorf("pre-render = %v, want StatusOK", st)
	}
	if !slices.Equal(pre.Out[0], []int32{5, 5}) || e.RenderedFrames() != 0 {
		t.Error("pre-render notification rendered audio")
	}
}

// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/ik5/audrender/engine"
	"github.com/ik5/audrender/pcm"
)

// MalgoDuplex runs the engine from a miniaudio device. With an Input
// session it opens a duplex device and hands the captured frames to the
// engine; otherwise it is playback only.
type MalgoDuplex[S pcm.Sample] struct {
	sess *Session
	r    Renderer[S]

	mctx   *malgo.AllocatedContext
	device *malgo.Device

	out     [][]S
	outView [][]S
	in      [][]S
	inView  [][]S
	args    engine.RenderArgs[S]
	clock   int64

	mu      sync.Mutex
	started bool
	closed  bool
}

func NewMalgoDuplex[S pcm.Sample](sess *Session, r Renderer[S]) (*MalgoDuplex[S], error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("malgo: %s", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	m := &MalgoDuplex[S]{
		sess:    sess,
		r:       r,
		mctx:    mctx,
		out:     planes[S](sess.Channels(), r.MaxFrames()),
		outView: make([][]S, sess.Channels()),
	}

	kind := malgo.Playback
	if sess.Duplex() {
		kind = malgo.Duplex
		m.in = planes[S](sess.InputChannels(), r.MaxFrames())
		m.inView = make([][]S, sess.InputChannels())
	}

	cfg := malgo.DefaultDeviceConfig(kind)
	cfg.SampleRate = uint32(sess.SampleRate())
	cfg.PeriodSizeInFrames = uint32(sess.FramesPerBuffer())
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(sess.Channels())
	if sess.Duplex() {
		cfg.Capture.Format = malgo.FormatF32
		cfg.Capture.Channels = uint32(sess.InputChannels())
	}
	cfg.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(mctx.Context, cfg, malgo.DeviceCallbacks{Data: m.data})
	if err != nil {
		m.freeContext()
		return nil, fmt.Errorf("failed to initialize %s device: %w", sess.Direction(), err)
	}
	m.device = device

	log.Printf("Audio device initialized: %s (malgo)", sess)

	return m, nil
}

// data is the miniaudio callback. Buffers are interleaved float32.
func (m *MalgoDuplex[S]) data(output, input []byte, frameCount uint32) {
	outStride := 4 * m.sess.Channels()
	inStride := 4 * m.sess.InputChannels()
	frames := int(frameCount)
	limit := len(m.out[0])

	for off := 0; off < frames; {
		n := min(frames-off, limit)

		var in [][]S
		if m.in != nil && len(input) >= (off+n)*inStride {
			in = window(m.inView, m.in, n)
			pcm.Float32LE(in, input[off*inStride:], n)
		}

		m.args = engine.RenderArgs[S]{
			Flags:      engine.PostRender,
			Timestamp:  engine.Timestamp{SampleTime: m.clock},
			FrameCount: n,
			Out:        window(m.outView, m.out, n),
			In:         in,
		}
		m.r.Callback(&m.args)
		pcm.PutFloat32LE(output[off*outStride:], m.args.Out, n)

		m.clock += int64(n)
		off += n
	}
}

func (m *MalgoDuplex[S]) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrDeviceClosed
	}
	if m.started {
		return nil
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.started = true

	return nil
}

func (m *MalgoDuplex[S]) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	m.started = false

	return nil
}

func (m *MalgoDuplex[S]) Close() error {
	if err := m.Stop(); err != nil {
		log.Printf("Audio device stop on close: %v", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	m.device.Uninit()
	m.freeContext()

	return nil
}

func (m *MalgoDuplex[S]) freeContext() {
	if err := m.mctx.Uninit(); err != nil {
		log.Printf("malgo context uninit: %v", err)
	}
	m.mctx.Free()
}

// SPDX-License-Identifier: EPL-2.0

package audrender

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/buffer"
	"github.com/ik5/audrender/engine"
	"github.com/ik5/audrender/pcm"
	"github.com/ik5/audrender/record"
	"github.com/ik5/audrender/session"
)

var (
	// ErrClosed is returned by operations on a closed Player.
	ErrClosed = errors.New("player closed")
	// ErrRecording is returned by StartRecording while a recording runs.
	ErrRecording = errors.New("already recording")
)

// Player owns one engine and the device clock driving it. It reacts to
// engine events on its own goroutine: a finished clip stops the device, and
// a stream that ran out is stopped and rewound to its start.
type Player[S pcm.Sample] struct {
	cfg  Config[S]
	sess *session.Session
	eng  *engine.Engine[S]
	dev  session.Device

	manual *session.Offline[S]
	rec    *record.Recorder[S]

	stream     *engine.StreamPlayback[S]
	streamFile io.Closer

	mu      sync.Mutex
	playing atomic.Bool
	closed  bool

	quit     chan struct{}
	loopDone chan struct{}
}

// New builds the engine for cfg.Mode, opens the device and starts the event
// loop. The player starts stopped.
func New[S pcm.Sample](cfg Config[S]) (*Player[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	sess, err := session.Configure(cfg.Session)
	if err != nil {
		return nil, err
	}

	p := &Player[S]{
		cfg:      cfg,
		sess:     sess,
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	strategy, err := p.strategy()
	if err != nil {
		return nil, err
	}

	p.eng, err = engine.New(sess.EngineConfig(), strategy)
	if err != nil {
		p.closeStream()
		return nil, err
	}
	p.eng.SetLoop(cfg.Loop)
	p.eng.SetReverse(cfg.Reverse)

	if cfg.RecordPath != "" {
		if err := p.startRecording(cfg.RecordPath); err != nil {
			p.closeStream()
			return nil, err
		}
	}

	if p.dev, err = p.device(); err != nil {
		p.teardown()
		return nil, err
	}

	go p.loop()
	log.Printf("Player ready: %s mode on %s, %s", cfg.Mode, cfg.Backend, sess)

	return p, nil
}

func (p *Player[S]) strategy() (engine.Strategy[S], error) {
	opts := buffer.LoadOptions{SampleRate: p.sess.SampleRate(), Mono: p.cfg.Mono}

	switch p.cfg.Mode {
	case ModeBuffer:
		buf, err := buffer.LoadFile[S](p.cfg.Path, p.cfg.Registry, opts)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %s: %d frames, %s", p.cfg.Path, buf.FrameCount(), buf.Format())

		return engine.NewBufferPlayback(buf), nil

	case ModeTriggered:
		buf, err := buffer.LoadFile[S](p.cfg.Path, p.cfg.Registry, opts)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %s: %d frames, %s", p.cfg.Path, buf.FrameCount(), buf.Format())

		return engine.NewTriggered(buf, p.cfg.Detector), nil

	case ModeStream:
		src, file, err := p.openStream(0)
		if err != nil {
			return nil, err
		}
		p.streamFile = file
		p.stream = engine.NewStreamPlayback[S](src)

		return p.stream, nil

	case ModeSynth:
		freq := p.cfg.Frequency
		if freq == 0 {
			freq = engine.DefaultFrequency
		}

		return engine.NewSynth[S](freq), nil

	default:
		return engine.NewPassthrough[S](), nil
	}
}

func (p *Player[S]) device() (session.Device, error) {
	switch p.cfg.Backend {
	case BackendOto:
		out, err := session.NewOtoOutput[S](p.sess, p.eng)
		if err != nil {
			return nil, err
		}

		return out, nil
	case BackendMalgo:
		dev, err := session.NewMalgoDuplex[S](p.sess, p.eng)
		if err != nil {
			return nil, err
		}

		return dev, nil
	default:
		off := session.NewOffline[S](p.sess, p.eng, session.OfflineOptions[S]{
			Realtime: p.cfg.Realtime,
			Input:    p.cfg.Input,
		})
		if p.cfg.Backend == BackendManual {
			p.manual = off
		}

		return off, nil
	}
}

// openStream opens the clip at the session rate, positioned at frame.
func (p *Player[S]) openStream(frame int) (audio.Source, io.Closer, error) {
	raw, file, err := buffer.Open(p.cfg.Path, p.cfg.Registry)
	if err != nil {
		return nil, nil, err
	}

	fail := func(err error) (audio.Source, io.Closer, error) {
		raw.Close()
		file.Close()
		return nil, nil, err
	}

	rate := p.sess.SampleRate()
	seeked := false
	if s, ok := raw.(audio.Seeker); ok && frame > 0 {
		srcFrame := int64(frame) * int64(raw.SampleRate()) / int64(rate)
		seeked = s.SeekFrame(srcFrame) == nil
	}

	var src audio.Source = raw
	if raw.SampleRate() != rate {
		src = audio.NewResampler(src, rate)
	}
	if p.cfg.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	if frame > 0 && !seeked {
		if err := discard(src, frame); err != nil {
			return fail(fmt.Errorf("seeking %s to frame %d: %w", p.cfg.Path, frame, err))
		}
	}

	return src, file, nil
}

// discard reads and drops frames from src.
func discard(src audio.Source, frames int) error {
	ch := src.Channels()
	buf := make([]float32, 4096/ch*ch)

	for frames > 0 {
		n, err := src.ReadSamples(buf[:min(len(buf), frames*ch)])
		frames -= n / ch
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}

	return nil
}

func (p *Player[S]) loop() {
	defer close(p.loopDone)

	for {
		select {
		case <-p.quit:
			return
		case ev := <-p.eng.Events():
			p.handle(ev)
		}
	}
}

func (p *Player[S]) handle(ev engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if ev.Generation != p.eng.Generation() {
		log.Printf("Ignoring %s from before the last start", ev.Kind)
		return
	}

	switch ev.Kind {
	case engine.EventDone:
		log.Printf("Playback finished at frame %d", ev.Position)
		p.halt()

	case engine.EventEndOfStream:
		if ev.Err != nil {
			log.Printf("Stream failed at frame %d: %v", ev.Position, ev.Err)
		} else {
			log.Printf("Stream ended at frame %d", ev.Position)
		}
		p.halt()
		if err := p.reposition(0); err != nil {
			log.Printf("Rewinding %s: %v", p.cfg.Path, err)
		}
	}
}

// halt stops rendering and the device. Callers hold p.mu.
func (p *Player[S]) halt() {
	p.eng.Stop()
	if p.manual == nil {
		if err := p.dev.Stop(); err != nil {
			log.Printf("Stopping %s device: %v", p.cfg.Backend, err)
		}
	}
	p.playing.Store(false)
}

// reposition swaps a freshly opened stream in at frame. Callers hold p.mu.
func (p *Player[S]) reposition(frame int) error {
	src, file, err := p.openStream(frame)
	if err != nil {
		return err
	}

	old, err := p.stream.Replace(src, frame)
	if err != nil {
		src.Close()
		file.Close()
		return err
	}
	if old != nil {
		old.Close()
	}
	if p.streamFile != nil {
		p.streamFile.Close()
	}
	p.streamFile = file

	return nil
}

// Start begins playback. A finished clip restarts from its beginning.
func (p *Player[S]) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	// A stream that ran out starts over.
	if p.stream != nil && p.stream.Ended() {
		if err := p.reposition(0); err != nil {
			return fmt.Errorf("rewinding %s: %w", p.cfg.Path, err)
		}
	}

	p.eng.Start()
	if p.manual == nil {
		if err := p.dev.Start(); err != nil {
			p.eng.Stop()
			return fmt.Errorf("starting %s device: %w", p.cfg.Backend, err)
		}
	}
	p.playing.Store(true)

	return nil
}

// Stop pauses playback, keeping the position.
func (p *Player[S]) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.halt()

	return nil
}

// Seek moves to frame, clamped to the clip. Streams are reopened at the new
// position.
func (p *Player[S]) Seek(frame int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	if p.stream == nil {
		p.eng.Seek(frame)
		return nil
	}

	frame = max(0, frame)
	if total := p.stream.TotalFrames(); total >= 0 {
		frame = min(frame, total)
	}

	return p.reposition(frame)
}

// StartRecording records every block rendered from now on to a WAV file at
// path, until StopRecording or Close.
func (p *Player[S]) StartRecording(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.closed:
		return ErrClosed
	case p.rec != nil:
		return fmt.Errorf("recording to %s: %w", path, ErrRecording)
	}

	return p.startRecording(path)
}

func (p *Player[S]) startRecording(path string) error {
	rec, err := record.Create[S](path, record.Options{
		SampleRate: p.sess.SampleRate(),
		Channels:   p.sess.Channels(),
	})
	if err != nil {
		return err
	}
	p.rec = rec
	p.eng.SetTap(rec)

	return nil
}

// StopRecording finalizes the current recording. It does nothing when no
// recording runs.
func (p *Player[S]) StopRecording() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stopRecording()
}

// stopRecording detaches and closes the recorder. Callers hold p.mu.
func (p *Player[S]) stopRecording() error {
	if p.rec == nil {
		return nil
	}

	p.eng.SetTap(nil)
	err := p.rec.Close()
	log.Printf("Recording stopped after %d frames", p.rec.Frames())
	p.rec = nil

	return err
}

// Recording reports whether rendered blocks are being recorded.
func (p *Player[S]) Recording() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rec != nil
}

// RenderBlocks renders count session periods on the manual backend.
func (p *Player[S]) RenderBlocks(count int) error {
	if p.manual == nil {
		return fmt.Errorf("RenderBlocks on the %s backend: %w", p.cfg.Backend, audio.ErrInvalidConfiguration)
	}
	p.manual.RenderBlocks(count)

	return nil
}

func (p *Player[S]) Playing() bool             { return p.playing.Load() }
func (p *Player[S]) CurrentPosition() int      { return p.eng.CurrentPosition() }
func (p *Player[S]) TotalFrames() int          { return p.eng.TotalFrames() }
func (p *Player[S]) SignalLevel() float64      { return p.eng.SignalLevel() }
func (p *Player[S]) Session() *session.Session { return p.sess }

// Engine exposes the engine for loop and direction control.
func (p *Player[S]) Engine() *engine.Engine[S] { return p.eng }

// Close stops playback, releases the device and finalizes a recording.
func (p *Player[S]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	<-p.loopDone

	p.mu.Lock()
	defer p.mu.Unlock()

	p.eng.Stop()
	err := p.teardown()
	p.playing.Store(false)
	log.Printf("Player closed after %d frames", p.eng.RenderedFrames())

	return err
}

func (p *Player[S]) teardown() error {
	var errs []error

	if p.dev != nil {
		if err := p.dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s device: %w", p.cfg.Backend, err))
		}
	}
	if err := p.stopRecording(); err != nil {
		errs = append(errs, err)
	}
	p.closeStream()

	return errors.Join(errs...)
}

func (p *Player[S]) closeStream() {
	if p.stream != nil {
		if src := p.stream.Source(); src != nil {
			src.Close()
		}
	}
	if p.streamFile != nil {
		p.streamFile.Close()
		p.streamFile = nil
	}
}

// SPDX-License-Identifier: EPL-2.0

// Package audrender plays, synthesizes, monitors and records audio through a
// real-time render engine.
//
// The engine (package engine) produces exactly the frames a hardware
// callback asks for without blocking or allocating. A Player wires it to
// everything that may block: decoding the clip (packages audio, buffer and
// formats/...), the device clock (package session), recording (package
// record) and reacting to the engine's events.
//
// # Modes
//
//   - ModeBuffer plays a clip loaded into memory, optionally looped or
//     reversed, and stops by itself at the end.
//   - ModeStream decodes the clip while playing and rewinds when it ends.
//   - ModeSynth plays a sine tone.
//   - ModePassthrough monitors the captured input.
//   - ModeTriggered loops the clip while the input level is above a
//     threshold.
//
// # Quick Start
//
//	p, err := audrender.New(audrender.DefaultConfig[float32]("loop.wav"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	if err := p.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// The sample type picks the engine representation: float32 renders
// normalized floats, int32 renders Q8.24 fixed point.
//
// # Recording
//
// Config.RecordPath records everything the Player renders. A recording can
// also cover only part of a session:
//
//	if err := p.StartRecording("take.wav"); err != nil {
//		log.Fatal(err)
//	}
//	// ...
//	if err := p.StopRecording(); err != nil {
//		log.Fatal(err)
//	}
//
// The engine has a single post-render tap, and recording owns it while it
// runs.
//
// # Formats
//
// DefaultRegistry decodes WAV, AIFF, MP3 and Ogg Vorbis. Clips at another
// rate than the session are resampled while loading.
package audrender

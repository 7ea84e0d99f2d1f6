// SPDX-License-Identifier: EPL-2.0

// Package engine is the real-time entry point invoked by the audio device
// clock.
//
// An Engine owns one Strategy chosen at setup time: Passthrough monitors the
// live input, Synth generates a sine tone, BufferPlayback walks a preloaded
// buffer, StreamPlayback reads a decoder per callback and Triggered gates
// buffer playback on the input level.
//
// Render and Callback never allocate, lock or return errors. Control calls
// (Start, Stop, Seek, ...) may come from any goroutine and are observed at
// the top of the next render. Anything the host must react to, such as the
// end of a clip, is reported on the Events channel.
package engine

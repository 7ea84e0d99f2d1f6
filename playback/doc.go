// SPDX-License-Identifier: EPL-2.0

// Package playback holds the per-frame state machines the render engine
// drives: Cursor walks a decoded buffer forward or in reverse with optional
// looping, and Detector follows the input level to open a playback window
// when the signal jumps.
//
// Both types split their API in two. Render-side methods (Cursor.Fill,
// Cursor.Advance, Detector.Update) are called only from the audio callback
// goroutine and never block or allocate. The remaining methods are safe from
// any goroutine and talk to the render side through atomics.
package playback

// SPDX-License-Identifier: EPL-2.0

// Package record captures what the engine renders into a 16-bit WAV file.
//
// A Recorder is installed as the engine's post-render tap. PostRender copies
// the block into a single-producer ring and returns; a writer goroutine
// drains the ring into the file every FlushInterval, or as soon as the ring
// is half full. When the writer falls behind by more than
// the ring capacity the newest frames are dropped and counted rather than
// stalling the render callback.
package record

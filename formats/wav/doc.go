// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes WAV files on top of github.com/go-audio/wav.
//
// # Supported Formats
//
// The decoder supports:
//   - Integer PCM (format tag 1) at 8, 16, 24 and 32 bits
//   - Any channel count
//   - Any sample rate
//
// IEEE float and compressed WAV files (ADPCM, mu-law, A-law) are rejected
// with ErrUnsupportedEncoding.
//
// # Decoding WAV Files
//
// Use the Decoder directly or through a registry:
//
//	file, err := os.Open("clip.wav")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//		return err
//	}
//
//	frames := audio.FramesOf(src)
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// The length in frames comes from the data chunk size, so loaders can size
// their buffers before reading. Readers that cannot seek are read into
// memory first.
//
// # Output Format
//
// Samples are scaled by bit depth into float32 in [-1, 1):
//   - 8 bit: unsigned, centred on 128, then / 128
//   - 16 bit: value / 32768
//   - 24 bit: value / 8388608
//   - 32 bit: value / 2147483648
//
// # Writing WAV Files
//
// Writer streams interleaved 16-bit PCM, which is what recordings of the
// render output use. The RIFF and data sizes are patched on Close, so the
// destination must be an io.WriteSeeker such as *os.File:
//
//	out, err := os.Create("take.wav")
//	if err != nil {
//		return err
//	}
//	defer out.Close()
//
//	w := wav.NewWriter(out, 44100, 2)
//	if err := w.WriteInt16(interleaved); err != nil {
//		return err
//	}
//	if err := w.Close(); err != nil {
//		return err
//	}
//
// Close does not close out. A Writer closed before any frame was written
// still produces a valid 44-byte header.
//
// WriteWAV16 writes a complete in-memory clip in one call:
//
//	err := wav.WriteWAV16(out, 8000, 1, samples)
//
// # Errors
//
// Decode returns:
//   - ErrNotWavFile when the RIFF/WAVE header is missing or malformed
//   - ErrUnsupportedEncoding for non-integer formats and unusual depths
//   - ErrPCMChunkNotFound when no data chunk follows the fmt chunk; the
//     underlying read error, when there is one, is wrapped too
//
// WriteInt16 returns ErrWriterClosed after Close.
//
// # Use Cases
//
// Common applications:
//   - Loading clips for buffer and triggered playback
//   - Streaming long files in stream mode
//   - Recording the engine output through the record package
package wav

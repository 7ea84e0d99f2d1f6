// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files with
// github.com/go-audio/aiff.
//
// AIFF is the big-endian sibling of WAV: uncompressed integer PCM in an IFF
// container, with the sample rate stored as an 80-bit extended float in the
// COMM chunk and the samples in the SSND chunk.
//
// # Supported Formats
//
// The decoder supports:
//   - Integer PCM at 8, 16, 24 and 32 bits
//   - Any channel count
//   - Any sample rate
//
// AIFF-C files with a compression type other than NONE are not supported.
//
// # Decoding AIFF Files
//
// Use the Decoder directly or through a registry:
//
//	file, err := os.Open("clip.aiff")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	src, err := aiff.Decoder{}.Decode(file)
//	switch {
//	case errors.Is(err, aiff.ErrNotAiffFile):
//		// not AIFF, try another decoder
//	case err != nil:
//		return err
//	}
//
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Readers that cannot seek (pipes, network bodies) are read into memory
// first, because go-audio/aiff walks the chunks with Seek.
//
// # Output Format
//
// Samples are scaled by bit depth into float32 in [-1, 1):
//   - 8 bit: value / 128 (AIFF 8-bit data is signed, unlike WAV)
//   - 16 bit: value / 32768
//   - 24 bit: value / 8388608
//   - 32 bit: value / 2147483648
//
// Channels stay interleaved in file order. The length in frames comes from
// the COMM chunk and is available before decoding through audio.FramesOf,
// which lets buffer.Load size its per-channel arrays once.
//
// # Errors
//
// Decode returns:
//   - ErrNotAiffFile when go-audio/aiff rejects the FORM header
//   - ErrUnsupportedAiffLayout for a COMM chunk without channels or rate
//   - ErrUnsupportedBitDepth for sample sizes other than the four above
//
// # Use Cases
//
// Common applications:
//   - Loading clips exported from macOS audio tools for buffer playback
//   - Triggered playback of short one-shot samples
//
// Example registering the decoder for both extensions:
//
//	reg := audio.NewRegistry()
//	reg.Register("aiff", aiff.Decoder{})
//	reg.Register("aif", aiff.Decoder{})
//
//	clip, err := buffer.LoadFile[int32]("hit.aif", reg, buffer.LoadOptions{
//		SampleRate: 44100,
//		Mono:       true,
//	})
package aiff

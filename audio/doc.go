// SPDX-License-Identifier: EPL-2.0

// Package audio is the decoder side of the render engine: the Source
// contract every format package implements, a Registry keyed by file
// extension, and the two conversions applied while loading a clip into
// memory (Resampler and MonoMixer).
//
// Nothing in this package runs on the render callback. Sources are read
// while a clip is loaded, or by the stream strategy into scratch memory
// allocated at setup.
//
// # Source Interface
//
// The Source interface is the foundation every decoder builds on:
//
//	type Source interface {
//		SampleRate() int
//		Channels() int
//		ReadSamples(dst []float32) (int, error)
//		BufSize() int
//		Close() error
//	}
//
// A Source yields interleaved float32 samples in [-1, 1] at its own rate
// and channel count. ReadSamples returns the number of values written, not
// frames, and io.EOF once the stream is finished:
//
//	for {
//		n, err := src.ReadSamples(buf)
//		consume(buf[:n])
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//	}
//
// A short read is not the end of the stream; keep reading until io.EOF.
//
// # Optional Interfaces
//
// Sources may also implement:
//   - Lengther, the length in frames known before decoding (from the file
//     header); FramesOf returns it, or -1 when it is unknown
//   - Seeker, repositioning without decoding from the start
//
//	if frames := audio.FramesOf(src); frames >= 0 {
//		planes = make([]float32, frames)
//	}
//	if s, ok := src.(audio.Seeker); ok {
//		err = s.SeekFrame(1000)
//	}
//
// # Resampling
//
// The Resampler converts to a target rate with Catmull-Rom cubic
// interpolation:
//
//	resampler := audio.NewResampler(src, 48000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// When downsampling, a one-pole low-pass runs ahead of the interpolator to
// tame aliasing. The resampler reports a length hint scaled to the new rate
// when its source has one, so the loader can still size its buffers.
//
// # Channel Mixing
//
// The MonoMixer folds any channel count to one channel by averaging:
//
//	mono := audio.NewMonoMixer(src)
//
// Mixing and resampling chain like any other Source:
//
//	chain := audio.NewMonoMixer(audio.NewResampler(src, 48000))
//
// # Format Registry
//
// A Registry maps lower-case file extensions to decoders:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	reg.Register("ogg", vorbis.Decoder{})
//
//	dec, ext, ok := reg.ForPath("/music/loop.wav") // wav.Decoder{}, "wav", true
//
// Registries are safe for concurrent use. The root package's
// DefaultRegistry registers every format shipped with the module.
//
// # Sample Format
//
// Samples are float32 in [-1, 1]:
//   - 0.0 is silence
//   - integer formats are scaled by their full-scale value, so the positive
//     peak is one step below 1.0
//
// The engine converts to its own representation (float or Q8.24 fixed
// point) once, when a clip is loaded, with the pcm package.
//
// # Errors
//
// Setup failures wrap one of these sentinels; test them with errors.Is:
//   - ErrInvalidConfiguration for a bad rate, channel count or option
//   - ErrFileOpen when a file cannot be opened
//   - ErrFormatConversion when a file cannot be decoded
//   - ErrOutOfMemory when a bulk load would exceed the sample budget
//   - ErrInvalidDstSize for destinations that are not whole frames
package audio

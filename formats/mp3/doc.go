// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// # Supported Formats
//
// The decoder supports:
//   - MPEG-1 and MPEG-2 Audio Layer III
//   - Constant and variable bitrates
//   - Mono and stereo files (both decode to stereo)
//
// # Decoding MP3 Files
//
// Use the Decoder directly or through a registry:
//
//	file, err := os.Open("clip.mp3")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// ReadSamples only hands out whole frames, so n is always a multiple of
// two. A short read at the end of the file is followed by io.EOF.
//
// # Output Format
//
// go-mp3 always produces 16-bit little-endian stereo, so:
//   - Samples are float32 in [-1, 1), scaled from int16
//   - Channels() is 2, even for mono files
//   - SampleRate() is the rate of the first frame (typically 44.1 or 48 kHz)
//
// Fold to mono or change the rate with the audio package:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 48000))
//
// # Length and Seeking
//
// When the input is an io.Seeker (an *os.File or a *bytes.Reader) go-mp3
// scans the frame headers once at open time. The source then reports its
// length through audio.Lengther and implements audio.Seeker:
//
//	frames := audio.FramesOf(src) // -1 when unknown
//	if s, ok := src.(audio.Seeker); ok {
//		err = s.SeekFrame(frames / 2)
//	}
//
// SeekFrame clamps to the end of the stream. On an input that cannot seek
// it returns ErrNotSeekable and the caller reopens the file instead, which
// is what the stream player does.
//
// # Limitations
//
// Note:
//   - Decoding only, MP3 encoding is out of scope
//   - The length scan reads the whole file once, which is noticeable for
//     long files on slow storage
//   - Seeking decodes the preceding frame, so it lands on the exact sample
//     but costs one extra frame of decoding
//
// # Use Cases
//
// Typical uses in this module:
//   - Streaming a long MP3 straight from disk in stream mode
//   - Loading a short MP3 into a buffer for buffer or triggered playback
//
// Example loading a clip at the engine rate:
//
//	reg := audio.NewRegistry()
//	reg.Register("mp3", mp3.Decoder{})
//
//	clip, err := buffer.LoadFile[float32]("clip.mp3", reg, buffer.LoadOptions{
//		SampleRate: 48000,
//	})
package mp3

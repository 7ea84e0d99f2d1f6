// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// # Supported Formats
//
// The decoder supports:
//   - Vorbis I audio in an Ogg container
//   - Any channel count the stream declares
//   - Any sample rate (typically 44.1 or 48 kHz)
//
// Opus, FLAC and Speex streams in Ogg containers are not Vorbis and are
// rejected when the headers are parsed.
//
// # Decoding Vorbis Files
//
// Use the Decoder directly or through a registry:
//
//	file, err := os.Open("clip.ogg")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//		return err
//	}
//
//	buf := make([]float32, src.BufSize())
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
// # Output Format
//
// Vorbis decodes to floating point natively, so no integer scaling is
// involved:
//   - Samples are float32, clipped to [-1, 1] by oggvorbis
//   - Interleaved, in the channel order of the stream
//   - ReadSamples returns a whole number of frames; a destination that is
//     not a multiple of Channels() is truncated to one
//
// # Length and Seeking
//
// On a seekable input oggvorbis reads the granule position of the last page
// at open time. The source then reports that length through audio.Lengther
// and SeekFrame lands on the exact frame:
//
//	if s, ok := src.(audio.Seeker); ok {
//		err = s.SeekFrame(48000) // one second in at 48 kHz
//	}
//
// On a pipe or network stream the length is unknown (FramesOf returns -1)
// and SeekFrame fails.
//
// # Errors
//
// Setup errors:
//   - Header parsing errors from oggvorbis, wrapped
//   - ErrNoChannels for a stream that declares no channels
//
// Decode errors met while reading are returned by ReadSamples unchanged.
//
// # Use Cases
//
// Ogg Vorbis is a good fit for long background tracks in stream mode, where
// its small size and exact seeking matter more than decode cost.
package vorbis

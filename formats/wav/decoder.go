// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/formats/internal/intpcm"
)

const pcmFormat = 1

// Decoder reads integer PCM WAV (8, 16, 24 or 32 bits) through
// github.com/go-audio/wav. Readers that cannot seek are buffered in memory.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("format tag %d: %w", dec.WavAudioFormat, ErrUnsupportedEncoding)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPCMChunkNotFound, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrPCMChunkNotFound
	}

	frames := int64(-1)
	if stride := int64(dec.BitDepth/8) * int64(dec.NumChans); stride > 0 {
		frames = int64(dec.PCMSize) / stride
	}

	src, err := intpcm.NewSource(dec, intpcm.Options{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Unsigned8:  true,
		Frames:     frames,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
	}

	return src, nil
}

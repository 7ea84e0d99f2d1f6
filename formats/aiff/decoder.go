// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/formats/internal/intpcm"
)

// Decoder reads big-endian integer PCM AIFF through github.com/go-audio/aiff.
// Readers that cannot seek are buffered in memory.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := intpcm.NewSource(dec, intpcm.Options{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
		Frames:     int64(dec.NumSampleFrames),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}

	return src, nil
}

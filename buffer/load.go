// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

// LoadOptions selects the target format of a bulk load.
type LoadOptions struct {
	// SampleRate is the engine's fixed rate; the source is resampled to it.
	SampleRate int
	// Mono folds the source into one channel instead of keeping its count.
	Mono bool
	// ChunkFrames is the read size used while decoding. Zero means 4096.
	ChunkFrames int
}

func (o LoadOptions) Validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("load sample rate %d: %w", o.SampleRate, audio.ErrInvalidConfiguration)
	}
	if o.ChunkFrames < 0 {
		return fmt.Errorf("chunk frames %d: %w", o.ChunkFrames, audio.ErrInvalidConfiguration)
	}

	return nil
}

// Load decodes src completely into a new Buffer. The target format keeps
// the source channel count (or one channel with opts.Mono) at
// opts.SampleRate. Load does not close src.
func Load[S pcm.Sample](src audio.Source, opts LoadOptions) (*Buffer[S], error) {
	if src == nil {
		return nil, fmt.Errorf("nil source: %w", audio.ErrInvalidConfiguration)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if src.Channels() <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("source reports %d Hz, %d ch: %w",
			src.SampleRate(), src.Channels(), audio.ErrFormatConversion)
	}

	var stream audio.Source = src
	if src.SampleRate() != opts.SampleRate {
		stream = audio.NewResampler(stream, opts.SampleRate)
	}
	if opts.Mono && stream.Channels() > 1 {
		stream = audio.NewMonoMixer(stream)
	}

	format, err := pcm.Describe(opts.SampleRate, stream.Channels(), pcm.RepresentationOf[S]())
	if err != nil {
		return nil, err
	}

	channels := format.Channels()
	if hint := audio.FramesOf(stream); hint > 0 && hint*int64(channels) > MaxSamples {
		return nil, fmt.Errorf("%d frames × %d channels: %w", hint, channels, audio.ErrOutOfMemory)
	}

	planar := make([][]S, channels)
	if hint := audio.FramesOf(stream); hint > 0 {
		for c := range planar {
			planar[c] = make([]S, 0, hint)
		}
	}

	chunk := opts.ChunkFrames
	if chunk == 0 {
		chunk = 4096
	}
	interleaved := make([]float32, chunk*channels)
	frames := 0

	for {
		n, err := stream.ReadSamples(interleaved)
		if n%channels != 0 {
			return nil, fmt.Errorf("read %d samples for %d channels: %w", n, channels, audio.ErrFormatConversion)
		}

		got := n / channels
		if (frames+got)*channels > MaxSamples {
			return nil, fmt.Errorf("more than %d samples: %w", MaxSamples, audio.ErrOutOfMemory)
		}

		for f := range got {
			base := f * channels
			for c := range channels {
				planar[c] = append(planar[c], pcm.FromFloat[S](float64(interleaved[base+c])))
			}
		}
		frames += got

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding at frame %d: %w: %w", frames, audio.ErrFormatConversion, err)
		}
		if n == 0 {
			break
		}
	}

	for c := range planar {
		if planar[c] == nil {
			planar[c] = []S{}
		}
	}

	return New(format, planar)
}

// LoadFile opens path, decodes it with the decoder registered for its
// extension and bulk loads it.
func LoadFile[S pcm.Sample](path string, reg *audio.Registry, opts LoadOptions) (*Buffer[S], error) {
	src, closer, err := Open(path, reg)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	defer src.Close()

	buf, err := Load[S](src, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return buf, nil
}

// Open opens path and returns a decoded source for it together with the
// underlying file, which the caller closes after the source.
func Open(path string, reg *audio.Registry) (audio.Source, io.Closer, error) {
	if reg == nil {
		return nil, nil, fmt.Errorf("nil registry: %w", audio.ErrInvalidConfiguration)
	}

	dec, ext, ok := reg.ForPath(path)
	if !ok {
		return nil, nil, fmt.Errorf("no decoder for %q (%s): %w", ext, path, audio.ErrFormatConversion)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", audio.ErrFileOpen, err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w: %w", path, audio.ErrFormatConversion, err)
	}

	return src, f, nil
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is the decoder collaborator the loader and the streaming renderer
// read from. Its native format is SampleRate/Channels.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Lengther is implemented by sources that know their length in frames
// before decoding (the file header carries it). The value is a hint:
// -1 means unknown.
type Lengther interface {
	Frames() int64
}

// FramesOf returns the frame count reported by src, or -1.
func FramesOf(src Source) int64 {
	if l, ok := src.(Lengther); ok {
		return l.Frames()
	}

	return -1
}

// Seeker is implemented by sources that can reposition without decoding
// from the start. frame is clamped by the implementation where possible.
type Seeker interface {
	SeekFrame(frame int64) error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForPath picks the decoder registered for the extension of path.
// It returns the extension it looked up (without the dot).
func (r *Registry) ForPath(path string) (Decoder, string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, ext, false
	}

	d, ok := r.Get(ext)
	return d, ext, ok
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}

	return out
}

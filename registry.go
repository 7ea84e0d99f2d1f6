// SPDX-License-Identifier: EPL-2.0

package audrender

import (
	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/formats/aiff"
	"github.com/ik5/audrender/formats/mp3"
	"github.com/ik5/audrender/formats/vorbis"
	"github.com/ik5/audrender/formats/wav"
)

// DefaultRegistry knows every format shipped with the module.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})

	return reg
}

// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/ik5/audrender/audio"
	"github.com/ik5/audrender/pcm"
)

// DefaultMaxFrames is the largest callback most devices ask for.
const DefaultMaxFrames = 4096

// Config fixes the engine's output format and the largest frame count a
// single render call may produce.
type Config struct {
	Format    pcm.Format
	MaxFrames int
}

func (c Config) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("engine format: %w", audio.ErrInvalidConfiguration)
	}
	if c.MaxFrames <= 0 {
		return fmt.Errorf("max frames %d: %w", c.MaxFrames, audio.ErrInvalidConfiguration)
	}

	return nil
}

// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNotSeekable is returned by SeekFrame when the decoder was built over a
// reader without io.Seeker.
var ErrNotSeekable = errors.New("mp3 stream is not seekable")

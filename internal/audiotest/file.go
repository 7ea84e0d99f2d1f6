// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// File is an in-memory io.WriteSeeker, for encoders that patch headers
// after writing the data.
type File struct {
	data []byte
	pos  int64
}

func (f *File) Write(p []byte) (int, error) {
	end := f.pos + int64(len(p))
	if end > int64(len(f.data)) {
		f.data = append(f.data, make([]byte, end-int64(len(f.data)))...)
	}
	copy(f.data[f.pos:], p)
	f.pos = end

	return len(p), nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	f.pos = abs

	return abs, nil
}

// Bytes is the file content.
func (f *File) Bytes() []byte { return f.data }

// ReadOnly hides every method but Read, for decoders that must cope with
// unseekable input.
type ReadOnly struct{ R io.Reader }

func (r ReadOnly) Read(p []byte) (int, error) { return r.R.Read(p) }

// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedEncoding is returned for compressed or float WAV data.
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")

	ErrPCMChunkNotFound = errors.New("WAV data chunk not found")

	// ErrWriterClosed is returned by Writer after Close.
	ErrWriterClosed = errors.New("WAV writer closed")
)

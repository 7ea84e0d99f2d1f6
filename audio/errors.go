// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidConfiguration is returned by setup code for a bad sample rate,
	// channel count, frame budget or missing collaborator.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrFileOpen is returned when a source file cannot be opened.
	ErrFileOpen = errors.New("cannot open audio file")

	// ErrFormatConversion is returned when a source cannot be decoded into
	// the target format.
	ErrFormatConversion = errors.New("format conversion failed")

	// ErrOutOfMemory is returned when a bulk load would exceed the sample budget.
	ErrOutOfMemory = errors.New("sample buffer too large")
)

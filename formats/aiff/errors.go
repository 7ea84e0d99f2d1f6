// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth is returned for sample sizes other than 8, 16,
	// 24 and 32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)

// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	// ErrNoHardware is returned by hardware devices in headless builds.
	ErrNoHardware = errors.New("no audio hardware in this build")

	// ErrDeviceClosed is returned when a closed device is started again.
	ErrDeviceClosed = errors.New("device closed")

	// ErrContextRate is returned when the process-wide output context was
	// already opened at another sample rate or channel count.
	ErrContextRate = errors.New("output context already open with another format")
)

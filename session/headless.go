// SPDX-License-Identifier: EPL-2.0

//go:build headless

package session

import "github.com/ik5/audrender/pcm"

// OtoOutput is unavailable in headless builds.
type OtoOutput[S pcm.Sample] struct{}

func NewOtoOutput[S pcm.Sample](*Session, Renderer[S]) (*OtoOutput[S], error) {
	return nil, ErrNoHardware
}

func (*OtoOutput[S]) Start() error { return ErrNoHardware }
func (*OtoOutput[S]) Stop() error  { return nil }
func (*OtoOutput[S]) Close() error { return nil }

// MalgoDuplex is unavailable in headless builds.
type MalgoDuplex[S pcm.Sample] struct{}

func NewMalgoDuplex[S pcm.Sample](*Session, Renderer[S]) (*MalgoDuplex[S], error) {
	return nil, ErrNoHardware
}

func (*MalgoDuplex[S]) Start() error { return ErrNoHardware }
func (*MalgoDuplex[S]) Stop() error  { return nil }
func (*MalgoDuplex[S]) Close() error { return nil }

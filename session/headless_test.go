// SPDX-License-Identifier: EPL-2.0

//go:build headless

package session

import (
	"errors"
	"testing"

	"github.com/ik5/audrender/engine"
)

func TestHardwareDevicesUnavailable(t *testing.T) {
	t.Parallel()

	s, err := Configure(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e, err := engine.New(s.EngineConfig(), engine.NewPassthrough[float32]())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewOtoOutput[float32](s, e); !errors.Is(err, ErrNoHardware) {
		t.Errorf("NewOtoOutput() = %v, want ErrNoHardware", err)
	}
	if _, err := NewMalgoDuplex[float32](s, e); !errors.Is(err, ErrNoHardware) {
		t.Errorf("NewMalgoDuplex() = %v, want ErrNoHardware", err)
	}
}

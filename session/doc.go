// SPDX-License-Identifier: EPL-2.0

// Package session configures the audio hardware and wires an engine to a
// device clock.
//
// A Session is an owned value: Configure negotiates the sample rate and
// buffer size once and every device built from it uses those numbers.
// Devices pull audio through the engine's Callback on their own goroutine:
//
//   - OtoOutput plays through github.com/ebitengine/oto/v3
//   - MalgoDuplex captures and plays through github.com/gen2brain/malgo
//   - Offline is a software clock for tests and offline bounces
//
// Building with the headless tag replaces the hardware devices with stubs
// that fail with ErrNoHardware.
package session

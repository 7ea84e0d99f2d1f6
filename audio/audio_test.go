// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"testing"
)

// mockDecoder is a test decoder implementation
type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return newSilentSource(44100, 2, 100), nil
}

// failingDecoder always returns an error
type failingDecoder struct{}

func (d *failingDecoder) Decode(r io.Reader) (Source, error) {
	return nil, errors.New("decode failed")
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}

	registry.Register("wav", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}

	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "wav"}
	registry.Register("WAV", decoder)

	if got, ok := registry.Get("wav"); !ok || got != decoder {
		t.Errorf("Registry.Get(\"wav\") = %v, %v; want registered decoder", got, ok)
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &mockDecoder{name: "wav"}
	oggDecoder := &failingDecoder{}
	registry.Register("wav", wavDecoder)
	registry.Register("ogg", oggDecoder)

	tests := []struct {
		path    string
		want    Decoder
		wantExt string
		wantOK  bool
	}{
		{"/tmp/loop.wav", wavDecoder, "wav", true},
		{"SONG.WAV", wavDecoder, "WAV", true},
		{"a/b/c.ogg", oggDecoder, "ogg", true},
		{"voice.flac", nil, "flac", false},
		{"noext", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ext, ok := registry.ForPath(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ForPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ext != tt.wantExt {
				t.Errorf("ForPath(%q) ext = %q, want %q", tt.path, ext, tt.wantExt)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("ForPath(%q) returned wrong decoder", tt.path)
			}
		})
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder1 := &mockDecoder{name: "first"}
	decoder2 := &mockDecoder{name: "second"}

	registry.Register("wav", decoder1)
	registry.Register("wav", decoder2)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed after overwrite")
	}

	if got != decoder2 {
		t.Error("Registry.Get() did not return the overwritten decoder")
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("wav", &mockDecoder{})
	registry.Register("mp3", &mockDecoder{})

	got := registry.Formats()
	slices.Sort(got)
	if !slices.Equal(got, []string{"mp3", "wav"}) {
		t.Errorf("Formats() = %v, want [mp3 wav]", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	done := make(chan bool)
	for range 10 {
		go func() {
			registry.Register("format", decoder)
			done <- true
		}()
	}

	for range 10 {
		go func() {
			_, _ = registry.Get("format")
			done <- true
		}()
	}

	for range 20 {
		<-done
	}

	got, ok := registry.Get("format")
	if !ok {
		t.Error("Registry.Get() failed after concurrent operations")
	}
	if got != decoder {
		t.Error("Registry returned wrong decoder after concurrent operations")
	}
}

func TestFramesOf(t *testing.T) {
	t.Parallel()

	if got := FramesOf(newSilentSource(8000, 1, 10)); got != -1 {
		t.Errorf("FramesOf(plain source) = %d, want -1", got)
	}

	if got := FramesOf(sized(newSilentSource(8000, 1, 10))); got != 10 {
		t.Errorf("FramesOf(length source) = %d, want 10", got)
	}
}

func TestDecoder_FailurePropagates(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("bad", &failingDecoder{})

	dec, _ := registry.Get("bad")
	if _, err := dec.Decode(nil); err == nil {
		t.Error("Decode() error = nil, want failure")
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	decoder := &mockDecoder{}
	registry.Register("wav", decoder)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.Get("wav")
	}
}

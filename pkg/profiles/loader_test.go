package profiles

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()

	yamlContent := `
name: voice-note
description: long-form voice notes
sample_rate: 16000
channels: 1
bits_per_sample: 16
audio_source: voice_recognition
buffer_size: 8192
preferred_backends:
  - container
  - streaming_pcm
max_duration: "5m"
`

	if err := os.WriteFile(filepath.Join(dir, "voice-note.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	loader := NewLoader(dir)
	loaded, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	// The built-in default plus the file.
	if len(loaded) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(loaded))
	}

	p, ok := loader.Get("voice-note")
	if !ok {
		t.Fatal("voice-note profile not found")
	}
	if p.BufferSize != 8192 {
		t.Errorf("buffer_size = %d, want 8192", p.BufferSize)
	}
	if len(p.PreferredBackends) != 2 || p.PreferredBackends[0] != BackendContainer {
		t.Errorf("preferred_backends = %v, want container first", p.PreferredBackends)
	}
	d, err := p.MaxDurationValue()
	if err != nil {
		t.Fatalf("MaxDurationValue: %v", err)
	}
	if d != 5*time.Minute {
		t.Errorf("max duration = %v, want 5m", d)
	}

	if _, ok := loader.Get("default"); !ok {
		t.Error("default profile should always be present")
	}
}

func TestLoaderNormalizesPartialProfile(t *testing.T) {
	dir := t.TempDir()

	// Only the name; everything else fills from defaults.
	if err := os.WriteFile(filepath.Join(dir, "quick.yml"), []byte("name: quick\n"), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	loader := NewLoader(dir)
	if _, err := loader.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	p, ok := loader.Get("quick")
	if !ok {
		t.Fatal("quick profile not found")
	}
	if p.SampleRate != 16000 || p.Channels != 1 || p.BitsPerSample != 16 {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.BufferSize != 4096 {
		t.Errorf("buffer_size = %d, want 4096", p.BufferSize)
	}
}

func TestLoaderNameFromFilename(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "meeting.yaml"), []byte("sample_rate: 16000\n"), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	loader := NewLoader(dir)
	if _, err := loader.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, ok := loader.Get("meeting"); !ok {
		t.Error("profile should take its name from the filename")
	}
}

func TestLoaderRejectsInvalidProfile(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad bits", "name: x\nbits_per_sample: 24\n"},
		{"bad backend", "name: x\npreferred_backends: [bluetooth]\n"},
		{"bad duration", "name: x\nmax_duration: forever\n"},
		{"negative rate", "name: x\nsample_rate: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "x.yaml"), []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write yaml: %v", err)
			}
			if _, err := NewLoader(dir).LoadAll(); err == nil {
				t.Error("LoadAll should reject the profile")
			}
		})
	}
}

func TestGetBeforeLoad(t *testing.T) {
	loader := NewLoader(t.TempDir())

	if _, ok := loader.Get("default"); !ok {
		t.Error("default profile should be available before LoadAll")
	}
	if _, ok := loader.Get("custom"); ok {
		t.Error("unknown profile should not resolve before LoadAll")
	}
}

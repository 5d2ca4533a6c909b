package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileStoreWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	content := []byte("RIFF fake wav payload")
	path := filepath.Join(store.CacheDir(), "recording_1.wav")
	if err := store.Write(context.Background(), path, base64.StdEncoding.EncodeToString(content)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("stored content = %q, want %q", got, content)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(store.CacheDir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".wavecap-") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}

func TestFileStoreWriteBadBase64(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	path := filepath.Join(store.CacheDir(), "recording_2.wav")
	if err := store.Write(context.Background(), path, "!!not-base64!!"); err == nil {
		t.Error("expected error for malformed base64 content")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist after failed write, stat err = %v", err)
	}
}

func TestPathFor(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	at := time.UnixMilli(1724800000123)
	got := store.PathFor("recording", at)
	want := filepath.Join(store.CacheDir(), "recording_1724800000123.wav")
	if got != want {
		t.Errorf("PathFor = %q, want %q", got, want)
	}
}

func TestStripScheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:///data/cache/rec.m4a", "/data/cache/rec.m4a"},
		{"content://media/external/audio/1", "media/external/audio/1"},
		{"/plain/path.wav", "/plain/path.wav"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StripScheme(tt.in); got != tt.want {
			t.Errorf("StripScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

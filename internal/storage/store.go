// Package storage persists encoded audio artifacts. The write contract
// matches the platform storage service: content arrives base64-encoded
// and lands as raw bytes at a plain filesystem path.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes base64-encoded content to a path.
type Store interface {
	Write(ctx context.Context, path string, base64Content string) error
}

// FileStore writes artifacts under a cache directory. Writes go through
// a temp file and rename so a crashed write never leaves a partial WAV
// behind for the transcriber to pick up.
type FileStore struct {
	cacheDir string
}

// NewFileStore creates a store rooted at cacheDir, creating it if needed.
func NewFileStore(cacheDir string) (*FileStore, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %q: %w", cacheDir, err)
	}
	return &FileStore{cacheDir: cacheDir}, nil
}

// CacheDir returns the root directory artifacts are written under.
func (s *FileStore) CacheDir() string {
	return s.cacheDir
}

// PathFor builds the canonical artifact path for a purpose:
// <cache>/<purpose>_<unixMillis>.wav.
func (s *FileStore) PathFor(purpose string, at time.Time) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("%s_%d.wav", purpose, at.UnixMilli()))
}

// Write decodes the base64 content and persists it at path.
func (s *FileStore) Write(ctx context.Context, path string, base64Content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(base64Content)
	if err != nil {
		return fmt.Errorf("decode content for %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wavecap-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place %q: %w", path, err)
	}
	return nil
}

// StripScheme removes a URI scheme prefix such as "file://" so the
// result is a plain filesystem path. Transcription backends reject
// scheme-prefixed paths.
func StripScheme(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[i+len("://"):]
	}
	return uri
}

package capture

import (
	"context"
	"fmt"

	"github.com/wavecap/wavecap/internal/storage"
)

// ContainerBackend captures through the platform's container recorder.
// The recorder emits a finished, already valid audio file; no
// re-encoding happens here. Stop only strips the URI scheme so the
// result is a plain filesystem path.
type ContainerBackend struct {
	rec  ContainerRecorder
	opts ContainerOptions
}

// NewContainerBackend wraps the given recorder service.
func NewContainerBackend(rec ContainerRecorder, opts ContainerOptions) *ContainerBackend {
	return &ContainerBackend{rec: rec, opts: opts}
}

// Name returns the backend identifier.
func (b *ContainerBackend) Name() string { return BackendContainer }

// Start begins recording on the platform recorder.
func (b *ContainerBackend) Start(ctx context.Context) error {
	if err := b.rec.Start(ctx, b.opts); err != nil {
		return fmt.Errorf("start container recorder: %w", err)
	}
	return nil
}

// Stop finishes the recording and returns the file's plain path.
func (b *ContainerBackend) Stop(ctx context.Context) (Result, error) {
	uri, err := b.rec.Stop(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("stop container recorder: %w", err)
	}
	if uri == "" {
		return Result{}, ErrEmptyRecording
	}
	return Result{Path: storage.StripScheme(uri)}, nil
}

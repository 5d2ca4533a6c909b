package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wavecap/wavecap/internal/audio"
)

// PushSource is a ChunkSource for deployments where chunks arrive over
// a request channel rather than from a device callback. Start and Stop
// are no-ops; all audio enters through StreamingBackend.Push.
type PushSource struct{}

func (PushSource) Start(_ context.Context, _ StreamOptions, _ func(string)) error { return nil }
func (PushSource) Stop(_ context.Context) error                                   { return nil }

// StreamingBackend captures through the streaming PCM pipeline: the
// source pushes base64 chunks, the backend accumulates their decoded
// bytes, and Stop hands back the raw PCM for WAV encoding. The chunk
// bytes are already little-endian int16; no sample conversion happens
// on this path.
type StreamingBackend struct {
	src  ChunkSource
	opts StreamOptions
	acc  *audio.ChunkAccumulator
}

// NewStreamingBackend wraps the given chunk source.
func NewStreamingBackend(src ChunkSource, opts StreamOptions) *StreamingBackend {
	return &StreamingBackend{src: src, opts: opts}
}

// Name returns the backend identifier.
func (b *StreamingBackend) Name() string { return BackendStreamingPCM }

// Start begins capture. Chunks delivered by the source feed the
// accumulator directly; a chunk that fails to decode is dropped with a
// log line rather than tearing down the session.
func (b *StreamingBackend) Start(ctx context.Context) error {
	b.acc = audio.NewChunkAccumulator()
	if err := b.src.Start(ctx, b.opts, func(chunk string) {
		if err := b.acc.Push(chunk); err != nil {
			slog.WarnContext(ctx, "capture: dropping chunk",
				slog.String("backend", b.Name()),
				slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("start streaming capture: %w", err)
	}
	return nil
}

// Push feeds one chunk directly, for push-style sources that deliver
// over a request channel instead of the Start callback.
func (b *StreamingBackend) Push(chunk string) error {
	if b.acc == nil {
		return fmt.Errorf("%w: chunk before start", ErrInvalidState)
	}
	return b.acc.Push(chunk)
}

// Stop halts the source and returns the accumulated PCM bytes.
func (b *StreamingBackend) Stop(ctx context.Context) (Result, error) {
	if b.acc == nil {
		return Result{}, fmt.Errorf("%w: stop before start", ErrInvalidState)
	}
	if err := b.src.Stop(ctx); err != nil {
		return Result{}, fmt.Errorf("stop streaming capture: %w", err)
	}
	pcm, err := b.acc.Finish()
	if err != nil {
		return Result{}, err
	}
	return Result{PCM: pcm}, nil
}

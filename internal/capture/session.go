package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/wavecap/wavecap/internal/audio"
	"github.com/wavecap/wavecap/internal/storage"
	"github.com/wavecap/wavecap/pkg/events"
)

// State is the controller's position in the session lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateFinalizing State = "finalizing"
	StateError      State = "error"
)

// Devices bundles the injected platform services a controller can
// record through.
type Devices struct {
	Capabilities Capabilities
	Stream       ChunkSource
	Recorder     ContainerRecorder
}

// SessionOptions parameterizes one recording session.
type SessionOptions struct {
	Format    audio.Format
	Stream    StreamOptions
	Container ContainerOptions
	Preferred []string // backend order; defaults to streaming then container
	Profile   string   // profile name, carried into events
}

// DefaultSessionOptions records 16kHz mono 16-bit through whichever
// backend is available, preferring the streaming pipeline.
func DefaultSessionOptions() SessionOptions {
	f := audio.DefaultFormat()
	return SessionOptions{
		Format: f,
		Stream: StreamOptions{
			SampleRate:    f.SampleRate,
			Channels:      f.Channels,
			BitsPerSample: f.BitsPerSample,
			AudioSource:   "voice_recognition",
			BufferSize:    4096,
		},
		Container: ContainerOptions{
			SampleRate: f.SampleRate,
			Channels:   f.Channels,
			Codec:      "aac",
		},
		Preferred: []string{BackendStreamingPCM, BackendContainer},
	}
}

// Controller owns at most one capture session at a time and walks it
// through idle → recording → finalizing → idle. Every failure path
// passes through the error state and lands back at idle, so a failed
// recording never wedges the next one.
type Controller struct {
	devices Devices
	store   *storage.FileStore
	pub     *events.Publisher
	now     func() time.Time

	mu        sync.Mutex
	state     State
	backend   Backend
	sessionID string
	startedAt time.Time
	opts      SessionOptions
}

// NewController creates an idle controller. pub may be nil.
func NewController(devices Devices, store *storage.FileStore, pub *events.Publisher) *Controller {
	return &Controller{
		devices: devices,
		store:   store,
		pub:     pub,
		now:     time.Now,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the active session's identifier, or "" when idle.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Start begins a recording session. Only valid from idle; a second
// start while recording fails with ErrInvalidState instead of
// interleaving two sessions.
func (c *Controller) Start(ctx context.Context, opts SessionOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return "", fmt.Errorf("%w: start while %s", ErrInvalidState, c.state)
	}

	backend, err := c.selectBackend(opts)
	if err != nil {
		return "", err
	}

	if err := backend.Start(ctx); err != nil {
		c.emit(ctx, events.RecordingFailed, "", events.RecordingFailedData{
			Backend: backend.Name(),
			Reason:  err.Error(),
		})
		return "", err
	}

	c.state = StateRecording
	c.backend = backend
	c.sessionID = xid.New().String()
	c.startedAt = c.now()
	c.opts = opts

	c.emit(ctx, events.RecordingStarted, c.sessionID, events.RecordingStartedData{
		Backend:    backend.Name(),
		SampleRate: opts.Format.SampleRate,
		Profile:    opts.Profile,
	})
	return c.sessionID, nil
}

// OnChunk forwards one base64 PCM chunk to the active streaming
// backend. Only valid while recording on the streaming pipeline.
func (c *Controller) OnChunk(chunk string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return fmt.Errorf("%w: chunk while %s", ErrInvalidState, c.state)
	}
	sb, ok := c.backend.(*StreamingBackend)
	if !ok {
		return fmt.Errorf("%w: chunk delivery on %s backend", ErrInvalidState, c.backend.Name())
	}
	return sb.Push(chunk)
}

// Stop finalizes the session and returns the path of the finished audio
// file. For the streaming pipeline the accumulated PCM is encoded to
// WAV and persisted; the container pipeline's file is returned as-is.
func (c *Controller) Stop(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return "", fmt.Errorf("%w: stop while %s", ErrInvalidState, c.state)
	}
	c.state = StateFinalizing

	backend := c.backend
	res, err := backend.Stop(ctx)
	if err != nil {
		return "", c.fail(ctx, backend.Name(), err)
	}

	// Container pipeline: the recorder already produced a valid file.
	if res.Path != "" {
		path := res.Path
		c.emit(ctx, events.RecordingCompleted, c.sessionID, events.RecordingCompletedData{
			Backend:    backend.Name(),
			Path:       path,
			DurationMs: c.now().Sub(c.startedAt).Milliseconds(),
			SampleRate: c.opts.Format.SampleRate,
		})
		c.reset()
		return path, nil
	}

	pcm := res.PCM
	if len(pcm) == 0 {
		return "", c.fail(ctx, backend.Name(), ErrEmptyRecording)
	}

	wav, err := audio.EncodeBytes(pcm, c.opts.Format)
	if err != nil {
		return "", c.fail(ctx, backend.Name(), err)
	}

	path := c.store.PathFor("recording", c.now())
	if err := c.store.Write(ctx, path, base64.StdEncoding.EncodeToString(wav)); err != nil {
		return "", c.fail(ctx, backend.Name(), fmt.Errorf("%w: %v", ErrStorageWriteFailed, err))
	}

	c.emit(ctx, events.RecordingCompleted, c.sessionID, events.RecordingCompletedData{
		Backend:    backend.Name(),
		Path:       path,
		SizeBytes:  len(wav),
		DurationMs: int64(len(pcm)/2) * 1000 / int64(c.opts.Format.SampleRate),
		SampleRate: c.opts.Format.SampleRate,
	})
	c.reset()
	return path, nil
}

// Abort discards the session without persisting anything. Used when the
// caller abandons a recording or an external duration cap fires.
func (c *Controller) Abort(ctx context.Context, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		return fmt.Errorf("%w: abort while %s", ErrInvalidState, c.state)
	}

	backend := c.backend
	if _, err := backend.Stop(ctx); err != nil {
		slog.WarnContext(ctx, "capture: backend stop during abort",
			slog.String("backend", backend.Name()),
			slog.String("error", err.Error()))
	}
	c.emit(ctx, events.RecordingAborted, c.sessionID, events.RecordingFailedData{
		Backend: backend.Name(),
		Reason:  reason,
	})
	c.reset()
	return nil
}

// selectBackend picks the first preferred pipeline the platform offers.
func (c *Controller) selectBackend(opts SessionOptions) (Backend, error) {
	preferred := opts.Preferred
	if len(preferred) == 0 {
		preferred = []string{BackendStreamingPCM, BackendContainer}
	}

	caps := c.devices.Capabilities
	for _, name := range preferred {
		switch name {
		case BackendStreamingPCM:
			if caps.StreamingAvailable() && c.devices.Stream != nil {
				return NewStreamingBackend(c.devices.Stream, opts.Stream), nil
			}
		case BackendContainer:
			if caps.ContainerRecorderAvailable() && c.devices.Recorder != nil {
				return NewContainerBackend(c.devices.Recorder, opts.Container), nil
			}
		}
	}
	return nil, ErrCaptureUnavailable
}

// fail records the failure, passes through the error state, and resets
// to idle. The returned error is the one surfaced to the caller.
func (c *Controller) fail(ctx context.Context, backendName string, err error) error {
	c.state = StateError
	c.emit(ctx, events.RecordingFailed, c.sessionID, events.RecordingFailedData{
		Backend: backendName,
		Reason:  err.Error(),
	})
	c.reset()
	return err
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.backend = nil
	c.sessionID = ""
	c.startedAt = time.Time{}
	c.opts = SessionOptions{}
}

func (c *Controller) emit(ctx context.Context, t events.EventType, sessionID string, data interface{}) {
	if c.pub == nil {
		return
	}
	if err := c.pub.Emit(ctx, t, sessionID, data); err != nil {
		slog.WarnContext(ctx, "capture: emit event",
			slog.String("event_type", string(t)),
			slog.String("error", err.Error()))
	}
}

// Package capture records audio through one of two platform pipelines
// and converges both on a single output contract: a mono 16-bit WAV
// file on disk. The streaming pipeline accumulates base64 PCM chunks
// and encodes them itself; the container pipeline delegates to a
// platform recorder that produces a finished file.
package capture

import "context"

// Backend names used in profiles and capability reporting.
const (
	BackendStreamingPCM = "streaming_pcm"
	BackendContainer    = "container"
)

// StreamOptions configures the streaming PCM capture source.
type StreamOptions struct {
	SampleRate    int    // fixed 16000 for capture
	Channels      int    // fixed 1
	BitsPerSample int    // fixed 16
	AudioSource   string // platform input selector, e.g. "voice_recognition"
	BufferSize    int
}

// ChunkSource is the external streaming capture service. Start begins
// delivery of base64-encoded little-endian int16 PCM chunks to onChunk;
// the callback runs on the source's notification goroutine.
type ChunkSource interface {
	Start(ctx context.Context, opts StreamOptions, onChunk func(chunk string)) error
	Stop(ctx context.Context) error
}

// ContainerOptions configures the platform container recorder.
type ContainerOptions struct {
	SampleRate int
	Channels   int
	Codec      string
}

// ContainerRecorder is the external container-based recorder service.
// Stop returns a URI to the finished container file.
type ContainerRecorder interface {
	Start(ctx context.Context, opts ContainerOptions) error
	Stop(ctx context.Context) (uri string, err error)
}

// Capabilities reports which capture pipelines the platform offers. The
// controller consults it once per session start and never probes again.
type Capabilities interface {
	StreamingAvailable() bool
	ContainerRecorderAvailable() bool
}

// StaticCapabilities is a fixed Capabilities value, typically built
// from configuration.
type StaticCapabilities struct {
	Streaming bool
	Container bool
}

func (c StaticCapabilities) StreamingAvailable() bool         { return c.Streaming }
func (c StaticCapabilities) ContainerRecorderAvailable() bool { return c.Container }

// Result is what a backend hands back at stop: either raw int16 PCM
// bytes still to be encoded (streaming) or the path of an already valid
// audio file (container).
type Result struct {
	PCM  []byte
	Path string
}

// Backend is one capture pipeline variant. The controller selects a
// backend at session start and never branches on platform identity
// afterwards.
type Backend interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) (Result, error)
}

package capture

import "errors"

// Session-layer failures. These are operational: they surface to the
// caller and the controller resets to idle so the next recording can
// start. No automatic retries.
var (
	// ErrCaptureUnavailable indicates no capture backend is reachable.
	ErrCaptureUnavailable = errors.New("capture: no capture backend available")

	// ErrPermissionDenied indicates the platform refused microphone access.
	ErrPermissionDenied = errors.New("capture: microphone permission denied")

	// ErrInvalidState indicates a controller call out of sequence.
	ErrInvalidState = errors.New("capture: invalid state")

	// ErrEmptyRecording indicates stop was called before any audio arrived.
	ErrEmptyRecording = errors.New("capture: recording contains no audio")

	// ErrStorageWriteFailed indicates the encoded WAV could not be persisted.
	ErrStorageWriteFailed = errors.New("capture: storage write failed")
)

package audio

import "errors"

// Codec-layer failures. These are contract violations by the caller and
// are never retried.
var (
	// ErrInvalidArgument indicates a value outside the range the WAV
	// container can represent, such as a data length overflowing uint32.
	ErrInvalidArgument = errors.New("audio: invalid argument")

	// ErrInvalidState indicates an accumulator call out of sequence,
	// such as a push after finish.
	ErrInvalidState = errors.New("audio: invalid state")

	// ErrDecodeFailed indicates malformed base64 input or a sample
	// buffer truncated mid-sample.
	ErrDecodeFailed = errors.New("audio: decode failed")
)

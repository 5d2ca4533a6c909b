package audio

import (
	"encoding/base64"
	"fmt"
	"sync"
)

// ChunkAccumulator collects base64-encoded PCM chunks emitted during a
// live capture session and concatenates their decoded bytes in arrival
// order. It is single-use: after Finish, both Push and Finish fail with
// ErrInvalidState.
//
// Push may be called from the capture backend's notification goroutine
// while Finish runs on the controller's; the mutex serializes them.
// No size cap is enforced here; session duration limits are the
// caller's responsibility.
type ChunkAccumulator struct {
	mu       sync.Mutex
	buf      []byte
	finished bool
}

// NewChunkAccumulator returns an empty accumulator ready for pushes.
func NewChunkAccumulator() *ChunkAccumulator {
	return &ChunkAccumulator{}
}

// Push decodes one base64 chunk and appends its bytes. Ordering follows
// call order exactly; out-of-order delivery is not corrected.
func (a *ChunkAccumulator) Push(chunk string) error {
	decoded, err := base64.StdEncoding.DecodeString(chunk)
	if err != nil {
		return fmt.Errorf("%w: chunk: %v", ErrDecodeFailed, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return fmt.Errorf("%w: push after finish", ErrInvalidState)
	}
	a.buf = append(a.buf, decoded...)
	return nil
}

// Finish returns the concatenated bytes and clears internal state.
func (a *ChunkAccumulator) Finish() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return nil, fmt.Errorf("%w: finish called twice", ErrInvalidState)
	}
	a.finished = true
	buf := a.buf
	a.buf = nil
	return buf, nil
}

// Len reports the number of accumulated bytes so far.
func (a *ChunkAccumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}

package engine

import "context"

// Transcription is the result of transcribing a finished recording.
type Transcription struct {
	Text     string
	Language string
}

// ModelInfo describes an available model for a backend.
type ModelInfo struct {
	ID          string
	DisplayName string
	IsDefault   bool
}

// Transcriber converts a persisted WAV file into text. The path must be
// a plain filesystem path with no URI scheme prefix.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (Transcription, error)
	Models() []ModelInfo
	Close() error
}

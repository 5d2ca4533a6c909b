package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	RecordingStarted       EventType = "recording.started"
	RecordingCompleted     EventType = "recording.completed"
	RecordingFailed        EventType = "recording.failed"
	RecordingAborted       EventType = "recording.aborted"
	TranscriptionCompleted EventType = "transcription.completed"
	SynthesisCompleted     EventType = "synthesis.completed"
	SystemError            EventType = "error"
	WebhookTest            EventType = "webhook.test"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Source    string            `json:"source"`
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Data      json.RawMessage   `json:"data"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// RecordingStartedData is the payload for recording.started events.
type RecordingStartedData struct {
	Backend    string `json:"backend"`
	SampleRate int    `json:"sample_rate"`
	Profile    string `json:"profile,omitempty"`
}

// RecordingCompletedData is the payload for recording.completed events.
type RecordingCompletedData struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	SizeBytes  int    `json:"size_bytes"`
	DurationMs int64  `json:"duration_ms"`
	SampleRate int    `json:"sample_rate"`
}

// RecordingFailedData is the payload for recording.failed and
// recording.aborted events.
type RecordingFailedData struct {
	Backend string `json:"backend,omitempty"`
	Reason  string `json:"reason"`
}

// TranscriptionCompletedData is the payload for transcription.completed.
type TranscriptionCompletedData struct {
	Path       string `json:"path"`
	Transcript string `json:"transcript"`
	Backend    string `json:"backend"`
	Language   string `json:"language,omitempty"`
}

// SynthesisCompletedData is the payload for synthesis.completed.
type SynthesisCompletedData struct {
	Path       string  `json:"path"`
	Backend    string  `json:"backend"`
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration_seconds"`
}

// WebhookTestData is the payload for webhook.test events.
type WebhookTestData struct {
	EndpointID string `json:"endpoint_id"`
	Message    string `json:"message"`
}

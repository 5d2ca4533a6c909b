package engine

import "context"

// Voice describes an available synthesis voice.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Synthesis is the raw synthesis SDK result: float32 PCM samples in
// base64, plus the format metadata needed to encode them as WAV.
type Synthesis struct {
	Audio      string  // base64-encoded little-endian float32 PCM
	SampleRate int     // Hz, commonly 22050
	NumSamples int
	Duration   float64 // seconds
}

// Synthesizer generates speech audio from text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) (Synthesis, error)
	Voices() []Voice
	Models() []ModelInfo
	Close() error
}

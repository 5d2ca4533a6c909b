// Package speech holds the registries through which transcription and
// synthesis backends are selected by name. Backends register themselves
// in init(); importers pull them in with blank imports.
package speech

import (
	"github.com/wavecap/wavecap/internal/registry"
	"github.com/wavecap/wavecap/internal/speech/engine"
)

// Transcribers holds the registered speech-to-text backends.
var Transcribers = registry.New[engine.Transcriber]()

// Synthesizers holds the registered text-to-speech backends.
var Synthesizers = registry.New[engine.Synthesizer]()

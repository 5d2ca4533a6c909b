// Package config defines the environment-driven service configuration.
package config

import (
	"github.com/pitabwire/frame/config"
)

// RecorderConfig holds configuration for the recorder service.
type RecorderConfig struct {
	config.ConfigurationDefault

	// Storage
	CacheDir string `envDefault:"./cache" env:"CACHE_DIR"`

	// Capture format
	SampleRate    int    `envDefault:"16000"             env:"SAMPLE_RATE"`
	Channels      int    `envDefault:"1"                 env:"CHANNELS"`
	BitsPerSample int    `envDefault:"16"                env:"BITS_PER_SAMPLE"`
	AudioSource   string `envDefault:"voice_recognition" env:"AUDIO_SOURCE"`
	BufferSize    int    `envDefault:"4096"              env:"BUFFER_SIZE"`

	// Capture backends offered by the platform
	StreamingEnabled bool `envDefault:"true" env:"STREAMING_CAPTURE_ENABLED"`
	ContainerEnabled bool `envDefault:"false" env:"CONTAINER_CAPTURE_ENABLED"`

	// Profiles
	ProfilesDir    string `envDefault:"./profiles" env:"PROFILES_DIR"`
	DefaultProfile string `envDefault:"default"    env:"DEFAULT_PROFILE"`

	// Speech backends
	TranscriberBackend string `envDefault:"whisperd"              env:"TRANSCRIBER_BACKEND"`
	WhisperdURL        string `envDefault:"http://localhost:8178" env:"WHISPERD_URL"`
	Language           string `envDefault:""                      env:"LANGUAGE"`
	SynthBackend       string `envDefault:"restsynth"             env:"SYNTH_BACKEND"`
	SynthURL           string `envDefault:"http://localhost:8179" env:"SYNTH_URL"`
	SynthModel         string `envDefault:""                      env:"SYNTH_MODEL"`

	// Webhooks
	WebhookEndpoints  string `envDefault:""    env:"WEBHOOK_ENDPOINTS"`
	WebhookMaxRetries int    `envDefault:"5"   env:"WEBHOOK_MAX_RETRIES"`
	WebhookTimeoutSec int    `envDefault:"10"  env:"WEBHOOK_TIMEOUT_SEC"`
	WebhookBackoffSec int    `envDefault:"1"   env:"WEBHOOK_BACKOFF_INITIAL_SEC"`
	WebhookBackoffMax int    `envDefault:"300" env:"WEBHOOK_BACKOFF_MAX_SEC"`
	CBFailThreshold   int    `envDefault:"5"   env:"CB_FAILURE_THRESHOLD"`
	CBResetTimeoutSec int    `envDefault:"60"  env:"CB_RESET_TIMEOUT_SEC"`
}

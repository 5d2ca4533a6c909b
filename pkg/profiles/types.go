package profiles

import (
	"fmt"
	"time"
)

// Backend names a profile may list in preferred_backends.
const (
	BackendStreamingPCM = "streaming_pcm"
	BackendContainer    = "container"
)

// Profile is a YAML-mappable capture profile. A profile bundles the
// format and backend preferences for one kind of recording so callers
// select a name instead of repeating parameters.
type Profile struct {
	Name              string   `yaml:"name"               json:"name"`
	Description       string   `yaml:"description"        json:"description,omitempty"`
	SampleRate        int      `yaml:"sample_rate"        json:"sample_rate"`
	Channels          int      `yaml:"channels"           json:"channels"`
	BitsPerSample     int      `yaml:"bits_per_sample"    json:"bits_per_sample"`
	AudioSource       string   `yaml:"audio_source"       json:"audio_source,omitempty"`
	BufferSize        int      `yaml:"buffer_size"        json:"buffer_size,omitempty"`
	Codec             string   `yaml:"codec"              json:"codec,omitempty"`
	PreferredBackends []string `yaml:"preferred_backends" json:"preferred_backends,omitempty"`
	MaxDuration       string   `yaml:"max_duration"       json:"max_duration,omitempty"`
}

// Default returns the built-in profile used when no profile directory
// is configured or the requested name is absent.
func Default() Profile {
	return Profile{
		Name:              "default",
		Description:       "16kHz mono capture for speech recognition",
		SampleRate:        16000,
		Channels:          1,
		BitsPerSample:     16,
		AudioSource:       "voice_recognition",
		BufferSize:        4096,
		Codec:             "aac",
		PreferredBackends: []string{BackendStreamingPCM, BackendContainer},
	}
}

// Normalize fills zero-valued fields from the default profile.
func (p *Profile) Normalize() {
	d := Default()
	if p.SampleRate == 0 {
		p.SampleRate = d.SampleRate
	}
	if p.Channels == 0 {
		p.Channels = d.Channels
	}
	if p.BitsPerSample == 0 {
		p.BitsPerSample = d.BitsPerSample
	}
	if p.AudioSource == "" {
		p.AudioSource = d.AudioSource
	}
	if p.BufferSize == 0 {
		p.BufferSize = d.BufferSize
	}
	if p.Codec == "" {
		p.Codec = d.Codec
	}
	if len(p.PreferredBackends) == 0 {
		p.PreferredBackends = d.PreferredBackends
	}
}

// Validate checks the profile after normalization.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("profile %q: sample_rate must be positive", p.Name)
	}
	if p.Channels <= 0 {
		return fmt.Errorf("profile %q: channels must be positive", p.Name)
	}
	if p.BitsPerSample != 16 {
		return fmt.Errorf("profile %q: bits_per_sample must be 16", p.Name)
	}
	for _, b := range p.PreferredBackends {
		if b != BackendStreamingPCM && b != BackendContainer {
			return fmt.Errorf("profile %q: unknown backend %q", p.Name, b)
		}
	}
	if _, err := p.MaxDurationValue(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// MaxDurationValue parses max_duration. Zero means no cap.
func (p *Profile) MaxDurationValue() (time.Duration, error) {
	if p.MaxDuration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.MaxDuration)
	if err != nil {
		return 0, fmt.Errorf("parse max_duration %q: %w", p.MaxDuration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("max_duration %q is negative", p.MaxDuration)
	}
	return d, nil
}

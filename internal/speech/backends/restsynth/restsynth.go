// Package restsynth calls an on-device synthesis server over HTTP. The
// server returns float32 PCM in base64 along with its sample rate, which
// the recorder encodes to WAV downstream.
package restsynth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/wavecap/wavecap/internal/speech"
	"github.com/wavecap/wavecap/internal/speech/backends/restutil"
	"github.com/wavecap/wavecap/internal/speech/engine"
)

func init() {
	speech.Synthesizers.Register("restsynth", func(config map[string]string) (engine.Synthesizer, error) {
		baseURL := config["synth_url"]
		if baseURL == "" {
			baseURL = "http://localhost:8179"
		}
		return NewClient(baseURL, config["synth_model"]), nil
	})
}

// Client calls a JSON synthesis endpoint.
type Client struct {
	baseURL string
	model   string
}

// NewClient creates a synthesizer against the given server base URL.
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
	Model string `json:"model,omitempty"`
}

type synthesizeResponse struct {
	Audio      string  `json:"audio"`
	SampleRate int     `json:"sampleRate"`
	NumSamples int     `json:"numSamples"`
	Duration   float64 `json:"duration"`
}

// Synthesize generates speech for the given text.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (engine.Synthesis, error) {
	if text == "" {
		return engine.Synthesis{}, fmt.Errorf("restsynth: empty text")
	}

	var resp synthesizeResponse
	err := restutil.DoJSON(ctx, http.MethodPost, c.baseURL+"/synthesize", nil, synthesizeRequest{
		Text:  text,
		Voice: voice,
		Model: c.model,
	}, &resp)
	if err != nil {
		return engine.Synthesis{}, fmt.Errorf("restsynth: %w", err)
	}
	if resp.SampleRate <= 0 {
		return engine.Synthesis{}, fmt.Errorf("restsynth: server reported sample rate %d", resp.SampleRate)
	}

	return engine.Synthesis{
		Audio:      resp.Audio,
		SampleRate: resp.SampleRate,
		NumSamples: resp.NumSamples,
		Duration:   resp.Duration,
	}, nil
}

// Voices returns the voices the server exposes.
func (c *Client) Voices() []engine.Voice {
	return []engine.Voice{
		{ID: "default", Name: "Default", Language: "en-US"},
	}
}

// Models returns available synthesis models.
func (c *Client) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "kokoro-82m", DisplayName: "Kokoro 82M", IsDefault: true},
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	return nil
}

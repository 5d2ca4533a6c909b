// Package whisperd transcribes recordings through a whisper.cpp server
// instance reachable over HTTP.
package whisperd

import (
	"context"
	"fmt"
	"strings"

	"github.com/wavecap/wavecap/internal/speech"
	"github.com/wavecap/wavecap/internal/speech/backends/restutil"
	"github.com/wavecap/wavecap/internal/speech/engine"
)

func init() {
	speech.Transcribers.Register("whisperd", func(config map[string]string) (engine.Transcriber, error) {
		baseURL := config["whisperd_url"]
		if baseURL == "" {
			baseURL = "http://localhost:8178"
		}
		return NewClient(baseURL, config["language"]), nil
	})
}

// Client calls a whisper.cpp server's /inference endpoint.
type Client struct {
	baseURL  string
	language string
}

// NewClient creates a transcriber against the given server base URL.
func NewClient(baseURL, language string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
	}
}

type inferenceResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Error    string `json:"error"`
}

// TranscribeFile uploads the WAV file at path and returns its transcript.
func (c *Client) TranscribeFile(ctx context.Context, path string) (engine.Transcription, error) {
	if strings.Contains(path, "://") {
		return engine.Transcription{}, fmt.Errorf("whisperd: path %q carries a URI scheme, want a plain filesystem path", path)
	}

	fields := map[string]string{"response_format": "json"}
	if c.language != "" {
		fields["language"] = c.language
	}

	var resp inferenceResponse
	if err := restutil.PostFileJSON(ctx, c.baseURL+"/inference", nil, "file", path, fields, &resp); err != nil {
		return engine.Transcription{}, fmt.Errorf("whisperd: %w", err)
	}
	if resp.Error != "" {
		return engine.Transcription{}, fmt.Errorf("whisperd: server error: %s", resp.Error)
	}

	return engine.Transcription{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
	}, nil
}

// Models returns the models the server is known to host.
func (c *Client) Models() []engine.ModelInfo {
	return []engine.ModelInfo{
		{ID: "ggml-base", DisplayName: "Whisper Base", IsDefault: true},
		{ID: "ggml-small", DisplayName: "Whisper Small"},
		{ID: "ggml-large-v3", DisplayName: "Whisper Large v3"},
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	return nil
}

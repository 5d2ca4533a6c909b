// Package recorder ties the capture controller, speech backends,
// profiles, and storage into the recording service the API surface
// exposes.
package recorder

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pitabwire/frame/workerpool"

	"github.com/wavecap/wavecap/internal/audio"
	"github.com/wavecap/wavecap/internal/capture"
	"github.com/wavecap/wavecap/internal/speech"
	"github.com/wavecap/wavecap/internal/storage"
	"github.com/wavecap/wavecap/pkg/events"
	"github.com/wavecap/wavecap/pkg/profiles"
)

// Options configures a Service.
type Options struct {
	TranscriberBackend string
	SynthBackend       string
	ServiceConfig      map[string]string
	Pool               workerpool.WorkerPool
}

// Service owns one capture controller and resolves speech backends per
// request. A Service handles a single device's recording surface, so a
// single controller (and its one-session rule) is the right shape.
type Service struct {
	ctrl     *capture.Controller
	store    *storage.FileStore
	pub      *events.Publisher
	profiles *profiles.Loader

	transcriberBackend string
	synthBackend       string
	serviceConfig      map[string]string
	pool               workerpool.WorkerPool

	watchMu   sync.Mutex
	watchDone chan struct{}
}

// NewService creates a recording service.
func NewService(ctrl *capture.Controller, store *storage.FileStore, pub *events.Publisher, loader *profiles.Loader, opts Options) *Service {
	if opts.TranscriberBackend == "" {
		opts.TranscriberBackend = "whisperd"
	}
	if opts.SynthBackend == "" {
		opts.SynthBackend = "restsynth"
	}
	if opts.ServiceConfig == nil {
		opts.ServiceConfig = map[string]string{}
	}
	return &Service{
		ctrl:               ctrl,
		store:              store,
		pub:                pub,
		profiles:           loader,
		transcriberBackend: opts.TranscriberBackend,
		synthBackend:       opts.SynthBackend,
		serviceConfig:      opts.ServiceConfig,
		pool:               opts.Pool,
	}
}

// State reports the controller's lifecycle state and active session ID.
func (s *Service) State() (capture.State, string) {
	return s.ctrl.State(), s.ctrl.SessionID()
}

// StartRecording begins a session using the named profile. An empty
// name selects the default profile.
func (s *Service) StartRecording(ctx context.Context, profileName string) (string, error) {
	if profileName == "" {
		profileName = "default"
	}
	prof, ok := s.profiles.Get(profileName)
	if !ok {
		return "", fmt.Errorf("%w: unknown profile %q", audio.ErrInvalidArgument, profileName)
	}

	id, err := s.ctrl.Start(ctx, sessionOptions(prof))
	if err != nil {
		return "", err
	}

	if limit, _ := prof.MaxDurationValue(); limit > 0 {
		s.armWatchdog(id, limit)
	}
	return id, nil
}

// PushChunk forwards one base64 PCM chunk to the active session.
func (s *Service) PushChunk(chunk string) error {
	return s.ctrl.OnChunk(chunk)
}

// StopRecording finalizes the session and returns the audio file path.
func (s *Service) StopRecording(ctx context.Context) (string, error) {
	s.disarmWatchdog()
	return s.ctrl.Stop(ctx)
}

// StopAndTranscribe finalizes the session and runs the finished file
// through the configured transcription backend.
func (s *Service) StopAndTranscribe(ctx context.Context) (string, string, string, error) {
	path, err := s.StopRecording(ctx)
	if err != nil {
		return "", "", "", err
	}

	text, lang, err := s.Transcribe(ctx, path)
	if err != nil {
		// The recording itself succeeded; the caller keeps the path.
		return path, "", "", err
	}
	return path, text, lang, nil
}

// Transcribe runs an already persisted audio file through the
// configured transcription backend.
func (s *Service) Transcribe(ctx context.Context, path string) (string, string, error) {
	eng, err := speech.Transcribers.Create(s.transcriberBackend, s.serviceConfig)
	if err != nil {
		return "", "", fmt.Errorf("create transcriber %q: %w", s.transcriberBackend, err)
	}
	defer eng.Close()

	res, err := eng.TranscribeFile(ctx, storage.StripScheme(path))
	if err != nil {
		return "", "", err
	}

	s.emit(ctx, events.TranscriptionCompleted, events.TranscriptionCompletedData{
		Path:       path,
		Transcript: res.Text,
		Backend:    s.transcriberBackend,
		Language:   res.Language,
	})
	return res.Text, res.Language, nil
}

// AbortRecording discards the active session without persisting.
func (s *Service) AbortRecording(ctx context.Context, reason string) error {
	s.disarmWatchdog()
	if reason == "" {
		reason = "aborted by caller"
	}
	return s.ctrl.Abort(ctx, reason)
}

// Synthesize generates speech for the text, encodes the float32 result
// as a 16-bit WAV at the backend's sample rate, persists it, and
// returns the file path.
func (s *Service) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: empty text", audio.ErrInvalidArgument)
	}

	eng, err := speech.Synthesizers.Create(s.synthBackend, s.serviceConfig)
	if err != nil {
		return "", fmt.Errorf("create synthesizer %q: %w", s.synthBackend, err)
	}
	defer eng.Close()

	syn, err := eng.Synthesize(ctx, text, voice)
	if err != nil {
		return "", err
	}

	samples, err := audio.DecodeFloat32(syn.Audio)
	if err != nil {
		return "", err
	}
	wav, err := audio.EncodeFromFloat(samples, audio.SynthesisFormat(syn.SampleRate))
	if err != nil {
		return "", err
	}

	path := s.store.PathFor("synthesis", time.Now())
	if err := s.store.Write(ctx, path, base64.StdEncoding.EncodeToString(wav)); err != nil {
		return "", fmt.Errorf("%w: %v", capture.ErrStorageWriteFailed, err)
	}

	s.emit(ctx, events.SynthesisCompleted, events.SynthesisCompletedData{
		Path:       path,
		Backend:    s.synthBackend,
		SampleRate: syn.SampleRate,
		Duration:   syn.Duration,
	})
	return path, nil
}

// BackendInfo describes the service's available backends and profiles.
type BackendInfo struct {
	Transcribers []string           `json:"transcribers"`
	Synthesizers []string           `json:"synthesizers"`
	Profiles     []profiles.Profile `json:"profiles"`
}

// Backends lists registered speech backends and loaded profiles.
func (s *Service) Backends() BackendInfo {
	all := s.profiles.All()
	profs := make([]profiles.Profile, 0, len(all))
	for _, p := range all {
		profs = append(profs, p)
	}
	return BackendInfo{
		Transcribers: speech.Transcribers.List(),
		Synthesizers: speech.Synthesizers.List(),
		Profiles:     profs,
	}
}

// armWatchdog aborts the session if it is still the active one when the
// profile's duration cap elapses.
func (s *Service) armWatchdog(sessionID string, limit time.Duration) {
	done := make(chan struct{})

	s.watchMu.Lock()
	s.watchDone = done
	s.watchMu.Unlock()

	watch := func() {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		select {
		case <-done:
			return
		case <-timer.C:
		}
		if s.ctrl.SessionID() != sessionID {
			return
		}
		ctx := context.Background()
		if err := s.ctrl.Abort(ctx, fmt.Sprintf("duration cap %s reached", limit)); err != nil {
			slog.Warn("recorder: duration cap abort",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
	}

	if s.pool != nil {
		_ = s.pool.Submit(context.Background(), watch)
	} else {
		go watch()
	}
}

func (s *Service) disarmWatchdog() {
	s.watchMu.Lock()
	if s.watchDone != nil {
		close(s.watchDone)
		s.watchDone = nil
	}
	s.watchMu.Unlock()
}

func (s *Service) emit(ctx context.Context, t events.EventType, data interface{}) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Emit(ctx, t, s.ctrl.SessionID(), data); err != nil {
		slog.WarnContext(ctx, "recorder: emit event",
			slog.String("event_type", string(t)),
			slog.String("error", err.Error()))
	}
}

// sessionOptions maps a capture profile onto session options.
func sessionOptions(p profiles.Profile) capture.SessionOptions {
	return capture.SessionOptions{
		Format: audio.Format{
			SampleRate:    p.SampleRate,
			Channels:      p.Channels,
			BitsPerSample: p.BitsPerSample,
		},
		Stream: capture.StreamOptions{
			SampleRate:    p.SampleRate,
			Channels:      p.Channels,
			BitsPerSample: p.BitsPerSample,
			AudioSource:   p.AudioSource,
			BufferSize:    p.BufferSize,
		},
		Container: capture.ContainerOptions{
			SampleRate: p.SampleRate,
			Channels:   p.Channels,
			Codec:      p.Codec,
		},
		Preferred: p.PreferredBackends,
		Profile:   p.Name,
	}
}

// Package handler exposes the recording service over HTTP/JSON.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wavecap/wavecap/internal/audio"
	"github.com/wavecap/wavecap/internal/capture"
	"github.com/wavecap/wavecap/internal/recorder"
)

// RecorderHandler serves the recording, transcription, and synthesis
// endpoints.
type RecorderHandler struct {
	svc *recorder.Service
}

// NewRecorderHandler creates a handler over the given service.
func NewRecorderHandler(svc *recorder.Service) *RecorderHandler {
	return &RecorderHandler{svc: svc}
}

// Register mounts all routes on the mux.
func (h *RecorderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/recordings/start", h.startRecording)
	mux.HandleFunc("POST /v1/recordings/chunk", h.pushChunk)
	mux.HandleFunc("POST /v1/recordings/stop", h.stopRecording)
	mux.HandleFunc("DELETE /v1/recordings", h.abortRecording)
	mux.HandleFunc("GET /v1/recordings", h.recordingState)
	mux.HandleFunc("POST /v1/synthesize", h.synthesize)
	mux.HandleFunc("POST /v1/transcribe", h.transcribe)
	mux.HandleFunc("GET /v1/backends", h.listBackends)
}

type startRequest struct {
	Profile string `json:"profile"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
}

func (h *RecorderHandler) startRecording(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.svc.StartRecording(r.Context(), req.Profile)
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, _ := h.svc.State()
	writeJSON(w, http.StatusOK, startResponse{SessionID: id, State: string(state)})
}

type chunkRequest struct {
	Chunk string `json:"chunk"`
}

func (h *RecorderHandler) pushChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.PushChunk(req.Chunk); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

type stopRequest struct {
	Transcribe bool `json:"transcribe"`
}

type stopResponse struct {
	Path       string `json:"path"`
	Transcript string `json:"transcript,omitempty"`
	Language   string `json:"language,omitempty"`
}

func (h *RecorderHandler) stopRecording(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !req.Transcribe {
		path, err := h.svc.StopRecording(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stopResponse{Path: path})
		return
	}

	path, text, lang, err := h.svc.StopAndTranscribe(r.Context())
	if err != nil {
		// Recording may have been persisted even when transcription
		// failed; a path plus error means keep the file.
		if path != "" {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"path":  path,
				"error": err.Error(),
			})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stopResponse{Path: path, Transcript: text, Language: lang})
}

type abortRequest struct {
	Reason string `json:"reason"`
}

func (h *RecorderHandler) abortRecording(w http.ResponseWriter, r *http.Request) {
	var req abortRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.AbortRecording(r.Context(), req.Reason); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"aborted": true})
}

func (h *RecorderHandler) recordingState(w http.ResponseWriter, r *http.Request) {
	state, id := h.svc.State()
	writeJSON(w, http.StatusOK, map[string]string{
		"state":      string(state),
		"session_id": id,
	})
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

func (h *RecorderHandler) synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	path, err := h.svc.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

type transcribeRequest struct {
	Path string `json:"path"`
}

func (h *RecorderHandler) transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	text, lang, err := h.svc.Transcribe(r.Context(), req.Path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"transcript": text,
		"language":   lang,
	})
}

func (h *RecorderHandler) listBackends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Backends())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, capture.ErrInvalidState), errors.Is(err, audio.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, capture.ErrCaptureUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, capture.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, capture.ErrEmptyRecording):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, audio.ErrDecodeFailed), errors.Is(err, audio.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, capture.ErrStorageWriteFailed):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "recorder: request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package restsynth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesize(t *testing.T) {
	var gotReq synthesizeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("path = %q, want /synthesize", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(synthesizeResponse{
			Audio:      "AAAA",
			SampleRate: 22050,
			NumSamples: 1,
			Duration:   1.0 / 22050.0,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "kokoro-82m")
	res, err := c.Synthesize(context.Background(), "hello", "alba")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if gotReq.Text != "hello" || gotReq.Voice != "alba" || gotReq.Model != "kokoro-82m" {
		t.Errorf("request = %+v", gotReq)
	}
	if res.SampleRate != 22050 || res.Audio != "AAAA" {
		t.Errorf("result = %+v", res)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	c := NewClient("http://localhost:1", "")
	if _, err := c.Synthesize(context.Background(), "", ""); err == nil {
		t.Error("empty text should fail before any request")
	}
}

func TestSynthesizeBadSampleRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(synthesizeResponse{Audio: "AAAA"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Synthesize(context.Background(), "hi", ""); err == nil {
		t.Error("a zero sample rate should fail the call")
	}
}

func TestSynthesizeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.Synthesize(context.Background(), "hi", ""); err == nil {
		t.Error("HTTP 503 should fail the call")
	}
}

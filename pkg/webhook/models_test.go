package webhook

import (
	"testing"

	"github.com/wavecap/wavecap/pkg/events"
)

func TestParseEndpoints(t *testing.T) {
	raw := `[
		{"id":"ep1","name":"ops","url":"https://example.com/hook","secret":"abc","event_types":["recording.completed"]},
		{"id":"ep2","url":"https://example.org/hook","secret":"def","active":false}
	]`

	endpoints, err := ParseEndpoints(raw)
	if err != nil {
		t.Fatalf("ParseEndpoints: %v", err)
	}
	if len(endpoints) != 2 {
		t.Fatalf("parsed %d endpoints, want 2", len(endpoints))
	}

	if !endpoints[0].Active {
		t.Error("active should default to true")
	}
	if endpoints[1].Active {
		t.Error("explicit active=false should stick")
	}
	if !endpoints[0].Wants(events.RecordingCompleted) {
		t.Error("ep1 should want recording.completed")
	}
	if endpoints[0].Wants(events.SynthesisCompleted) {
		t.Error("ep1 should not want synthesis.completed")
	}
	// Empty list subscribes to everything.
	if !endpoints[1].Wants(events.SynthesisCompleted) {
		t.Error("ep2 with no event_types should want all events")
	}
}

func TestParseEndpointsRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no id", `[{"url":"https://x/h","secret":"s"}]`},
		{"no url", `[{"id":"a","secret":"s"}]`},
		{"no secret", `[{"id":"a","url":"https://x/h"}]`},
		{"bad json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEndpoints(tt.raw); err == nil {
				t.Error("ParseEndpoints should fail")
			}
		})
	}
}

func TestParseEndpointsEmpty(t *testing.T) {
	endpoints, err := ParseEndpoints("")
	if err != nil {
		t.Fatalf("ParseEndpoints: %v", err)
	}
	if endpoints != nil {
		t.Errorf("empty config should yield no endpoints, got %v", endpoints)
	}
}

func TestDirectoryMatching(t *testing.T) {
	dir := NewDirectory([]Endpoint{
		{ID: "a", URL: "https://a/h", Secret: "s", Active: true, EventTypes: []events.EventType{events.RecordingCompleted}},
		{ID: "b", URL: "https://b/h", Secret: "s", Active: true},
		{ID: "c", URL: "https://c/h", Secret: "s", Active: false},
	})

	got := dir.Matching(events.RecordingCompleted)
	if len(got) != 2 {
		t.Fatalf("matched %d endpoints, want 2", len(got))
	}

	got = dir.Matching(events.SynthesisCompleted)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("matched %v, want only b", got)
	}
}

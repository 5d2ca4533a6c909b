package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestPublisherLocalFanout(t *testing.T) {
	pub := NewPublisher(nil, "test", "events")
	defer pub.Close()

	ch := pub.Subscribe("sub-1", 4)

	err := pub.Emit(context.Background(), RecordingCompleted, "session-1", RecordingCompletedData{
		Backend:   "streaming_pcm",
		Path:      "/cache/recording_1.wav",
		SizeBytes: 12332,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	select {
	case env := <-ch:
		if env.Type != RecordingCompleted {
			t.Errorf("event type = %q, want %q", env.Type, RecordingCompleted)
		}
		if env.SessionID != "session-1" {
			t.Errorf("session id = %q, want session-1", env.SessionID)
		}
		if env.ID == "" {
			t.Error("envelope ID is empty")
		}

		var data RecordingCompletedData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
		if data.SizeBytes != 12332 {
			t.Errorf("size = %d, want 12332", data.SizeBytes)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestPublisherDropsWhenBufferFull(t *testing.T) {
	pub := NewPublisher(nil, "test", "events")
	defer pub.Close()

	pub.Subscribe("slow", 1)

	// Second emit must not block even though nobody drains the channel.
	for i := 0; i < 3; i++ {
		if err := pub.Emit(context.Background(), RecordingStarted, "s", nil); err != nil {
			t.Fatalf("Emit %d: %v", i, err)
		}
	}
}

func TestPublisherUnsubscribeClosesChannel(t *testing.T) {
	pub := NewPublisher(nil, "test", "events")

	ch := pub.Subscribe("sub", 1)
	pub.Unsubscribe("sub")

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

package stream

import (
	"encoding/json"
	"testing"
	"time"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/workout"
)

func TestPresenterBroadcastsRenderEvents(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("s-1")
	defer hub.Unregister(client)

	rec, err := workout.NewRunning(geo.Location{Lat: 10, Lng: 20}, 5, 30, 180, time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new running: %v", err)
	}
	rec.ID = "1"

	p := NewPresenter(hub, "s-1")
	p.PlaceMarker(workout.NewMarker(rec))
	p.AppendSummary(workout.NewSummary(rec))

	want := []string{EventMarker, EventSummary}
	for _, kind := range want {
		select {
		case msg := <-client.Send:
			var ev map[string]any
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if ev["type"] != kind || ev["session_id"] != "s-1" {
				t.Fatalf("unexpected event %v", ev)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for %s event", kind)
		}
	}
}

func TestPresenterWithoutHub(t *testing.T) {
	p := NewPresenter(nil, "s-1")
	p.CenterOn(workout.CenterRequest{})
}

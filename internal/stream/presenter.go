package stream

import (
	"encoding/json"
	"log"

	"backend-mapty/internal/workout"
)

const (
	EventMarker  = "marker"
	EventCenter  = "center"
	EventSummary = "summary"
)

// Event is the JSON envelope pushed to websocket clients.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Data      any    `json:"data"`
}

// Presenter renders a session's map and list by broadcasting events on the hub.
type Presenter struct {
	hub       *Hub
	sessionID string
}

func NewPresenter(hub *Hub, sessionID string) *Presenter {
	return &Presenter{hub: hub, sessionID: sessionID}
}

func (p *Presenter) PlaceMarker(m workout.Marker) {
	p.publish(EventMarker, m)
}

func (p *Presenter) CenterOn(req workout.CenterRequest) {
	p.publish(EventCenter, req)
}

func (p *Presenter) AppendSummary(s workout.Summary) {
	p.publish(EventSummary, s)
}

func (p *Presenter) publish(kind string, data any) {
	if p.hub == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: kind, SessionID: p.sessionID, Data: data})
	if err != nil {
		log.Printf("encode %s event: %v", kind, err)
		return
	}
	p.hub.Broadcast(p.sessionID, payload)
}

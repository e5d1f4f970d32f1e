package stream

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
)

func startApp(t *testing.T, hub *Hub, exists SessionExists) string {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), hub, exists)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.Clients(sessionID) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %d clients", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamHandlersUpgradeRequired(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/stream"), NewHub(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/stream/ws/session-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("expected 426 for non-websocket request, got %d", resp.StatusCode)
	}
}

func TestStreamHandlersUnknownSession(t *testing.T) {
	base := startApp(t, NewHub(nil), func(string) bool { return false })

	_, resp, err := websocket.DefaultDialer.Dial(base+"/stream/ws/missing", nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session")
	}
}

func TestStreamHandlersWebsocketBroadcast(t *testing.T) {
	hub := NewHub(nil)
	base := startApp(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/ws/session-1", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "session-1", 1)

	hub.Broadcast("session-1", []byte("hello"))
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(msg) != "hello" {
		t.Fatalf("unexpected message")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("client")); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func TestStreamHandlersPresenterEvents(t *testing.T) {
	hub := NewHub(nil)
	base := startApp(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/ws/session-p", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "session-p", 1)

	p := NewPresenter(hub, "session-p")
	p.CenterOn(workout.CenterRequest{Location: geo.Location{Lat: 1, Lng: 2}, Zoom: 13})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	var ev struct {
		Type      string                `json:"type"`
		SessionID string                `json:"session_id"`
		Data      workout.CenterRequest `json:"data"`
	}
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventCenter || ev.SessionID != "session-p" || ev.Data.Zoom != 13 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestStreamHandlersClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	base := startApp(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/ws/session-3", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	waitForClients(t, hub, "session-3", 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.Clients("session-3") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected client to be unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.Broadcast("session-3", []byte("ping"))
}

func TestStreamHandlersCloseSessionDisconnects(t *testing.T) {
	hub := NewHub(nil)
	base := startApp(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/stream/ws/session-gone", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "session-gone", 1)

	hub.CloseSession("session-gone")

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
	if hub.Clients("session-gone") != 0 {
		t.Fatalf("expected no clients after session close")
	}
}

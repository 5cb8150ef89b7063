// File: internal/infra/ws/hub_test.go
package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tryon-studio/internal/domain/model"
)

func TestHubBroadcastsJobUpdates(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	hub := NewHub(&logger)
	defer hub.Close()

	ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The hub registers the client inside ServeWS; give it a moment.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	job := model.NewTryOnJob("portrait-1", "item-1")
	job.MarkSuccess("https://cdn.example/out.webp")
	hub.Notify(job)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event statusEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Type != "tryon_status" {
		t.Fatalf("event type = %q", event.Type)
	}
	if event.Job == nil || event.Job.ItemID != "item-1" || event.Job.Status != model.TryOnStatusSuccess {
		t.Fatalf("unexpected job payload: %+v", event.Job)
	}
}

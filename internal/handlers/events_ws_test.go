package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEventBroker_PublishWithoutClients(t *testing.T) {
	broker := NewEventBroker()

	// Must not panic or block with nobody connected
	broker.Publish(EventScanCompleted, map[string]int{"reports": 3})

	if broker.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", broker.ClientCount())
	}
}

func TestEventBroker_DeliversEvents(t *testing.T) {
	broker := NewEventBroker()
	server := httptest.NewServer(http.HandlerFunc(broker.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial event feed: %v", err)
	}
	defer conn.Close()

	// Registration happens inside the upgrade handler
	waitFor(t, func() bool { return broker.ClientCount() == 1 })

	broker.Publish(EventReportMerged, map[string]string{"report_id": "email-a@example.com"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if event.Type != EventReportMerged {
		t.Errorf("expected %s, got %s", EventReportMerged, event.Type)
	}
	if event.Timestamp.IsZero() {
		t.Errorf("expected a timestamp on the event")
	}
}

func TestEventBroker_DropsClosedClients(t *testing.T) {
	broker := NewEventBroker()
	server := httptest.NewServer(http.HandlerFunc(broker.HandleWebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial event feed: %v", err)
	}
	waitFor(t, func() bool { return broker.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return broker.ClientCount() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

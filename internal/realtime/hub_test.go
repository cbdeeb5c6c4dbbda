package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	event := &Event{Type: EventTurnProcessed, Timestamp: time.Now()}
	if !h.shouldSend(client, event) {
		t.Error("AllEvents client should receive all events")
	}
}

func TestShouldSend_EventTypeFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		EventTypes: []EventType{EventScamConfirmed, EventReportSent},
	}}

	confirmed := &Event{Type: EventScamConfirmed}
	report := &Event{Type: EventReportSent}
	turn := &Event{Type: EventTurnProcessed}

	if !h.shouldSend(client, confirmed) {
		t.Error("Should receive scam_confirmed events")
	}
	if !h.shouldSend(client, report) {
		t.Error("Should receive report_sent events")
	}
	if h.shouldSend(client, turn) {
		t.Error("Should NOT receive turn_processed events")
	}
}

func TestShouldSend_SessionFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		SessionIDs: []string{"sess-1"},
	}}

	matching := &Event{
		Type: EventTurnProcessed,
		Data: map[string]interface{}{"sessionId": "sess-1"},
	}
	notMatching := &Event{
		Type: EventTurnProcessed,
		Data: map[string]interface{}{"sessionId": "sess-2"},
	}

	if !h.shouldSend(client, matching) {
		t.Error("Should match on sessionId")
	}
	if h.shouldSend(client, notMatching) {
		t.Error("Should NOT match unrelated sessions")
	}
}

func TestShouldSend_ScamTypeFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		ScamTypes: []string{"upi_fraud"},
	}}

	matching := &Event{
		Type: EventScamConfirmed,
		Data: map[string]interface{}{"scamType": "upi_fraud"},
	}
	notMatching := &Event{
		Type: EventScamConfirmed,
		Data: map[string]interface{}{"scamType": "lottery"},
	}
	noType := &Event{
		Type: EventTurnProcessed,
		Data: map[string]interface{}{"sessionId": "sess-1"},
	}

	if !h.shouldSend(client, matching) {
		t.Error("Should match on scamType")
	}
	if h.shouldSend(client, notMatching) {
		t.Error("Should NOT match other scam types")
	}
	if !h.shouldSend(client, noType) {
		t.Error("Events without a scamType field should pass through")
	}
}

func TestShouldSend_MinRiskScoreFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		MinRiskScore: 40.0,
	}}

	hot := &Event{
		Type: EventTurnProcessed,
		Data: map[string]interface{}{"riskScore": 62.5},
	}
	cold := &Event{
		Type: EventTurnProcessed,
		Data: map[string]interface{}{"riskScore": 12.0},
	}
	report := &Event{
		Type: EventReportSent,
		Data: map[string]interface{}{"sessionId": "sess-1"},
	}

	if !h.shouldSend(client, hot) {
		t.Error("Should receive high-risk turn")
	}
	if h.shouldSend(client, cold) {
		t.Error("Should NOT receive low-risk turn")
	}
	if !h.shouldSend(client, report) {
		t.Error("MinRiskScore filter should only apply to turn events")
	}
}

func TestShouldSend_EmptySubscription(t *testing.T) {
	h := testHub()

	// No filters, not AllEvents
	client := &Client{sub: Subscription{}}

	event := &Event{Type: EventTurnProcessed}
	if !h.shouldSend(client, event) {
		t.Error("Empty subscription (no filters) should receive events")
	}
}

func TestShouldSend_NonMapData(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		SessionIDs: []string{"sess-1"},
	}}

	// Event with non-map data should not crash
	event := &Event{
		Type: EventReportSent,
		Data: "string data not a map",
	}

	// Session filter skips non-map data (can't extract the id), so event passes through
	if !h.shouldSend(client, event) {
		t.Error("Non-map data should pass through when session filter can't extract the id")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle tests
// ---------------------------------------------------------------------------

func TestHub_Stats_Initial(t *testing.T) {
	h := testHub()

	stats := h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients, got %v", stats["connectedClients"])
	}
	if stats["totalEvents"].(int64) != 0 {
		t.Errorf("Expected 0 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_BroadcastAndStats(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Broadcast an event
	h.Broadcast(&Event{Type: EventTurnProcessed, Timestamp: time.Now()})
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 1 {
		t.Errorf("Expected 1 total event, got %v", stats["totalEvents"])
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["connectedClients"].(int) != 1 {
		t.Errorf("Expected 1 connected client, got %v", stats["connectedClients"])
	}
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak 1, got %v", stats["peakClients"])
	}

	h.unregister <- client
	time.Sleep(50 * time.Millisecond)

	stats = h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients after unregister, got %v", stats["connectedClients"])
	}
	// Peak should still be 1
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak still 1, got %v", stats["peakClients"])
	}
}

func TestHub_BroadcastToClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.Broadcast(&Event{
		Type:      EventScamConfirmed,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"sessionId": "sess-1", "scamType": "phishing"},
	})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestHub_Notify(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Should not panic; engine hook path
	h.Notify("turn_processed", map[string]any{
		"sessionId": "sess-1", "riskScore": 55.0,
	})
}

func TestHub_ContextCancellation(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		// Hub stopped
	case <-time.After(2 * time.Second):
		t.Error("Hub did not stop after context cancellation")
	}
}

func TestHub_FilteredBroadcast(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Client only wants report dispatches
	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{EventTypes: []EventType{EventReportSent}},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	// Send a turn event (should be filtered out)
	h.Broadcast(&Event{Type: EventTurnProcessed, Timestamp: time.Now()})
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.send:
		t.Error("Client should NOT receive turn event")
	default:
		// Good - filtered out
	}

	// Send a report event (should be received)
	h.Broadcast(&Event{Type: EventReportSent, Timestamp: time.Now()})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Client should receive report event")
	}
}

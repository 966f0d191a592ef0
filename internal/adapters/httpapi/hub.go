package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

const (
	subscriberBuffer = 64
	writeTimeout     = 5 * time.Second
)

type subscriber struct {
	send      chan []byte
	missionID string
	agentName string
}

func (s *subscriber) wants(event *secondary.EventRecord) bool {
	if s.missionID != "" && event.MissionID != s.missionID {
		return false
	}
	if s.agentName != "" && event.AgentName != s.agentName {
		return false
	}
	return true
}

// Hub pushes appended events to websocket subscribers. It implements
// secondary.EventPublisher. A subscriber that falls behind loses events
// rather than slowing down writers.
type Hub struct {
	originPatterns []string

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub creates a hub accepting websocket upgrades from originPatterns.
func NewHub(originPatterns []string) *Hub {
	return &Hub{
		originPatterns: originPatterns,
		subs:           make(map[*subscriber]struct{}),
	}
}

// Publish fans the event out to every matching subscriber without blocking.
func (h *Hub) Publish(event *secondary.EventRecord) {
	data, err := json.Marshal(primary.Event(*event))
	if err != nil {
		slog.Warn("failed to encode event for stream", "event", event.EventName, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.send <- data:
		default:
			slog.Debug("event stream subscriber is behind, dropping event", "event", event.EventName)
		}
	}
}

// Subscribers reports how many clients are connected.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		close(sub.send)
		delete(h.subs, sub)
	}
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[sub] = struct{}{}
	return true
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// ServeHTTP upgrades the request and streams events until either side closes.
// Optional mission_id and agent_name query parameters filter the stream.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		slog.Debug("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	sub := &subscriber{
		send:      make(chan []byte, subscriberBuffer),
		missionID: r.URL.Query().Get("mission_id"),
		agentName: r.URL.Query().Get("agent_name"),
	}
	if !h.register(sub) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.unregister(sub)

	// Clients only listen; CloseRead handles their control frames.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-sub.send:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := writeMessage(ctx, conn, data); err != nil {
				return
			}
		}
	}
}

func writeMessage(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

// Ensure Hub implements the interface
var _ secondary.EventPublisher = (*Hub)(nil)

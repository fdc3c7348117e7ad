// Package ws streams device and timer events to WebSocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jmylchreest/vesyncd/internal/events"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer (subscribers only send control frames).
	maxMessageSize = 512

	// Size of the per-subscriber send buffer.
	sendBufferSize = 64
)

// Frame is the wire shape of one pushed event. Payload carries the device
// display snapshot the event was published with, so a subscriber can track
// power, connection and timer state without polling the REST API.
type Frame struct {
	Event   events.EventType `json:"event"`
	At      time.Time        `json:"at"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}

// subscriber is one connected WebSocket peer.
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans bus events out to connected WebSocket subscribers. Events are
// serialized once into a Frame and queued; per-subscriber delivery happens
// through buffered channels so one slow peer cannot stall the others.
type Hub struct {
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool

	frames chan []byte
	unsub  func() // unsubscribe from event bus
}

// NewHub creates a Hub and subscribes it to the event bus.
func NewHub(logger *slog.Logger, bus *events.Bus) *Hub {
	h := &Hub{
		logger: logger,
		subs:   make(map[*subscriber]struct{}),
		frames: make(chan []byte, 256),
	}

	h.unsub = bus.Subscribe(func(e events.Event) {
		buf, err := json.Marshal(Frame{Event: e.Type, At: e.Timestamp, Payload: e.Data})
		if err != nil {
			logger.Error("ws: failed to marshal frame", "event", e.Type, "error", err)
			return
		}
		// The bus is synchronous; never block a publisher on the hub.
		select {
		case h.frames <- buf:
		default:
			logger.Warn("ws: frame queue full, dropping event", "event", e.Type)
		}
	})

	return h
}

// Run delivers queued frames to subscribers until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.unsub()
	h.logger.Info("ws: hub started")

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for s := range h.subs {
				close(s.send)
				delete(h.subs, s)
			}
			h.mu.Unlock()
			h.logger.Info("ws: hub stopped")
			return

		case buf := <-h.frames:
			h.mu.Lock()
			for s := range h.subs {
				select {
				case s.send <- buf:
				default:
					// Send buffer full: the peer has stopped draining.
					// Drop it rather than stall everyone else.
					close(s.send)
					delete(h.subs, s)
					h.logger.Warn("ws: dropping slow subscriber", "subscribers", len(h.subs))
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// attach registers a subscriber. It fails once the hub has shut down.
func (h *Hub) attach(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s] = struct{}{}
	h.logger.Info("ws: subscriber connected", "subscribers", len(h.subs))
	return true
}

// detach removes a subscriber and closes its send channel exactly once.
func (h *Hub) detach(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
		h.logger.Info("ws: subscriber disconnected", "subscribers", len(h.subs))
	}
	h.mu.Unlock()
}

// writePump moves frames from the send channel onto the wire and keeps the
// connection alive with pings. One goroutine per subscriber.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case buf, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub detached us or shut down.
				s.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so control frames (ping/pong/close) are
// processed. Subscribers never send meaningful data; anything else is
// discarded. Returning detaches the subscriber.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.detach(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("ws: read error", "error", err)
			}
			return
		}
	}
}

package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is intended for loopback/LAN use; accept any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler returns an http.HandlerFunc that upgrades connections to WebSocket
// and attaches the subscriber to the hub.
func Handler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("ws: upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
			return
		}

		s := &subscriber{conn: conn, send: make(chan []byte, sendBufferSize)}
		if !hub.attach(s) {
			conn.Close()
			return
		}

		go s.writePump()
		go hub.readPump(s)
	}
}

// Package stream broadcasts IMU samples to websocket clients for
// monitoring and plotting.
package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans one sample stream out to any number of websocket clients.
// Slow or broken clients are dropped on the first failed write.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: map[*websocket.Conn]struct{}{}}
}

// Handler upgrades an HTTP request and registers the client. Incoming
// messages are read and discarded so that close frames are processed.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("stream: upgrade: %v", err)
			return
		}
		h.mu.Lock()
		h.conns[conn] = struct{}{}
		n := len(h.conns)
		h.mu.Unlock()
		log.Infof("stream: client %s connected (%d total)", conn.RemoteAddr(), n)

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.drop(conn)
					return
				}
			}
		}()
	}
}

// Broadcast writes v as JSON to every connected client.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(v); err != nil {
			log.Debugf("stream: dropping %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		conn.Close()
		delete(h.conns, conn)
		log.Infof("stream: client %s disconnected", conn.RemoteAddr())
	}
}

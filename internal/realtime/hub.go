package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 로컬 대시보드 용도
	},
}

type subscriber struct {
	mu    sync.Mutex // WriteMessage 직렬화
	runID string     // 비어있으면 모든 run 수신
}

// DefaultWriteTimeout bounds a single event write. 넘기면 해당 구독자 연결 해제
const DefaultWriteTimeout = 5 * time.Second

// Hub broadcasts StageEvents to websocket subscribers
type Hub struct {
	mu           sync.RWMutex
	clients      map[*websocket.Conn]*subscriber
	writeTimeout time.Duration
	logger       *logger.Logger
}

// NewHub creates an empty hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:      make(map[*websocket.Conn]*subscriber),
		writeTimeout: DefaultWriteTimeout,
		logger:       log.WithField("component", "ws_hub"),
	}
}

// ServeHTTP upgrades the request and keeps the connection until the client leaves.
// ?run_id= 로 특정 run 만 구독
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &subscriber{runID: r.URL.Query().Get("run_id")}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("total", total).Debug("WebSocket client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.WithField("remaining", remaining).Debug("WebSocket client disconnected")
	}()

	// Read messages from client (keep connection alive)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).Warn("WebSocket error")
			}
			return
		}
	}
}

// Publish implements Publisher
func (h *Hub) Publish(event contracts.StageEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal stage event")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	subs := make([]*subscriber, 0, len(h.clients))
	for conn, sub := range h.clients {
		if sub.runID != "" && sub.runID != event.RunID {
			continue
		}
		conns = append(conns, conn)
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		sub := subs[i]
		sub.mu.Lock()
		err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		sub.mu.Unlock()

		if err != nil {
			h.logger.WithError(err).Warn("Dropping websocket client after failed write")
			h.drop(conn)
		}
	}
}

// drop removes a subscriber whose connection can no longer be written to
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Close sends a going-away frame to every subscriber and drops them.
// http.Server.Shutdown 은 hijack 된 연결을 닫지 않음
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn, sub := range h.clients {
		sub.mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		sub.mu.Unlock()
		conn.Close()
		delete(h.clients, conn)
	}
}

// Clients returns the number of connected subscribers
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

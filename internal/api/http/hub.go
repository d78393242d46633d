package http

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live websocket subscribers per market so every dispatched
// event can be pushed to all participants, each receiving their own view.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	markets map[string]map[int]*client
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{log: log, markets: make(map[string]map[int]*client)}
}

// Register adopts an upgraded connection. A reconnect replaces the
// previous connection for the same participant.
func (h *Hub) Register(marketID string, participantID int, conn *websocket.Conn) {
	cl := &client{conn: conn}

	h.mu.Lock()
	m, ok := h.markets[marketID]
	if !ok {
		m = make(map[int]*client)
		h.markets[marketID] = m
	}
	if old, ok := m[participantID]; ok {
		old.conn.Close()
	}
	m[participantID] = cl
	h.mu.Unlock()

	go h.readPump(marketID, participantID, cl)
	go h.pingLoop(cl)
}

// readPump drains inbound frames; clients never send anything meaningful
// over the socket, but reading is required for close and pong handling.
func (h *Hub) readPump(marketID string, participantID int, cl *client) {
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(marketID, participantID, cl)
}

func (h *Hub) pingLoop(cl *client) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for range t.C {
		cl.mu.Lock()
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := cl.conn.WriteMessage(websocket.PingMessage, nil)
		cl.mu.Unlock()
		if err != nil {
			return
		}
	}
}

func (h *Hub) unregister(marketID string, participantID int, cl *client) {
	h.mu.Lock()
	if m, ok := h.markets[marketID]; ok && m[participantID] == cl {
		delete(m, participantID)
	}
	h.mu.Unlock()
	cl.conn.Close()
}

// Broadcast pushes each participant their own view. Slow or dead
// connections are dropped rather than blocking the market.
func (h *Hub) Broadcast(marketID string, views map[int]*domain.ParticipantView) {
	h.mu.RLock()
	m := h.markets[marketID]
	targets := make(map[int]*client, len(m))
	for id, cl := range m {
		targets[id] = cl
	}
	h.mu.RUnlock()

	for id, view := range views {
		cl, ok := targets[id]
		if !ok {
			continue
		}
		if err := cl.send(view); err != nil {
			h.log.Warn("dropping websocket subscriber",
				zap.String("market", marketID), zap.Int("participant", id), zap.Error(err))
			h.unregister(marketID, id, cl)
		}
	}
}

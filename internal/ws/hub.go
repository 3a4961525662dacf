package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans session state transitions out to the show displays and
// participant clients subscribed to a quiz.
type Hub struct {
	mu      sync.RWMutex
	quizzes map[uint]map[*websocket.Conn]bool
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		quizzes: make(map[uint]map[*websocket.Conn]bool),
		log:     log,
	}
}

func (h *Hub) AddConnection(quizID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.quizzes[quizID] == nil {
		h.quizzes[quizID] = make(map[*websocket.Conn]bool)
	}
	h.quizzes[quizID][conn] = true
	h.log.Debug("ws client connected", zap.Uint("quiz_id", quizID), zap.Int("total", len(h.quizzes[quizID])))
}

func (h *Hub) RemoveConnection(quizID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.quizzes[quizID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.quizzes, quizID)
		}
		h.log.Debug("ws client disconnected", zap.Uint("quiz_id", quizID))
	}
}

func (h *Hub) Broadcast(quizID uint, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.quizzes[quizID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("ws marshal error", zap.Error(err))
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("ws write error", zap.Error(err))
			conn.Close()
			delete(conns, conn)
		}
	}
}

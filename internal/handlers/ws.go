package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	hub *ws.Hub
	log *zap.Logger
}

func NewWSHandler(hub *ws.Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket stream of quiz state transitions
// @Description  Pushes a message whenever the quiz's live session changes phase
// @Tags         websocket
// @Param        id path int true "Quiz ID"
// @Router       /ws/quiz/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.AddConnection(quizID, conn)
	defer h.hub.RemoveConnection(quizID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

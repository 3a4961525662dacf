package handlers

import (
	"net/http"
	"strconv"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService     *services.SessionService
	leaderboardService *services.LeaderboardService
}

func NewSessionHandler(sessionService *services.SessionService, leaderboardService *services.LeaderboardService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, leaderboardService: leaderboardService}
}

// StartSession godoc
// @Summary      Start a quiz session
// @Description  Force-finishes any live session of the quiz and starts a new countdown
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      201 {object} models.Session
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Start(quizID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetLeaderboard godoc
// @Summary      Session leaderboard
// @Description  Ranked by correct answers, earliest score row wins ties
// @Tags         sessions
// @Produce      json
// @Param        id path int true "Session ID"
// @Param        limit query int false "Max entries" default(50)
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/sessions/{id}/leaderboard [get]
func (h *SessionHandler) GetLeaderboard(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.leaderboardService.Rank(sessionID, limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

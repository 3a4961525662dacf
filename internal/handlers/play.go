package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type PlayHandler struct {
	sessionService *services.SessionService
	answerService  *services.AnswerService
}

func NewPlayHandler(sessionService *services.SessionService, answerService *services.AnswerService) *PlayHandler {
	return &PlayHandler{sessionService: sessionService, answerService: answerService}
}

// GetState godoc
// @Summary      Public session state for a quiz
// @Description  Latest session of the quiz as seen by the caller; correctness is never exposed while a question runs
// @Tags         play
// @Produce      json
// @Param        id path int true "Quiz ID"
// @Success      200 {object} services.SessionView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/state [get]
func (h *PlayHandler) GetState(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := c.GetUint("user_id")

	view, err := h.sessionService.PublicState(quizID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no session for this quiz"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetActive godoc
// @Summary      Active session across all quizzes
// @Description  Picks the running question session first, then a countdown, then the most recent finished one
// @Tags         play
// @Produce      json
// @Success      200 {object} services.SessionView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/active [get]
func (h *PlayHandler) GetActive(c *gin.Context) {
	userID := c.GetUint("user_id")

	view, err := h.sessionService.ActiveState(userID)
	if err != nil {
		fail(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active session"})
		return
	}

	c.JSON(http.StatusOK, view)
}

type SubmitAnswerRequest struct {
	QuestionID        uint   `json:"question_id" binding:"required" example:"1"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Accepted only while the named question is the session's current one; resubmission overwrites
// @Tags         play
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body SubmitAnswerRequest true "Selected options"
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/answer [post]
func (h *PlayHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := c.GetUint("user_id")

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.answerService.Submit(sessionID, req.QuestionID, userID, req.SelectedOptionIDs); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "answer recorded"})
}

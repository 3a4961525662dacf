package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes godoc
// @Summary      List quizzes
// @Description  All quizzes newest-first with latest session status attached
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.QuizSummary
// @Router       /api/v1/admin/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary      Get a quiz with questions and options
// @Description  Full quiz content including correctness flags, for editing
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// CreateQuiz godoc
// @Summary      Create a quiz
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.QuizInput true "Quiz data"
// @Success      201 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input services.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(userID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// UpdateQuiz godoc
// @Summary      Update a quiz
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body services.QuizInput true "Quiz data"
// @Success      200 {object} Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.QuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary      Delete a quiz and all its run state
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "quiz deleted"})
}

// ResetSessions godoc
// @Summary      Reset quiz run state
// @Description  Delete sessions, answers and scores; quiz content survives
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/reset [post]
func (h *QuizHandler) ResetSessions(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.ResetSessions(quizID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "sessions reset"})
}

type ForcePreviewRequest struct {
	Enabled bool `json:"enabled"`
}

// SetForcePreview godoc
// @Summary      Toggle preview override
// @Description  While on, all viewers see the pre-start screen regardless of session state
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body ForcePreviewRequest true "Override flag"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/force-preview [post]
func (h *QuizHandler) SetForcePreview(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ForcePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.quizService.SetForcePreview(quizID, req.Enabled); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "force preview updated"})
}

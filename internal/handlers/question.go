package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	quizService *services.QuizService
}

func NewQuestionHandler(quizService *services.QuizService) *QuestionHandler {
	return &QuestionHandler{quizService: quizService}
}

// CreateQuestion godoc
// @Summary      Add a question to a quiz
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      201 {object} Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(quizID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      200 {object} Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(questionID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question and its options
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(questionID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// CreateOption godoc
// @Summary      Add an option to a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body services.OptionInput true "Option data"
// @Success      201 {object} models.Option
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id}/options [post]
func (h *QuestionHandler) CreateOption(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.OptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	option, err := h.quizService.CreateOption(questionID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, option)
}

// UpdateOption godoc
// @Summary      Update an option
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Option ID"
// @Param        request body services.OptionInput true "Option data"
// @Success      200 {object} models.Option
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/options/{id} [put]
func (h *QuestionHandler) UpdateOption(c *gin.Context) {
	optionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.OptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	option, err := h.quizService.UpdateOption(optionID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, option)
}

// DeleteOption godoc
// @Summary      Delete an option
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Option ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/options/{id} [delete]
func (h *QuestionHandler) DeleteOption(c *gin.Context) {
	optionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteOption(optionID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "option deleted"})
}

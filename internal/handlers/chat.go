package handlers

import (
	"net/http"
	"strconv"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type AskRequest struct {
	Text string `json:"text" binding:"required" example:"What is the recommended dosage?"`
}

type AskResponse struct {
	TicketID uint `json:"ticket_id" example:"42"`
}

// Ask godoc
// @Summary      Submit a question to the persona
// @Description  Creates a queued ticket; the answer is fetched asynchronously and held for moderation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AskRequest true "Question text"
// @Success      201 {object} AskResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/chat/ask [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ticketID, err := h.chatService.SubmitQuestion(userID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, AskResponse{TicketID: ticketID})
}

type QueuePositionResponse struct {
	Position int `json:"position" example:"3"`
}

// QueuePosition godoc
// @Summary      Position of a ticket in the fetch queue
// @Description  0 once the ticket has left the queue
// @Tags         chat
// @Produce      json
// @Param        id path int true "Ticket ID"
// @Success      200 {object} QueuePositionResponse
// @Router       /api/v1/chat/tickets/{id}/position [get]
func (h *ChatHandler) QueuePosition(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	position, err := h.chatService.QueuePosition(ticketID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, QueuePositionResponse{Position: position})
}

// ActiveTicket godoc
// @Summary      Caller's latest ticket
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.ActiveTicket
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/chat/active [get]
func (h *ChatHandler) ActiveTicket(c *gin.Context) {
	userID := c.GetUint("user_id")

	ticket, err := h.chatService.UserActiveTicket(userID)
	if err != nil {
		fail(c, err)
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no tickets yet"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// History godoc
// @Summary      Published question/answer history
// @Description  Approved pairs newest-first; limit clamped to 50
// @Tags         chat
// @Produce      json
// @Param        limit query int false "Max entries" default(20)
// @Success      200 {array} models.ChatHistoryEntry
// @Router       /api/v1/chat/history [get]
func (h *ChatHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.chatService.ListHistory(limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

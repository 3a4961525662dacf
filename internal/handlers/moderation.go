package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	chatService *services.ChatService
}

func NewModerationHandler(chatService *services.ChatService) *ModerationHandler {
	return &ModerationHandler{chatService: chatService}
}

// ListAwaiting godoc
// @Summary      Tickets awaiting moderation
// @Description  Oldest first
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ChatTicket
// @Router       /api/v1/admin/chat/awaiting [get]
func (h *ModerationHandler) ListAwaiting(c *gin.Context) {
	tickets, err := h.chatService.ListAwaiting()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

type ModUpdateRequest struct {
	ModQuestion *string `json:"mod_question"`
	ModAnswer   *string `json:"mod_answer"`
}

// UpdateTicket godoc
// @Summary      Edit the moderated question or answer
// @Description  Only provided fields are changed; originals are kept untouched
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ticket ID"
// @Param        request body ModUpdateRequest true "Moderator edits"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/chat/tickets/{id} [patch]
func (h *ModerationHandler) UpdateTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ModUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.chatService.ModUpdate(ticketID, req.ModQuestion, req.ModAnswer); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "ticket updated"})
}

// ApproveTicket godoc
// @Summary      Approve a ticket
// @Description  Publishes the effective question/answer pair into history
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ticket ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/chat/tickets/{id}/approve [post]
func (h *ModerationHandler) ApproveTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.ModApprove(ticketID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "ticket approved"})
}

// DeleteTicket godoc
// @Summary      Delete a ticket
// @Description  Marks the ticket deleted; approved tickets cannot be deleted
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ticket ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/admin/chat/tickets/{id} [delete]
func (h *ModerationHandler) DeleteTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.ModDelete(ticketID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "ticket deleted"})
}

// TicketSources godoc
// @Summary      Citations extracted for a ticket
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ticket ID"
// @Success      200 {array} models.ChatSource
// @Router       /api/v1/admin/chat/tickets/{id}/sources [get]
func (h *ModerationHandler) TicketSources(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	sources, err := h.chatService.TicketSources(ticketID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sources)
}

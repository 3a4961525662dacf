package handlers

import (
	"net/http"

	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

type DisplayHandler struct {
	displayService *services.DisplayService
}

func NewDisplayHandler(displayService *services.DisplayService) *DisplayHandler {
	return &DisplayHandler{displayService: displayService}
}

// ListPhrases godoc
// @Summary      Phrase carousel entries
// @Description  Public callers get visible phrases only; admins see everything
// @Tags         display
// @Produce      json
// @Success      200 {array} models.ChatPhrase
// @Router       /api/v1/chat/phrases [get]
func (h *DisplayHandler) ListPhrases(c *gin.Context) {
	visibleOnly := c.GetString("role") != "admin"

	phrases, err := h.displayService.ListPhrases(visibleOnly)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, phrases)
}

// CreatePhrase godoc
// @Summary      Add a carousel phrase
// @Tags         display
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.PhraseInput true "Phrase data"
// @Success      201 {object} models.ChatPhrase
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/chat/phrases [post]
func (h *DisplayHandler) CreatePhrase(c *gin.Context) {
	var input services.PhraseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	phrase, err := h.displayService.CreatePhrase(input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, phrase)
}

// UpdatePhrase godoc
// @Summary      Update a carousel phrase
// @Tags         display
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Phrase ID"
// @Param        request body services.PhraseInput true "Phrase data"
// @Success      200 {object} models.ChatPhrase
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/chat/phrases/{id} [put]
func (h *DisplayHandler) UpdatePhrase(c *gin.Context) {
	phraseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input services.PhraseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	phrase, err := h.displayService.UpdatePhrase(phraseID, input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, phrase)
}

// DeletePhrase godoc
// @Summary      Delete a carousel phrase
// @Tags         display
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Phrase ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/chat/phrases/{id} [delete]
func (h *DisplayHandler) DeletePhrase(c *gin.Context) {
	phraseID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.displayService.DeletePhrase(phraseID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "phrase deleted"})
}

// GetSettings godoc
// @Summary      Carousel timing settings
// @Tags         display
// @Produce      json
// @Success      200 {object} models.ChatSettings
// @Router       /api/v1/chat/settings [get]
func (h *DisplayHandler) GetSettings(c *gin.Context) {
	settings, err := h.displayService.Settings()
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Update carousel timing settings
// @Tags         display
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.SettingsInput true "Settings"
// @Success      200 {object} models.ChatSettings
// @Router       /api/v1/admin/chat/settings [put]
func (h *DisplayHandler) UpdateSettings(c *gin.Context) {
	var input services.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings, err := h.displayService.UpdateSettings(input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

type AnnounceRequest struct {
	Text       string `json:"text" binding:"required"`
	DurationMs int    `json:"duration_ms" binding:"required,min=1"`
}

// Announce godoc
// @Summary      Queue a one-time announcement
// @Tags         display
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AnnounceRequest true "Announcement"
// @Success      201 {object} models.ChatAnnouncement
// @Router       /api/v1/admin/chat/announcements [post]
func (h *DisplayHandler) Announce(c *gin.Context) {
	var req AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ann, err := h.displayService.Announce(req.Text, req.DurationMs)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ann)
}

// NextAnnouncement godoc
// @Summary      Pop the next pending announcement
// @Description  Each announcement is returned exactly once; 204 when the queue is empty
// @Tags         display
// @Produce      json
// @Success      200 {object} models.ChatAnnouncement
// @Success      204 "No pending announcements"
// @Router       /api/v1/chat/announcements/next [post]
func (h *DisplayHandler) NextAnnouncement(c *gin.Context) {
	ann, err := h.displayService.NextAnnouncement()
	if err != nil {
		fail(c, err)
		return
	}
	if ann == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, ann)
}

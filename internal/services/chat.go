package services

import (
	"context"
	"fmt"

	"github.com/whanarchyven/drsarha-conf/internal/assistant"
	"github.com/whanarchyven/drsarha-conf/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fetcher produces a model answer (and optional sources) for a user
// question. Implemented by assistant.Client.
type Fetcher interface {
	Fetch(ctx context.Context, userQuestion string, userID uint) (assistant.Answer, error)
}

// ChatService runs the ticket moderation pipeline:
// queued -> awaiting_moderation -> approved|deleted. The external fetch is
// best-effort; any failure substitutes a fallback answer so every ticket
// reaches moderation.
type ChatService struct {
	db      *gorm.DB
	fetcher Fetcher
	log     *zap.Logger

	// dispatch hands a freshly queued ticket to the fetch pipeline.
	// Asynchronous in production; tests swap it for an inline call.
	dispatch func(ticketID uint)
}

func NewChatService(db *gorm.DB, fetcher Fetcher, log *zap.Logger) *ChatService {
	s := &ChatService{db: db, fetcher: fetcher, log: log}
	s.dispatch = func(ticketID uint) { go s.fetchAnswer(ticketID) }
	return s
}

// SubmitQuestion creates a queued ticket and kicks off the answer fetch in
// the background. Returns the ticket id immediately.
func (s *ChatService) SubmitQuestion(userID uint, text string) (uint, error) {
	if userID == 0 {
		return 0, ErrUnauthorized
	}

	ticket := models.ChatTicket{
		UserID:       userID,
		UserQuestion: text,
		Status:       models.TicketStatusQueued,
	}
	if err := s.db.Create(&ticket).Error; err != nil {
		return 0, err
	}

	s.dispatch(ticket.ID)
	return ticket.ID, nil
}

// fetchAnswer resolves the model answer for a queued ticket. On any
// upstream failure, or when the run yields no usable text, a deterministic
// fallback referencing the question is written instead; the ticket always
// ends up awaiting moderation. The status write is guarded so a ticket
// deleted mid-fetch stays deleted.
func (s *ChatService) fetchAnswer(ticketID uint) {
	var ticket models.ChatTicket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return
	}
	if ticket.Status != models.TicketStatusQueued {
		return
	}

	answer, err := s.fetcher.Fetch(context.Background(), ticket.UserQuestion, ticket.UserID)
	if err != nil {
		s.log.Warn("assistant call failed", zap.Error(err), zap.Uint("ticket_id", ticketID))
	}
	if answer.ParseFailures > 0 {
		s.log.Warn("source fragments dropped",
			zap.Int("failures", answer.ParseFailures), zap.Uint("ticket_id", ticketID))
	}

	for _, src := range answer.Sources {
		source := models.ChatSource{
			TicketID: ticketID,
			URL:      src.URL,
			Title:    src.Title,
			Snippet:  src.Snippet,
		}
		if err := s.db.Create(&source).Error; err != nil {
			s.log.Warn("failed to store source", zap.Error(err), zap.Uint("ticket_id", ticketID))
		}
	}

	modelAnswer := answer.FinalText
	if modelAnswer == "" {
		modelAnswer = fallbackAnswer(ticket.UserQuestion)
	}

	result := s.db.Model(&models.ChatTicket{}).
		Where("id = ? AND status = ?", ticketID, models.TicketStatusQueued).
		Updates(map[string]interface{}{
			"model_answer": modelAnswer,
			"status":       models.TicketStatusAwaiting,
		})
	if result.Error != nil {
		s.log.Error("failed to store model answer", zap.Error(result.Error), zap.Uint("ticket_id", ticketID))
		return
	}
	s.log.Info("ticket awaiting moderation",
		zap.Uint("ticket_id", ticketID),
		zap.Int("sources", len(answer.Sources)),
		zap.Bool("fallback", answer.FinalText == ""))
}

func fallbackAnswer(question string) string {
	return fmt.Sprintf("Automatic answer to: %q", question)
}

// QueuePosition returns 1 + the number of other still-queued tickets
// created before this one, or 0 once the ticket has left the queue (or
// does not exist). Only meaningful while the ticket is queued.
func (s *ChatService) QueuePosition(ticketID uint) (int, error) {
	var ticket models.ChatTicket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return 0, nil
	}
	if ticket.Status != models.TicketStatusQueued {
		return 0, nil
	}

	var earlier int64
	if err := s.db.Model(&models.ChatTicket{}).
		Where("status = ? AND id < ?", models.TicketStatusQueued, ticket.ID).
		Count(&earlier).Error; err != nil {
		return 0, err
	}
	return int(earlier) + 1, nil
}

type ActiveTicket struct {
	TicketID uint   `json:"ticket_id"`
	Status   string `json:"status"`
}

// UserActiveTicket returns the caller's most recently created ticket, used
// by the client to decide between the composer and the waiting state.
func (s *ChatService) UserActiveTicket(userID uint) (*ActiveTicket, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	var ticket models.ChatTicket
	if err := s.db.Where("user_id = ?", userID).Order("id DESC").First(&ticket).Error; err != nil {
		return nil, nil
	}
	return &ActiveTicket{TicketID: ticket.ID, Status: ticket.Status}, nil
}

// ListAwaiting returns tickets awaiting moderation, oldest first.
func (s *ChatService) ListAwaiting() ([]models.ChatTicket, error) {
	var tickets []models.ChatTicket
	err := s.db.Where("status = ?", models.TicketStatusAwaiting).
		Order("id ASC").Find(&tickets).Error
	return tickets, err
}

// ModUpdate patches only the moderator-edit fields that were provided.
func (s *ChatService) ModUpdate(ticketID uint, modQuestion, modAnswer *string) error {
	var ticket models.ChatTicket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return fmt.Errorf("ticket: %w", ErrNotFound)
	}

	patch := map[string]interface{}{}
	if modQuestion != nil {
		patch["mod_question"] = *modQuestion
	}
	if modAnswer != nil {
		patch["mod_answer"] = *modAnswer
	}
	if len(patch) == 0 {
		return nil
	}
	return s.db.Model(&ticket).Updates(patch).Error
}

// ModDelete marks the ticket deleted. Rows are never physically removed,
// preserving the audit trail. Approved tickets are terminal and cannot be
// deleted; deleting an already-deleted ticket is a no-op.
func (s *ChatService) ModDelete(ticketID uint) error {
	var ticket models.ChatTicket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return fmt.Errorf("ticket: %w", ErrNotFound)
	}
	switch ticket.Status {
	case models.TicketStatusApproved:
		return fmt.Errorf("%w: ticket already approved", ErrInvalidState)
	case models.TicketStatusDeleted:
		return nil
	}
	return s.db.Model(&ticket).Update("status", models.TicketStatusDeleted).Error
}

// ModApprove publishes the ticket: the effective question/answer pair
// (moderator edits win over originals) is flattened into history and the
// status flips to approved, atomically. Fails when there is no effective
// answer to publish.
func (s *ChatService) ModApprove(ticketID uint) error {
	var ticket models.ChatTicket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return fmt.Errorf("ticket: %w", ErrNotFound)
	}
	if ticket.Status != models.TicketStatusAwaiting {
		return fmt.Errorf("%w: ticket is not awaiting moderation", ErrInvalidState)
	}

	question := ticket.ModQuestion
	if question == "" {
		question = ticket.UserQuestion
	}
	answer := ticket.ModAnswer
	if answer == "" {
		answer = ticket.ModelAnswer
	}
	if answer == "" {
		return fmt.Errorf("%w: no answer to publish", ErrInvalidState)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.ChatHistoryEntry{
			UserID:   ticket.UserID,
			TicketID: ticket.ID,
			Question: question,
			Answer:   answer,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&ticket).Update("status", models.TicketStatusApproved).Error
	})
}

// ListHistory returns published pairs newest-first. The limit is clamped
// to 1..50 and defaults to 20.
func (s *ChatService) ListHistory(limit int) ([]models.ChatHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	var entries []models.ChatHistoryEntry
	err := s.db.Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// TicketSources lists the citations extracted for a ticket.
func (s *ChatService) TicketSources(ticketID uint) ([]models.ChatSource, error) {
	var sources []models.ChatSource
	err := s.db.Where("ticket_id = ?", ticketID).Order("id ASC").Find(&sources).Error
	return sources, err
}

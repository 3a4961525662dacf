package models

import "time"

// ChatTicket moves strictly forward: queued -> awaiting_moderation ->
// approved|deleted. A ticket may also be deleted while still queued.
type ChatTicket struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	UserQuestion string    `gorm:"type:text;not null" json:"user_question"`
	ModelAnswer  string    `gorm:"type:text" json:"model_answer,omitempty"`
	ModQuestion  string    `gorm:"type:text" json:"mod_question,omitempty"`
	ModAnswer    string    `gorm:"type:text" json:"mod_answer,omitempty"`
	Status       string    `gorm:"size:30;not null;default:'queued';index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	TicketStatusQueued   = "queued"
	TicketStatusAwaiting = "awaiting_moderation"
	TicketStatusApproved = "approved"
	TicketStatusDeleted  = "deleted"
)

// ChatHistoryEntry is the flattened, published (question, answer) pair.
// Created exactly once, at approval time, and never mutated afterwards.
type ChatHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSource is a citation extracted from the assistant payload. Purely
// additive enrichment, never required for approval.
type ChatSource struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TicketID uint   `gorm:"not null;index" json:"ticket_id"`
	URL      string `gorm:"size:2000;not null" json:"url"`
	Title    string `gorm:"size:500" json:"title,omitempty"`
	Snippet  string `gorm:"type:text" json:"snippet,omitempty"`
}

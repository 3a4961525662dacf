package models

import "time"

type Session struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	QuizID               uint       `gorm:"not null;index:idx_session_quiz_status" json:"quiz_id"`
	Quiz                 Quiz       `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Status               string     `gorm:"size:20;not null;default:'waiting';index:idx_session_quiz_status" json:"status"`
	StartedAt            time.Time  `gorm:"not null" json:"started_at"`
	DelaySeconds         int        `gorm:"not null" json:"delay_seconds"`
	CurrentQuestionIndex int        `gorm:"not null;default:-1" json:"current_question_index"`
	CurrentQuestionID    *uint      `json:"current_question_id,omitempty"`
	QuestionStartedAt    *time.Time `json:"question_started_at,omitempty"`
	QuestionEndsAt       *time.Time `json:"question_ends_at,omitempty"`
	FinishedAt           *time.Time `json:"finished_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

const (
	SessionStatusWaiting  = "waiting"
	SessionStatusQuestion = "question"
	SessionStatusFinished = "finished"
)

// ScheduledAdvance is a durable timer entry. The scheduler loop pops due
// entries and advances the referenced session; the session state itself is
// re-checked at execution time, so stale entries are harmless.
type ScheduledAdvance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	DueAt     time.Time `gorm:"not null;index" json:"due_at"`
}

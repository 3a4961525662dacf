package models

import "time"

type Answer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	SessionID         uint      `gorm:"not null;index:idx_answer_session_user" json:"session_id"`
	QuestionID        uint      `gorm:"not null;uniqueIndex:idx_answer_question_user" json:"question_id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_answer_question_user;index:idx_answer_session_user" json:"user_id"`
	SelectedOptionIDs []uint    `gorm:"serializer:json;type:text" json:"selected_option_ids"`
	IsCorrect         bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt        time.Time `gorm:"not null" json:"answered_at"`
}

type Score struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"not null;uniqueIndex:idx_score_session_user" json:"session_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_score_session_user" json:"user_id"`
	CorrectCount int       `gorm:"not null;default:0" json:"correct_count"`
	CreatedAt    time.Time `json:"created_at"`
}

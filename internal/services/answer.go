package services

import (
	"fmt"
	"time"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"gorm.io/gorm"
)

// AnswerService grades submissions against the session's current question.
type AnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// Submit validates and records an answer. The submission must target the
// session's current question while its phase is open; a resubmission
// overwrites the prior answer rather than duplicating it, and the caller's
// session score is recomputed from scratch afterwards so corrections can
// never drift the count.
//
// Correctness is strict set equality: the chosen options must match the
// question's correct options exactly, no partial credit.
func (s *AnswerService) Submit(sessionID, questionID, userID uint, selectedOptionIDs []uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}

	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	if session.Status != models.SessionStatusQuestion ||
		session.CurrentQuestionID == nil || *session.CurrentQuestionID != questionID {
		return fmt.Errorf("%w: session is not on this question", ErrInvalidState)
	}

	var question models.Question
	if err := s.db.Preload("Options").First(&question, questionID).Error; err != nil {
		return fmt.Errorf("question: %w", ErrNotFound)
	}
	if !question.AllowsMultiple && len(selectedOptionIDs) > 1 {
		return fmt.Errorf("%w: question allows a single option", ErrInvalidState)
	}

	correct := make(map[uint]bool)
	for _, o := range question.Options {
		if o.IsCorrect {
			correct[o.ID] = true
		}
	}
	chosen := make(map[uint]bool)
	for _, id := range selectedOptionIDs {
		chosen[id] = true
	}
	isCorrect := len(chosen) == len(correct)
	if isCorrect {
		for id := range correct {
			if !chosen[id] {
				isCorrect = false
				break
			}
		}
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Answer
		err := tx.Where("question_id = ? AND user_id = ?", questionID, userID).First(&existing).Error
		switch {
		case err == nil:
			existing.SelectedOptionIDs = selectedOptionIDs
			existing.IsCorrect = isCorrect
			existing.AnsweredAt = now
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			answer := models.Answer{
				SessionID:         sessionID,
				QuestionID:        questionID,
				UserID:            userID,
				SelectedOptionIDs: selectedOptionIDs,
				IsCorrect:         isCorrect,
				AnsweredAt:        now,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeScore(tx, sessionID, userID)
	})
}

// recomputeScore sets the user's correctCount to the number of correct
// answers they currently hold in the session. Always a full recount, never
// an increment.
func recomputeScore(tx *gorm.DB, sessionID, userID uint) error {
	var total int64
	if err := tx.Model(&models.Answer{}).
		Where("session_id = ? AND user_id = ? AND is_correct = ?", sessionID, userID, true).
		Count(&total).Error; err != nil {
		return err
	}

	var score models.Score
	err := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&score).Error
	switch {
	case err == nil:
		return tx.Model(&score).Update("correct_count", total).Error
	case err == gorm.ErrRecordNotFound:
		return tx.Create(&models.Score{
			SessionID:    sessionID,
			UserID:       userID,
			CorrectCount: int(total),
		}).Error
	default:
		return err
	}
}

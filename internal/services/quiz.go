package services

import (
	"fmt"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuizInput struct {
	Title        string                   `json:"title" binding:"required"`
	Description  string                   `json:"description"`
	ImageURL     *string                  `json:"image_url"`
	DelaySeconds int                      `json:"delay_seconds" binding:"min=0"`
	Product      *models.ProductPlacement `json:"product_placement"`
	ForcePreview *bool                    `json:"force_preview"`
}

type QuizSummary struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url,omitempty"`
	DelaySeconds  int     `json:"delay_seconds"`
	SessionStatus *string `json:"session_status,omitempty"`
	SessionID     *uint   `json:"session_id,omitempty"`
}

// ListQuizzes returns every quiz newest-first with the status of its latest
// session attached, for the admin console overview.
func (s *QuizService) ListQuizzes() ([]QuizSummary, error) {
	var quizzes []models.Quiz
	if err := s.db.Order("created_at DESC").Limit(100).Find(&quizzes).Error; err != nil {
		return nil, err
	}

	result := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		summary := QuizSummary{
			ID:           q.ID,
			Title:        q.Title,
			Description:  q.Description,
			ImageURL:     q.ImageURL,
			DelaySeconds: q.DelaySeconds,
		}
		var latest models.Session
		if err := s.db.Where("quiz_id = ?", q.ID).Order("id DESC").First(&latest).Error; err == nil {
			status := latest.Status
			id := latest.ID
			summary.SessionStatus = &status
			summary.SessionID = &id
		}
		result = append(result, summary)
	}
	return result, nil
}

// GetQuiz returns the full quiz with questions in traversal order and
// options including correctness flags. Admin-only; public reads go through
// the session state view which strips correctness.
func (s *QuizService) GetQuiz(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC, id ASC")
		}).
		Preload("Questions.Options").
		First(&quiz, quizID).Error
	if err != nil {
		return nil, fmt.Errorf("quiz: %w", ErrNotFound)
	}
	return &quiz, nil
}

func (s *QuizService) CreateQuiz(createdBy uint, input QuizInput) (*models.Quiz, error) {
	quiz := models.Quiz{
		Title:        input.Title,
		Description:  input.Description,
		DelaySeconds: input.DelaySeconds,
		CreatedBy:    createdBy,
	}
	if input.ImageURL != nil {
		quiz.ImageURL = *input.ImageURL
	}
	if input.Product != nil {
		quiz.Product = *input.Product
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz patches the quiz. Product placement fields are merged rather
// than replaced so partial updates do not clobber previously set values.
func (s *QuizService) UpdateQuiz(quizID uint, input QuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, fmt.Errorf("quiz: %w", ErrNotFound)
	}

	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.DelaySeconds = input.DelaySeconds
	if input.ImageURL != nil {
		quiz.ImageURL = *input.ImageURL
	}
	if input.ForcePreview != nil {
		quiz.ForcePreview = *input.ForcePreview
	}
	if input.Product != nil {
		merged := quiz.Product
		if input.Product.Name != "" {
			merged.Name = input.Product.Name
		}
		if input.Product.Description != "" {
			merged.Description = input.Product.Description
		}
		if input.Product.LogoURL != "" {
			merged.LogoURL = input.Product.LogoURL
		}
		if input.Product.ImageURL != "" {
			merged.ImageURL = input.Product.ImageURL
		}
		quiz.Product = merged
	}

	if err := s.db.Save(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz removes the quiz and everything hanging off it: questions,
// options, sessions, answers, scores and pending advance entries.
func (s *QuizService) DeleteQuiz(quizID uint) error {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return fmt.Errorf("quiz: %w", ErrNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deleteSessionData(tx, quizID); err != nil {
			return err
		}
		if err := tx.Where("question_id IN (SELECT id FROM questions WHERE quiz_id = ?)", quizID).
			Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, quizID).Error
	})
}

// ResetSessions wipes all run state for a quiz (sessions, answers, scores,
// pending advances) while keeping the quiz content intact.
func (s *QuizService) ResetSessions(quizID uint) error {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return fmt.Errorf("quiz: %w", ErrNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteSessionData(tx, quizID)
	})
}

func (s *QuizService) deleteSessionData(tx *gorm.DB, quizID uint) error {
	sub := tx.Model(&models.Session{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("session_id IN (?)", sub).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id IN (?)", sub).Delete(&models.Score{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id IN (?)", sub).Delete(&models.ScheduledAdvance{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&models.Session{}).Error
}

// SetForcePreview toggles the admin override that pins all viewers to the
// "not started" screen.
func (s *QuizService) SetForcePreview(quizID uint, on bool) error {
	result := s.db.Model(&models.Quiz{}).Where("id = ?", quizID).Update("force_preview", on)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quiz: %w", ErrNotFound)
	}
	return nil
}

type QuestionInput struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	ImageURL       *string `json:"image_url"`
	AnswerTimeSec  int     `json:"answer_time_sec" binding:"required,min=1"`
	AllowsMultiple bool    `json:"allows_multiple"`
	OrderNum       int     `json:"order_num"`
}

func (s *QuizService) CreateQuestion(quizID uint, input QuestionInput) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, fmt.Errorf("quiz: %w", ErrNotFound)
	}

	question := models.Question{
		QuizID:         quizID,
		Title:          input.Title,
		Description:    input.Description,
		AnswerTimeSec:  input.AnswerTimeSec,
		AllowsMultiple: input.AllowsMultiple,
		OrderNum:       input.OrderNum,
	}
	if input.ImageURL != nil {
		question.ImageURL = *input.ImageURL
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) UpdateQuestion(questionID uint, input QuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("question: %w", ErrNotFound)
	}

	question.Title = input.Title
	question.Description = input.Description
	question.AnswerTimeSec = input.AnswerTimeSec
	question.AllowsMultiple = input.AllowsMultiple
	question.OrderNum = input.OrderNum
	if input.ImageURL != nil {
		question.ImageURL = *input.ImageURL
	}
	if err := s.db.Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuizService) DeleteQuestion(questionID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return fmt.Errorf("question: %w", ErrNotFound)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
}

type OptionInput struct {
	Text      string  `json:"text" binding:"required"`
	ImageURL  *string `json:"image_url"`
	IsCorrect bool    `json:"is_correct"`
}

func (s *QuizService) CreateOption(questionID uint, input OptionInput) (*models.Option, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("question: %w", ErrNotFound)
	}

	option := models.Option{
		QuestionID: questionID,
		Text:       input.Text,
		IsCorrect:  input.IsCorrect,
	}
	if input.ImageURL != nil {
		option.ImageURL = *input.ImageURL
	}
	if err := s.db.Create(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *QuizService) UpdateOption(optionID uint, input OptionInput) (*models.Option, error) {
	var option models.Option
	if err := s.db.First(&option, optionID).Error; err != nil {
		return nil, fmt.Errorf("option: %w", ErrNotFound)
	}

	option.Text = input.Text
	option.IsCorrect = input.IsCorrect
	if input.ImageURL != nil {
		option.ImageURL = *input.ImageURL
	}
	if err := s.db.Save(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *QuizService) DeleteOption(optionID uint) error {
	result := s.db.Delete(&models.Option{}, optionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("option: %w", ErrNotFound)
	}
	return nil
}

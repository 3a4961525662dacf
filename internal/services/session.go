package services

import (
	"fmt"
	"time"

	"github.com/whanarchyven/drsarha-conf/internal/models"
	"github.com/whanarchyven/drsarha-conf/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns the live quiz state machine. Sessions move
// waiting -> question (one per question, ascending order) -> finished, and
// every transition is driven by a scheduled advance, never by a client.
type SessionService struct {
	db  *gorm.DB
	hub *ws.Hub
	log *zap.Logger
}

func NewSessionService(db *gorm.DB, hub *ws.Hub, log *zap.Logger) *SessionService {
	return &SessionService{db: db, hub: hub, log: log}
}

// Start creates a fresh waiting session for the quiz. Any still-live prior
// session of the same quiz is force-finished, the quiz's delay is
// snapshotted onto the session, a lingering force-preview flag is cleared,
// and the first advance is scheduled at now + delay.
func (s *SessionService) Start(quizID uint) (*models.Session, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, fmt.Errorf("quiz: %w", ErrNotFound)
	}

	now := time.Now()
	session := models.Session{
		QuizID:               quizID,
		Status:               models.SessionStatusWaiting,
		StartedAt:            now,
		DelaySeconds:         quiz.DelaySeconds,
		CurrentQuestionIndex: -1,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("quiz_id = ? AND status IN ?", quizID,
				[]string{models.SessionStatusWaiting, models.SessionStatusQuestion}).
			Updates(map[string]interface{}{
				"status":      models.SessionStatusFinished,
				"finished_at": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		if quiz.ForcePreview {
			if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).
				Update("force_preview", false).Error; err != nil {
				return err
			}
		}
		return scheduleAdvance(tx, session.ID, now.Add(time.Duration(quiz.DelaySeconds)*time.Second))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session started",
		zap.Uint("session_id", session.ID),
		zap.Uint("quiz_id", quizID),
		zap.Int("delay_seconds", quiz.DelaySeconds))
	s.broadcast(quizID)
	return &session, nil
}

// Advance moves the session to its next phase. It is invoked only by the
// scheduler when a deadline fires. The session state is re-read here, so a
// late or duplicate event against a finished (or deleted) session is a
// no-op rather than an error.
func (s *SessionService) Advance(sessionID uint) error {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		// session gone (reset or quiz deleted); stale event
		return nil
	}
	if session.Status == models.SessionStatusFinished {
		return nil
	}

	var questions []models.Question
	if err := s.db.Where("quiz_id = ?", session.QuizID).
		Order("order_num ASC, id ASC").Find(&questions).Error; err != nil {
		return err
	}

	now := time.Now()
	nextIndex := 0
	if session.Status == models.SessionStatusQuestion {
		nextIndex = session.CurrentQuestionIndex + 1
	}

	if nextIndex >= len(questions) {
		if err := s.finish(session.ID, now); err != nil {
			return err
		}
		s.log.Info("session finished", zap.Uint("session_id", session.ID))
		s.broadcast(session.QuizID)
		return nil
	}

	question := questions[nextIndex]
	endsAt := now.Add(time.Duration(question.AnswerTimeSec) * time.Second)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"status":                 models.SessionStatusQuestion,
				"current_question_index": nextIndex,
				"current_question_id":    question.ID,
				"question_started_at":    now,
				"question_ends_at":       endsAt,
			}).Error; err != nil {
			return err
		}
		return scheduleAdvance(tx, session.ID, endsAt)
	})
	if err != nil {
		return err
	}

	s.log.Info("session advanced",
		zap.Uint("session_id", session.ID),
		zap.Int("question_index", nextIndex),
		zap.Uint("question_id", question.ID))
	s.broadcast(session.QuizID)
	return nil
}

func (s *SessionService) finish(sessionID uint, now time.Time) error {
	return s.db.Model(&models.Session{}).Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":      models.SessionStatusFinished,
			"finished_at": now,
		}).Error
}

func scheduleAdvance(tx *gorm.DB, sessionID uint, dueAt time.Time) error {
	return tx.Create(&models.ScheduledAdvance{SessionID: sessionID, DueAt: dueAt}).Error
}

func (s *SessionService) broadcast(quizID uint) {
	if s.hub == nil {
		return
	}
	view, err := s.PublicState(quizID, 0)
	if err != nil || view == nil {
		return
	}
	s.hub.Broadcast(quizID, ws.Message{Type: view.Status, Data: view})
}

// secondsLeft derives the remaining time from the absolute deadline,
// rounded up, clamped at zero. Displays re-attaching mid-phase get the
// correct value because nothing counts ticks.
func secondsLeft(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

type SessionView struct {
	SessionID   uint          `json:"session_id"`
	Status      string        `json:"status"`
	TimeLeftSec int           `json:"time_left_sec"`
	EndsAtMs    *int64        `json:"ends_at_ms,omitempty"`
	Quiz        QuizInfo      `json:"quiz"`
	Question    *QuestionView `json:"question,omitempty"`
	MyAnswer    *AnswerView   `json:"my_answer,omitempty"`
	Results     *ResultsView  `json:"results,omitempty"`
	Answers     []RecapEntry  `json:"answers,omitempty"`
}

type QuizInfo struct {
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	ImageURL     string                   `json:"image_url,omitempty"`
	DelaySeconds int                      `json:"delay_seconds"`
	ForcePreview bool                     `json:"force_preview,omitempty"`
	Product      *models.ProductPlacement `json:"product_placement,omitempty"`
}

// QuestionView is the participant-facing question shape. Options carry no
// correctness flags; those are never sent out before the phase ends.
type QuestionView struct {
	ID             uint         `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ImageURL       string       `json:"image_url,omitempty"`
	AllowsMultiple bool         `json:"allows_multiple"`
	AnswerTimeSec  int          `json:"answer_time_sec"`
	Options        []OptionView `json:"options"`
}

type OptionView struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

type AnswerView struct {
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	IsCorrect         bool   `json:"is_correct"`
}

type ResultsView struct {
	MyScore        int `json:"my_score"`
	TotalQuestions int `json:"total_questions"`
}

// RecapEntry pairs a question with its correct answer texts for the
// end-of-quiz recap screen.
type RecapEntry struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// PublicState is the per-quiz read model: the latest session of the quiz
// with derived countdown and, for an authenticated caller, their answer to
// the current question and their final score. Returns nil when the quiz has
// never been run.
func (s *SessionService) PublicState(quizID uint, userID uint) (*SessionView, error) {
	var session models.Session
	if err := s.db.Where("quiz_id = ?", quizID).Order("id DESC").First(&session).Error; err != nil {
		return nil, nil
	}
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		return nil, nil
	}
	if quiz.ForcePreview {
		return s.previewView(&session, &quiz), nil
	}
	return s.buildView(&session, &quiz, userID, false)
}

// previewView is the pinned "not started" screen: waiting status, no
// countdown, no question data, whatever the session is actually doing.
func (s *SessionService) previewView(session *models.Session, quiz *models.Quiz) *SessionView {
	return &SessionView{
		SessionID: session.ID,
		Status:    models.SessionStatusWaiting,
		Quiz:      s.quizInfo(quiz, true),
	}
}

// ActiveState is the show-display read model: the most relevant session
// across all quizzes (a running question phase wins over waiting, which
// wins over finished). When the quiz's force-preview flag is set, the view
// is pinned to a bare waiting screen regardless of actual session state.
func (s *SessionService) ActiveState(userID uint) (*SessionView, error) {
	var session models.Session
	found := false
	for _, status := range []string{
		models.SessionStatusQuestion,
		models.SessionStatusWaiting,
		models.SessionStatusFinished,
	} {
		if err := s.db.Where("status = ?", status).Order("id DESC").First(&session).Error; err == nil {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, session.QuizID).Error; err != nil {
		return nil, nil
	}

	if quiz.ForcePreview {
		return s.previewView(&session, &quiz), nil
	}
	return s.buildView(&session, &quiz, userID, true)
}

func (s *SessionService) quizInfo(quiz *models.Quiz, forcePreview bool) QuizInfo {
	info := QuizInfo{
		Title:        quiz.Title,
		Description:  quiz.Description,
		ImageURL:     quiz.ImageURL,
		DelaySeconds: quiz.DelaySeconds,
		ForcePreview: forcePreview,
	}
	if !quiz.Product.IsZero() {
		product := quiz.Product
		info.Product = &product
	}
	return info
}

func (s *SessionService) buildView(session *models.Session, quiz *models.Quiz, userID uint, recap bool) (*SessionView, error) {
	now := time.Now()
	view := &SessionView{
		SessionID: session.ID,
		Status:    session.Status,
		Quiz:      s.quizInfo(quiz, false),
	}

	switch session.Status {
	case models.SessionStatusWaiting:
		deadline := session.StartedAt.Add(time.Duration(session.DelaySeconds) * time.Second)
		ms := deadline.UnixMilli()
		view.EndsAtMs = &ms
		view.TimeLeftSec = secondsLeft(deadline, now)
	case models.SessionStatusQuestion:
		if session.QuestionEndsAt != nil {
			ms := session.QuestionEndsAt.UnixMilli()
			view.EndsAtMs = &ms
			view.TimeLeftSec = secondsLeft(*session.QuestionEndsAt, now)
		}
	}

	if session.Status == models.SessionStatusQuestion && session.CurrentQuestionID != nil {
		var question models.Question
		if err := s.db.Preload("Options").First(&question, *session.CurrentQuestionID).Error; err == nil {
			qv := &QuestionView{
				ID:             question.ID,
				Title:          question.Title,
				Description:    question.Description,
				ImageURL:       question.ImageURL,
				AllowsMultiple: question.AllowsMultiple,
				AnswerTimeSec:  question.AnswerTimeSec,
				Options:        make([]OptionView, 0, len(question.Options)),
			}
			for _, o := range question.Options {
				qv.Options = append(qv.Options, OptionView{ID: o.ID, Text: o.Text, ImageURL: o.ImageURL})
			}
			view.Question = qv
		}

		if userID != 0 {
			var answer models.Answer
			if err := s.db.Where("question_id = ? AND user_id = ?", *session.CurrentQuestionID, userID).
				First(&answer).Error; err == nil {
				view.MyAnswer = &AnswerView{
					SelectedOptionIDs: answer.SelectedOptionIDs,
					IsCorrect:         answer.IsCorrect,
				}
			}
		}
	}

	if session.Status == models.SessionStatusFinished {
		var total int64
		if err := s.db.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&total).Error; err != nil {
			return nil, err
		}
		results := &ResultsView{TotalQuestions: int(total)}
		if userID != 0 {
			var score models.Score
			if err := s.db.Where("session_id = ? AND user_id = ?", session.ID, userID).
				First(&score).Error; err == nil {
				results.MyScore = score.CorrectCount
			}
		}
		view.Results = results

		if recap {
			var questions []models.Question
			if err := s.db.Where("quiz_id = ?", quiz.ID).
				Order("order_num ASC, id ASC").Preload("Options").Find(&questions).Error; err != nil {
				return nil, err
			}
			for _, q := range questions {
				entry := RecapEntry{Question: q.Title, Answers: []string{}}
				for _, o := range q.Options {
					if o.IsCorrect {
						entry.Answers = append(entry.Answers, o.Text)
					}
				}
				view.Answers = append(view.Answers, entry)
			}
		}
	}

	return view, nil
}

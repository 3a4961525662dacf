package services

import (
	"errors"
	"fmt"

	"github.com/whanarchyven/drsarha-conf/internal/models"

	"gorm.io/gorm"
)

// DisplayService backs the chat screen chrome: the promo phrase carousel,
// its timing settings and one-time announcements.
type DisplayService struct {
	db *gorm.DB
}

func NewDisplayService(db *gorm.DB) *DisplayService {
	return &DisplayService{db: db}
}

func (s *DisplayService) ListPhrases(visibleOnly bool) ([]models.ChatPhrase, error) {
	query := s.db.Order("order_num ASC, id ASC")
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}
	var phrases []models.ChatPhrase
	err := query.Find(&phrases).Error
	return phrases, err
}

type PhraseInput struct {
	Text       string `json:"text" binding:"required"`
	Visible    *bool  `json:"visible"`
	DurationMs int    `json:"duration_ms"`
	OrderNum   int    `json:"order_num"`
}

func (s *DisplayService) CreatePhrase(input PhraseInput) (*models.ChatPhrase, error) {
	phrase := models.ChatPhrase{
		Text:       input.Text,
		Visible:    true,
		DurationMs: input.DurationMs,
		OrderNum:   input.OrderNum,
	}
	if input.Visible != nil {
		phrase.Visible = *input.Visible
	}
	if err := s.db.Create(&phrase).Error; err != nil {
		return nil, err
	}
	return &phrase, nil
}

func (s *DisplayService) UpdatePhrase(id uint, input PhraseInput) (*models.ChatPhrase, error) {
	var phrase models.ChatPhrase
	if err := s.db.First(&phrase, id).Error; err != nil {
		return nil, fmt.Errorf("phrase: %w", ErrNotFound)
	}
	phrase.Text = input.Text
	phrase.DurationMs = input.DurationMs
	phrase.OrderNum = input.OrderNum
	if input.Visible != nil {
		phrase.Visible = *input.Visible
	}
	if err := s.db.Save(&phrase).Error; err != nil {
		return nil, err
	}
	return &phrase, nil
}

func (s *DisplayService) DeletePhrase(id uint) error {
	result := s.db.Delete(&models.ChatPhrase{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("phrase: %w", ErrNotFound)
	}
	return nil
}

// Settings returns the singleton row, materializing defaults on first read.
func (s *DisplayService) Settings() (*models.ChatSettings, error) {
	var settings models.ChatSettings
	err := s.db.First(&settings, models.ChatSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ChatSettings{ID: models.ChatSettingsID, IntervalMs: 5000}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type SettingsInput struct {
	IntervalMs *int  `json:"interval_ms"`
	Randomize  *bool `json:"randomize"`
}

func (s *DisplayService) UpdateSettings(input SettingsInput) (*models.ChatSettings, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	if input.IntervalMs != nil {
		settings.IntervalMs = *input.IntervalMs
	}
	if input.Randomize != nil {
		settings.Randomize = *input.Randomize
	}
	if err := s.db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *DisplayService) Announce(text string, durationMs int) (*models.ChatAnnouncement, error) {
	ann := models.ChatAnnouncement{Text: text, DurationMs: durationMs}
	if err := s.db.Create(&ann).Error; err != nil {
		return nil, err
	}
	return &ann, nil
}

// NextAnnouncement pops the oldest pending announcement, or returns nil
// when the queue is empty. Pop and read happen in one transaction so each
// announcement is shown at most once.
func (s *DisplayService) NextAnnouncement() (*models.ChatAnnouncement, error) {
	var ann models.ChatAnnouncement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").First(&ann).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatAnnouncement{}, ann.ID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ann, nil
}

package services

import (
	"github.com/whanarchyven/drsarha-conf/internal/models"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

type LeaderboardEntry struct {
	UserID       uint   `json:"user_id"`
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	CorrectCount int    `json:"correct_count"`
	Place        int    `json:"place"`
}

// Rank orders session scores by correct count descending; ties go to the
// score record created first. Purely a stable ordering, not a speed bonus.
func (s *LeaderboardService) Rank(sessionID uint, limit int) ([]LeaderboardEntry, error) {
	var scores []models.Score
	query := s.db.Where("session_id = ?", sessionID).
		Order("correct_count DESC, created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scores).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		entry := LeaderboardEntry{
			UserID:       score.UserID,
			CorrectCount: score.CorrectCount,
			Place:        i + 1,
		}
		var user models.User
		if err := s.db.First(&user, score.UserID).Error; err == nil {
			entry.FullName = user.FullName
			entry.Email = user.Email
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

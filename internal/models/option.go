package models

type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	ImageURL   string `gorm:"size:500" json:"image_url,omitempty"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}

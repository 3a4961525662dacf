package models

type Question struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	QuizID         uint     `gorm:"not null;index:idx_question_quiz_order" json:"quiz_id"`
	Title          string   `gorm:"type:text;not null" json:"title"`
	Description    string   `gorm:"type:text" json:"description"`
	ImageURL       string   `gorm:"size:500" json:"image_url,omitempty"`
	AnswerTimeSec  int      `gorm:"not null" json:"answer_time_sec"`
	AllowsMultiple bool     `gorm:"not null;default:false" json:"allows_multiple"`
	OrderNum       int      `gorm:"not null;index:idx_question_quiz_order" json:"order_num"`
	Options        []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

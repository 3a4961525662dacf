package models

import "time"

// ChatPhrase is one entry of the promo phrase carousel on the chat screen.
type ChatPhrase struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Visible    bool   `gorm:"not null;default:true" json:"visible"`
	DurationMs int    `gorm:"not null" json:"duration_ms"`
	OrderNum   int    `gorm:"not null;default:0" json:"order_num"`
}

// ChatSettings is a singleton row; ChatSettingsID is the only valid key.
type ChatSettings struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	IntervalMs int  `gorm:"not null" json:"interval_ms"`
	Randomize  bool `gorm:"not null;default:false" json:"randomize"`
}

const ChatSettingsID uint = 1

// ChatAnnouncement is a one-time display message, consumed FIFO.
type ChatAnnouncement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	DurationMs int       `gorm:"not null" json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

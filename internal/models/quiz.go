package models

import "time"

// ProductPlacement is an optional sponsor block shown on the quiz screens.
type ProductPlacement struct {
	Name        string `gorm:"size:255" json:"name,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	LogoURL     string `gorm:"size:500" json:"logo_url,omitempty"`
	ImageURL    string `gorm:"size:500" json:"image_url,omitempty"`
}

func (p ProductPlacement) IsZero() bool {
	return p.Name == "" && p.Description == "" && p.LogoURL == "" && p.ImageURL == ""
}

type Quiz struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	ImageURL     string           `gorm:"size:500" json:"image_url,omitempty"`
	DelaySeconds int              `gorm:"not null;default:0" json:"delay_seconds"`
	ForcePreview bool             `gorm:"not null;default:false" json:"force_preview"`
	Product      ProductPlacement `gorm:"embedded;embeddedPrefix:product_" json:"product_placement"`
	CreatedBy    uint             `gorm:"index" json:"created_by,omitempty"`
	Questions    []Question       `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

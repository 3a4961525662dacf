package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	FullName       string    `gorm:"size:255" json:"full_name,omitempty"`
	Specialization string    `gorm:"size:255" json:"specialization,omitempty"`
	Role           string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

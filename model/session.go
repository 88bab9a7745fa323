package model

import (
	"time"

	"gorm.io/gorm"
)

type Session struct {
	gorm.Model
	UserID       uint      `gorm:"index" json:"user_id"`
	SessionToken string    `gorm:"type:varchar(512);index" json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClientIP     string    `gorm:"type:varchar(64)" json:"client_ip"`
	Browser      string    `gorm:"type:varchar(255)" json:"browser"`
}

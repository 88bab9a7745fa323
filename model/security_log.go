package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog persists security and endpoint audit events.
type SecurityLog struct {
	gorm.Model
	EventType string         `gorm:"type:varchar(64);index" json:"event_type"`
	UserID    string         `gorm:"type:varchar(32)" json:"user_id"`
	Email     string         `gorm:"type:varchar(191)" json:"email"`
	IP        string         `gorm:"type:varchar(64)" json:"ip"`
	UserAgent string         `gorm:"type:varchar(255)" json:"user_agent"`
	Message   string         `gorm:"type:varchar(255)" json:"message"`
	Details   datatypes.JSON `json:"details"`
}

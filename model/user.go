package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name           string `gorm:"type:varchar(191);not null" json:"name"`
	Email          string `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	Password       string `gorm:"type:varchar(255);not null" json:"-"`
	PasswordSalt   string `gorm:"type:varchar(64)" json:"-"`
	RoleID         uint32 `json:"role_id"`
	FailedAttempts int    `json:"-"`
	LockedUntil    *int64 `json:"-"`
}

package model

import "gorm.io/gorm"

// Report records one generated PDF for an account. The PDF itself is
// streamed to the client; ReportPath points at the copy written to the
// configured report directory, and may be empty if that write failed.
type Report struct {
	gorm.Model
	UserID     uint   `gorm:"index" json:"user_id"`
	Email      string `gorm:"type:varchar(191)" json:"email"`
	Prediction string `gorm:"type:varchar(191)" json:"prediction"`
	ReportPath string `gorm:"type:varchar(255)" json:"report_path"`
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"
)

// StringList is an ordered list of strings stored as a JSON column.
// Order is preserved exactly as seeded; the report generator relies on it.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	if len(b) == 0 {
		*s = StringList{}
		return nil
	}
	return json.Unmarshal(b, s)
}

// Disease represents a skin condition reference record
// @Description Skin condition reference information
type Disease struct {
	gorm.Model
	Name        string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"name" example:"Eczema"`
	Description string     `gorm:"type:text" json:"description" example:"A condition that makes skin red and itchy"`
	Image       StringList `gorm:"type:json" json:"image"`
	Prevention  StringList `gorm:"type:json" json:"prevention"`
	Treatment   StringList `gorm:"type:json" json:"treatment"`
	Diet        StringList `gorm:"type:json" json:"diet"`
}

// SeedDiseases loads disease records from a JSON file and inserts any that
// are not already present, matched by name. Records are administered out of
// band; the API never writes to this table.
func SeedDiseases(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read disease seed file: %w", err)
	}
	var diseases []Disease
	if err := json.Unmarshal(data, &diseases); err != nil {
		return fmt.Errorf("failed to parse disease seed file: %w", err)
	}

	for _, d := range diseases {
		var existing Disease
		err := db.Where("name = ?", d.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&d).Error; err != nil {
			return fmt.Errorf("failed to seed disease %s: %w", d.Name, err)
		}
	}
	return nil
}

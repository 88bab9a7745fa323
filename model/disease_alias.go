package model

import (
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"
)

// DiseaseAlias maps an external classifier output label to a stored disease
// name. The classifier's label vocabulary is a versioned contract with the
// disease table; aliases absorb vocabulary changes without renaming records.
type DiseaseAlias struct {
	gorm.Model
	Label       string `gorm:"type:varchar(191);uniqueIndex;not null" json:"label" example:"Eczema Photos"`
	DiseaseName string `gorm:"type:varchar(191);not null" json:"disease_name" example:"Eczema"`
}

// SeedDiseaseAliases loads label-to-name mappings from a JSON file,
// inserting any alias not already present.
func SeedDiseaseAliases(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read alias seed file: %w", err)
	}
	var aliases []DiseaseAlias
	if err := json.Unmarshal(data, &aliases); err != nil {
		return fmt.Errorf("failed to parse alias seed file: %w", err)
	}

	for _, a := range aliases {
		var existing DiseaseAlias
		err := db.Where("label = ?", a.Label).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&a).Error; err != nil {
			return fmt.Errorf("failed to seed alias %s: %w", a.Label, err)
		}
	}
	return nil
}

package model

import (
	"fmt"

	"gorm.io/gorm"
)

type Role struct {
	gorm.Model
	ID   uint32 `gorm:"primary_key;auto_increment" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

// Role names seeded at startup. Patients and doctors are the two signup
// roles; Admin exists for out-of-band administration only.
const (
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
	RoleAdmin   = "Admin"
)

func SeedRoles(db *gorm.DB) error {
	roles := []Role{
		{Name: RolePatient},
		{Name: RoleDoctor},
		{Name: RoleAdmin},
	}

	for _, role := range roles {
		var existingRole Role
		// Check if the role already exists.
		err := db.Where("name = ?", role.Name).First(&existingRole).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		// Create the role if not found.
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}
	}
	return nil
}

// RoleIDByName resolves a role name to its seeded ID.
func RoleIDByName(db *gorm.DB, name string) (uint32, error) {
	var role Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		return 0, err
	}
	return role.ID, nil
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserModel_Create(t *testing.T) {
	db := setupTestDB(t, "user_create", &User{})

	user := User{
		Name:         "John Doe",
		Email:        "john@example.com",
		Password:     "argon2id$1$65536$4$somehash",
		PasswordSalt: "c29tZXNhbHQ=",
		RoleID:       1,
	}

	err := db.Create(&user).Error
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestUserModel_UniqueEmail(t *testing.T) {
	db := setupTestDB(t, "user_unique", &User{})

	assert.NoError(t, db.Create(&User{Name: "A", Email: "dup@example.com", Password: "x"}).Error)
	err := db.Create(&User{Name: "B", Email: "dup@example.com", Password: "y"}).Error
	assert.Error(t, err)
}

func TestUserModel_LockoutFields(t *testing.T) {
	db := setupTestDB(t, "user_lockout", &User{})

	lockUntil := time.Now().Add(15 * time.Minute).Unix()
	user := User{
		Name:           "Locked User",
		Email:          "locked@example.com",
		Password:       "x",
		FailedAttempts: 5,
		LockedUntil:    &lockUntil,
	}
	assert.NoError(t, db.Create(&user).Error)

	var found User
	assert.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, 5, found.FailedAttempts)
	if assert.NotNil(t, found.LockedUntil) {
		assert.Equal(t, lockUntil, *found.LockedUntil)
	}
}

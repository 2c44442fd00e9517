package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User — владелец записей хранилища.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Login        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

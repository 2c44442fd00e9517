package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag — пользовательская метка, связана с Credential через credential_tags.
type Tag struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Color       *string
	ContainerID *string `gorm:"size:36;index"`
	UserID      *string `gorm:"size:36;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Container — пользовательская группа для секретов и учётных записей.
type Container struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Icon        string `gorm:"not null"`
	Description *string
	Type        ContainerType `gorm:"not null"`
	UserID      string        `gorm:"size:36;not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (c *Container) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform — внешний сервис, к которому относится секрет или учётная запись.
// UserID == nil означает глобальную платформу, видимую всем.
type Platform struct {
	ID       string `gorm:"primaryKey;size:36"`
	Name     string `gorm:"not null;index"`
	Logo     *string
	LoginURL *string
	Status   PlatformStatus `gorm:"not null"`
	UserID   *string        `gorm:"size:36;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (p *Platform) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Secret — серверная модель секрета (API-ключ, переменная окружения и т.п.).
// Значение хранится только в виде конверта ValueEncryption.
type Secret struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Description *string
	Type        SecretType   `gorm:"not null"`
	Status      SecretStatus `gorm:"not null"`
	ExpiresAt   *time.Time

	ValueEncryptionID string         `gorm:"size:36;not null;uniqueIndex"`
	ValueEncryption   *EncryptedData `gorm:"foreignKey:ValueEncryptionID"`

	PlatformID  string  `gorm:"size:36;not null;index"`
	ContainerID *string `gorm:"size:36;index"`
	UserID      string  `gorm:"size:36;not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (s *Secret) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sealed — тройка шифртекст + экспортированный ключ + IV.
type Sealed struct {
	Ciphertext    string `gorm:"not null"`
	EncryptionKey string `gorm:"not null"`
	IV            string `gorm:"not null"`
}

// Complete сообщает, что все три поля заполнены.
func (s Sealed) Complete() bool {
	return s.Ciphertext != "" && s.EncryptionKey != "" && s.IV != ""
}

// EncryptedData — конверт шифрования. Принадлежит ровно одной записи
// Secret или Credential и не изменяется: ротация создаёт новый конверт.
type EncryptedData struct {
	ID     string `gorm:"primaryKey;size:36"`
	Sealed `gorm:"embedded"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName фиксирует имя таблицы (gorm иначе построит "encrypted_data").
func (EncryptedData) TableName() string { return "encrypted_data" }

func (e *EncryptedData) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential — логин/пароль к платформе. Пароль хранится в конверте PasswordEncryption.
type Credential struct {
	ID          string        `gorm:"primaryKey;size:36"`
	Username    string        `gorm:"not null"`
	Status      AccountStatus `gorm:"not null"`
	Description *string
	LoginURL    *string
	LastViewed  *time.Time

	PasswordEncryptionID string         `gorm:"size:36;not null;uniqueIndex"`
	PasswordEncryption   *EncryptedData `gorm:"foreignKey:PasswordEncryptionID"`

	PlatformID  string  `gorm:"size:36;not null;index"`
	ContainerID *string `gorm:"size:36;index"`
	UserID      string  `gorm:"size:36;not null;index"`

	Tags     []Tag               `gorm:"many2many:credential_tags"`
	Metadata *CredentialMetadata `gorm:"foreignKey:CredentialID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (c *Credential) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CredentialMetadata — дополнительные сведения об учётной записи (1:1).
type CredentialMetadata struct {
	ID            string `gorm:"primaryKey;size:36"`
	RecoveryEmail *string
	AccountID     *string
	IBAN          *string
	BankName      *string
	OtherInfo     *string
	Has2FA        bool   `gorm:"column:has_2fa;not null"`
	CredentialID  string `gorm:"size:36;not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName фиксирует имя таблицы (иначе gorm построит "credential_metadata").
func (CredentialMetadata) TableName() string { return "credential_metadata" }

func (m *CredentialMetadata) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// CredentialHistory — запись журнала смены пароля. Только добавляется.
type CredentialHistory struct {
	ID           string `gorm:"primaryKey;size:36"`
	CredentialID string `gorm:"size:36;not null;index"`
	UserID       string `gorm:"size:36;not null;index"`

	Old Sealed `gorm:"embedded;embeddedPrefix:old_"`
	New Sealed `gorm:"embedded;embeddedPrefix:new_"`

	ChangedAt time.Time `gorm:"not null"`
}

// TableName фиксирует имя таблицы.
func (CredentialHistory) TableName() string { return "credential_history" }

func (h *CredentialHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// All — все модели для AutoMigrate, в порядке зависимостей.
func All() []any {
	return []any{
		&User{}, &EncryptedData{}, &Platform{}, &Container{}, &Tag{},
		&Secret{}, &Credential{}, &CredentialMetadata{}, &CredentialHistory{},
	}
}

package repo

import (
	"context"

	"GophVault/internal/model"

	"gorm.io/gorm"
)

const credentialTags = "credential_tags"

// Store — точка доступа ко всем таблицам хранилища поверх одного соединения
// или одной транзакции.
type Store struct {
	db *gorm.DB
}

// NewStore создаёт Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB возвращает текущее соединение (или транзакцию).
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction выполняет fn в транзакции. Ошибка fn откатывает все изменения.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Users() Table[model.User] { return NewTable[model.User](s.db) }
func (s *Store) Envelopes() Table[model.EncryptedData] { return NewTable[model.EncryptedData](s.db) }
func (s *Store) Platforms() Table[model.Platform] { return NewTable[model.Platform](s.db) }
func (s *Store) Containers() Table[model.Container] { return NewTable[model.Container](s.db) }
func (s *Store) Tags() Table[model.Tag] { return NewTable[model.Tag](s.db) }
func (s *Store) Secrets() Table[model.Secret] { return NewTable[model.Secret](s.db) }
func (s *Store) Credentials() Table[model.Credential] { return NewTable[model.Credential](s.db) }
func (s *Store) Metadata() Table[model.CredentialMetadata] { return NewTable[model.CredentialMetadata](s.db) }
func (s *Store) History() Table[model.CredentialHistory] { return NewTable[model.CredentialHistory](s.db) }

// ReplaceCredentialTags заменяет набор меток учётной записи.
// Пустой tagIDs снимает все метки.
func (s *Store) ReplaceCredentialTags(ctx context.Context, credentialID string, tagIDs []string) error {
	if err := s.ClearCredentialTags(ctx, credentialID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"credential_id": credentialID, "tag_id": id})
	}
	return s.db.WithContext(ctx).Table(credentialTags).Create(&rows).Error
}

// ClearCredentialTags удаляет все связи учётной записи с метками.
func (s *Store) ClearCredentialTags(ctx context.Context, credentialID string) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM "+credentialTags+" WHERE credential_id = ?", credentialID).Error
}

// DetachTag удаляет метку из всех учётных записей.
func (s *Store) DetachTag(ctx context.Context, tagID string) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM "+credentialTags+" WHERE tag_id = ?", tagID).Error
}

// Package entity преобразует сохранённые записи в формы ответа (Ro).
// Функции чистые: одна и та же запись всегда даёт один и тот же результат.
package entity

import (
	"GophVault/internal/model"
	"GophVault/internal/schema"
)

// Secret — секрет с поднятыми полями конверта. Конверт должен быть подгружен.
func Secret(s *model.Secret) schema.SecretRo {
	var env model.Sealed
	if s.ValueEncryption != nil {
		env = s.ValueEncryption.Sealed
	}
	return schema.SecretRo{
		ID:            s.ID,
		Name:          s.Name,
		Value:         env.Ciphertext,
		EncryptionKey: env.EncryptionKey,
		IV:            env.IV,
		Description:   s.Description,
		Type:          s.Type,
		Status:        s.Status,
		ExpiresAt:     s.ExpiresAt,
		PlatformID:    s.PlatformID,
		ContainerID:   s.ContainerID,
		UserID:        s.UserID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Credential — учётная запись; связи с метками сводятся к списку id.
func Credential(c *model.Credential) schema.CredentialRo {
	var env model.Sealed
	if c.PasswordEncryption != nil {
		env = c.PasswordEncryption.Sealed
	}
	tagIDs := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	return schema.CredentialRo{
		ID:            c.ID,
		Username:      c.Username,
		Password:      env.Ciphertext,
		EncryptionKey: env.EncryptionKey,
		IV:            env.IV,
		Status:        c.Status,
		Description:   c.Description,
		LoginURL:      c.LoginURL,
		LastViewed:    c.LastViewed,
		PlatformID:    c.PlatformID,
		ContainerID:   c.ContainerID,
		UserID:        c.UserID,
		TagIDs:        tagIDs,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func CredentialMetadata(m *model.CredentialMetadata) schema.CredentialMetadataRo {
	return schema.CredentialMetadataRo{
		ID:            m.ID,
		RecoveryEmail: m.RecoveryEmail,
		AccountID:     m.AccountID,
		IBAN:          m.IBAN,
		BankName:      m.BankName,
		OtherInfo:     m.OtherInfo,
		Has2FA:        m.Has2FA,
		CredentialID:  m.CredentialID,
	}
}

func CredentialHistory(h *model.CredentialHistory) schema.CredentialHistoryRo {
	return schema.CredentialHistoryRo{
		ID:               h.ID,
		OldPassword:      h.Old.Ciphertext,
		OldEncryptionKey: h.Old.EncryptionKey,
		OldIV:            h.Old.IV,
		NewPassword:      h.New.Ciphertext,
		EncryptionKey:    h.New.EncryptionKey,
		IV:               h.New.IV,
		ChangedAt:        h.ChangedAt,
		UserID:           h.UserID,
		CredentialID:     h.CredentialID,
	}
}

func Container(c *model.Container) schema.ContainerRo {
	return schema.ContainerRo{
		ID:          c.ID,
		Name:        c.Name,
		Icon:        c.Icon,
		Description: c.Description,
		Type:        c.Type,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func Platform(p *model.Platform) schema.PlatformRo {
	return schema.PlatformRo{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Logo:      p.Logo,
		LoginURL:  p.LoginURL,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func Tag(t *model.Tag) schema.TagRo {
	return schema.TagRo{
		ID:          t.ID,
		Name:        t.Name,
		Color:       t.Color,
		UserID:      t.UserID,
		ContainerID: t.ContainerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Map применяет проекцию к каждой записи списка.
func Map[M any, R any](recs []M, project func(*M) R) []R {
	out := make([]R, 0, len(recs))
	for i := range recs {
		out = append(out, project(&recs[i]))
	}
	return out
}

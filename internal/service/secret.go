package service

import (
	"context"
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"
	"GophVault/internal/entity"
	"GophVault/internal/model"
	"GophVault/internal/repo"
	"GophVault/internal/schema"

	"go.uber.org/zap"
)

// SecretService — операции над секретами пользователя.
type SecretService struct {
	base
}

func NewSecretService(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *SecretService {
	return &SecretService{base: newBase(store, logger, opts)}
}

// Create создаёт секрет вместе с его конвертом в одной транзакции.
func (s *SecretService) Create(ctx context.Context, caller auth.Identity, dto schema.SecretDto) (schema.SecretRo, error) {
	if err := guard(caller); err != nil {
		return schema.SecretRo{}, err
	}
	dto.Normalize()
	if err := invalid(dto.Validate()); err != nil {
		return schema.SecretRo{}, err
	}

	sealed, err := seal(dto.Value, dto.EncryptionKey, dto.IV)
	if err != nil {
		return schema.SecretRo{}, s.fail("create secret", caller, "Secret", err)
	}

	rec := &model.Secret{
		Name:        dto.Name,
		Description: dto.Description,
		Type:        dto.Type,
		Status:      dto.Status,
		ExpiresAt:   schema.ParseTime(dto.ExpiresAt),
		PlatformID:  dto.PlatformID,
		ContainerID: dto.ContainerID,
		UserID:      caller.UserID,
	}
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := requirePlatform(ctx, tx, caller, dto.PlatformID); err != nil {
			return err
		}
		if err := requireContainer(ctx, tx, caller, dto.ContainerID); err != nil {
			return err
		}
		env := &model.EncryptedData{Sealed: sealed}
		if err := tx.Envelopes().Create(ctx, env); err != nil {
			return err
		}
		rec.ValueEncryptionID = env.ID
		rec.ValueEncryption = env
		return tx.Secrets().Create(ctx, rec)
	})
	if err != nil {
		return schema.SecretRo{}, s.fail("create secret", caller, "Secret", err)
	}
	return entity.Secret(rec), nil
}

// GetByID возвращает секрет вызывающего. Чужой секрет неотличим от отсутствующего.
func (s *SecretService) GetByID(ctx context.Context, caller auth.Identity, id string) (schema.SecretRo, error) {
	if err := guard(caller); err != nil {
		return schema.SecretRo{}, err
	}
	rec, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.SecretRo{}, s.fail("get secret", caller, "Secret", err)
	}
	return entity.Secret(rec), nil
}

func (s *SecretService) find(ctx context.Context, st *repo.Store, caller auth.Identity, id string) (*model.Secret, error) {
	return st.Secrets().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID), repo.Preload("ValueEncryption"))
}

// Update меняет только переданные поля. Новое значение заменяет конверт целиком.
func (s *SecretService) Update(ctx context.Context, caller auth.Identity, id string, patch schema.SecretPatch) (schema.SecretRo, error) {
	if err := guard(caller); err != nil {
		return schema.SecretRo{}, err
	}
	current, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.SecretRo{}, s.fail("update secret", caller, "Secret", err)
	}
	if err := invalid(patch.Validate()); err != nil {
		return schema.SecretRo{}, err
	}

	var sealed model.Sealed
	if patch.Rotates() {
		if sealed, err = seal(patch.Value.Value, optPtr(patch.EncryptionKey), optPtr(patch.IV)); err != nil {
			return schema.SecretRo{}, s.fail("update secret", caller, "Secret", err)
		}
	}

	var updated *model.Secret
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if patch.PlatformID.Present() {
			if err := requirePlatform(ctx, tx, caller, patch.PlatformID.Value); err != nil {
				return err
			}
		}
		if err := requireContainer(ctx, tx, caller, optPtr(patch.ContainerID)); err != nil {
			return err
		}

		cols := patch.Columns()
		cols["updated_at"] = time.Now().UTC()
		if patch.Rotates() {
			env := &model.EncryptedData{Sealed: sealed}
			if err := tx.Envelopes().Create(ctx, env); err != nil {
				return err
			}
			cols["value_encryption_id"] = env.ID
		}
		if err := tx.Secrets().Update(ctx, cols, repo.ByID(id), repo.OwnedBy(caller.UserID)); err != nil {
			return err
		}
		if patch.Rotates() {
			if _, err := tx.Envelopes().Delete(ctx, repo.ByID(current.ValueEncryptionID)); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.find(ctx, tx, caller, id)
		return err
	})
	if err != nil {
		return schema.SecretRo{}, s.fail("update secret", caller, "Secret", err)
	}
	return entity.Secret(updated), nil
}

// Delete удаляет секрет и его конверт.
func (s *SecretService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rec, err := tx.Secrets().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
		if err != nil {
			return err
		}
		if _, err := tx.Secrets().Delete(ctx, repo.ByID(rec.ID)); err != nil {
			return err
		}
		_, err = tx.Envelopes().Delete(ctx, repo.ByID(rec.ValueEncryptionID))
		return err
	})
	return s.fail("delete secret", caller, "Secret", err)
}

// List возвращает страницу секретов вызывающего, новые первыми.
func (s *SecretService) List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter schema.SecretFilter) (Page[schema.SecretRo], error) {
	if err := guard(caller); err != nil {
		return Page[schema.SecretRo]{}, err
	}
	params, err := s.listParams(params, filter.Validate())
	if err != nil {
		return Page[schema.SecretRo]{}, err
	}
	where := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(filter.Columns())}
	page, err := list(ctx, s.store.Secrets(), where, params, entity.Secret, "ValueEncryption")
	if err != nil {
		return Page[schema.SecretRo]{}, s.fail("list secrets", caller, "Secret", err)
	}
	return page, nil
}

// Reveal расшифровывает значение секрета. Работает только для конвертов,
// ключ которых хранится вместе с шифртекстом.
func (s *SecretService) Reveal(ctx context.Context, caller auth.Identity, id string) (schema.RevealedRo, error) {
	if err := guard(caller); err != nil {
		return schema.RevealedRo{}, err
	}
	rec, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.RevealedRo{}, s.fail("reveal secret", caller, "Secret", err)
	}
	if rec.ValueEncryption == nil {
		return schema.RevealedRo{}, s.fail("reveal secret", caller, "Secret", apperr.NotFound("Secret"))
	}
	plain, err := open(rec.ValueEncryption.Sealed)
	if err != nil {
		return schema.RevealedRo{}, s.fail("reveal secret", caller, "Secret", err)
	}
	return schema.RevealedRo{ID: rec.ID, Value: plain}, nil
}

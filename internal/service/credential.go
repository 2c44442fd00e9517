package service

import (
	"context"
	"errors"
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"
	"GophVault/internal/entity"
	"GophVault/internal/model"
	"GophVault/internal/repo"
	"GophVault/internal/schema"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CredentialService — операции над учётными записями, их метаданными и историей паролей.
type CredentialService struct {
	base
}

func NewCredentialService(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *CredentialService {
	return &CredentialService{base: newBase(store, logger, opts)}
}

// Create создаёт учётную запись с конвертом пароля и метками.
func (s *CredentialService) Create(ctx context.Context, caller auth.Identity, dto schema.CredentialDto) (schema.CredentialRo, error) {
	ro, _, err := s.create(ctx, caller, dto, nil)
	return ro, err
}

// CreateWithMetadata создаёт учётную запись и, если переданы, её метаданные.
// Обе вставки выполняются в одной транзакции.
func (s *CredentialService) CreateWithMetadata(ctx context.Context, caller auth.Identity, dto schema.CredentialDto, meta *schema.CredentialMetadataDto) (schema.CredentialRo, *schema.CredentialMetadataRo, error) {
	return s.create(ctx, caller, dto, meta)
}

func (s *CredentialService) create(ctx context.Context, caller auth.Identity, dto schema.CredentialDto, meta *schema.CredentialMetadataDto) (schema.CredentialRo, *schema.CredentialMetadataRo, error) {
	if err := guard(caller); err != nil {
		return schema.CredentialRo{}, nil, err
	}
	dto.Normalize()
	is := dto.Validate()
	if meta != nil {
		meta.Normalize()
		for _, i := range meta.Validate() {
			is.Add("metadata."+i.Path, i.Message)
		}
	}
	if err := invalid(is); err != nil {
		return schema.CredentialRo{}, nil, err
	}

	sealed, err := seal(dto.Password, dto.EncryptionKey, dto.IV)
	if err != nil {
		return schema.CredentialRo{}, nil, s.fail("create credential", caller, "Credential", err)
	}

	rec := &model.Credential{
		Username:    dto.Username,
		Status:      dto.Status,
		Description: dto.Description,
		LoginURL:    dto.LoginURL,
		PlatformID:  dto.PlatformID,
		ContainerID: dto.ContainerID,
		UserID:      caller.UserID,
	}
	var metaRec *model.CredentialMetadata
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := requirePlatform(ctx, tx, caller, dto.PlatformID); err != nil {
			return err
		}
		if err := requireContainer(ctx, tx, caller, dto.ContainerID); err != nil {
			return err
		}
		tags, err := ownedTags(ctx, tx, caller, dto.Tags)
		if err != nil {
			return err
		}

		env := &model.EncryptedData{Sealed: sealed}
		if err := tx.Envelopes().Create(ctx, env); err != nil {
			return err
		}
		rec.PasswordEncryptionID = env.ID
		rec.PasswordEncryption = env
		if err := tx.Credentials().Create(ctx, rec); err != nil {
			return err
		}
		if err := tx.ReplaceCredentialTags(ctx, rec.ID, dto.Tags); err != nil {
			return err
		}
		rec.Tags = tags

		if meta != nil {
			metaRec = metadataRecord(rec.ID, meta)
			return tx.Metadata().Create(ctx, metaRec)
		}
		return nil
	})
	if err != nil {
		return schema.CredentialRo{}, nil, s.fail("create credential", caller, "Credential", err)
	}

	ro := entity.Credential(rec)
	if metaRec == nil {
		return ro, nil, nil
	}
	metaRo := entity.CredentialMetadata(metaRec)
	return ro, &metaRo, nil
}

func tagIDs(tags []model.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func metadataRecord(credentialID string, d *schema.CredentialMetadataDto) *model.CredentialMetadata {
	return &model.CredentialMetadata{
		RecoveryEmail: d.RecoveryEmail,
		AccountID:     d.AccountID,
		IBAN:          d.IBAN,
		BankName:      d.BankName,
		OtherInfo:     d.OtherInfo,
		Has2FA:        d.Has2FA != nil && *d.Has2FA,
		CredentialID:  credentialID,
	}
}

func (s *CredentialService) find(ctx context.Context, st *repo.Store, caller auth.Identity, id string) (*model.Credential, error) {
	return st.Credentials().FindFirst(ctx,
		repo.ByID(id), repo.OwnedBy(caller.UserID),
		repo.Preload("PasswordEncryption", "Tags"),
	)
}

// GetByID возвращает учётную запись вызывающего.
func (s *CredentialService) GetByID(ctx context.Context, caller auth.Identity, id string) (schema.CredentialRo, error) {
	if err := guard(caller); err != nil {
		return schema.CredentialRo{}, err
	}
	rec, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.CredentialRo{}, s.fail("get credential", caller, "Credential", err)
	}
	return entity.Credential(rec), nil
}

// Update меняет переданные поля. Новый пароль заменяет конверт и
// добавляет запись в историю с прежней и новой тройками.
func (s *CredentialService) Update(ctx context.Context, caller auth.Identity, id string, patch schema.CredentialPatch) (schema.CredentialRo, error) {
	if err := guard(caller); err != nil {
		return schema.CredentialRo{}, err
	}
	current, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.CredentialRo{}, s.fail("update credential", caller, "Credential", err)
	}
	if err := invalid(patch.Validate()); err != nil {
		return schema.CredentialRo{}, err
	}

	var sealed model.Sealed
	if patch.Rotates() {
		if sealed, err = seal(patch.Password.Value, optPtr(patch.EncryptionKey), optPtr(patch.IV)); err != nil {
			return schema.CredentialRo{}, s.fail("update credential", caller, "Credential", err)
		}
	}

	var updated *model.Credential
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if patch.PlatformID.Present() {
			if err := requirePlatform(ctx, tx, caller, patch.PlatformID.Value); err != nil {
				return err
			}
		}
		if err := requireContainer(ctx, tx, caller, optPtr(patch.ContainerID)); err != nil {
			return err
		}
		if ids, ok := patch.TagIDs(); ok {
			tags, err := ownedTags(ctx, tx, caller, ids)
			if err != nil {
				return err
			}
			if err := tx.ReplaceCredentialTags(ctx, current.ID, tagIDs(tags)); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		cols := patch.Columns()
		cols["updated_at"] = now
		if patch.Rotates() {
			env := &model.EncryptedData{Sealed: sealed}
			if err := tx.Envelopes().Create(ctx, env); err != nil {
				return err
			}
			cols["password_encryption_id"] = env.ID
			var old model.Sealed
			if current.PasswordEncryption != nil {
				old = current.PasswordEncryption.Sealed
			}
			hist := &model.CredentialHistory{
				CredentialID: current.ID,
				UserID:       caller.UserID,
				Old:          old,
				New:          sealed,
				ChangedAt:    now,
			}
			if err := tx.History().Create(ctx, hist); err != nil {
				return err
			}
		}
		if err := tx.Credentials().Update(ctx, cols, repo.ByID(id), repo.OwnedBy(caller.UserID)); err != nil {
			return err
		}
		if patch.Rotates() {
			if _, err := tx.Envelopes().Delete(ctx, repo.ByID(current.PasswordEncryptionID)); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.find(ctx, tx, caller, id)
		return err
	})
	if err != nil {
		return schema.CredentialRo{}, s.fail("update credential", caller, "Credential", err)
	}
	return entity.Credential(updated), nil
}

// Delete удаляет учётную запись вместе с конвертом, метаданными,
// историей и связями с метками.
func (s *CredentialService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rec, err := tx.Credentials().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
		if err != nil {
			return err
		}
		if err := tx.ClearCredentialTags(ctx, rec.ID); err != nil {
			return err
		}
		byCredential := repo.Eq(map[string]any{"credential_id": rec.ID})
		if _, err := tx.Metadata().Delete(ctx, byCredential); err != nil {
			return err
		}
		if _, err := tx.History().Delete(ctx, byCredential); err != nil {
			return err
		}
		if _, err := tx.Credentials().Delete(ctx, repo.ByID(rec.ID)); err != nil {
			return err
		}
		_, err = tx.Envelopes().Delete(ctx, repo.ByID(rec.PasswordEncryptionID))
		return err
	})
	return s.fail("delete credential", caller, "Credential", err)
}

// List возвращает страницу учётных записей вызывающего, новые первыми.
func (s *CredentialService) List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter schema.CredentialFilter) (Page[schema.CredentialRo], error) {
	if err := guard(caller); err != nil {
		return Page[schema.CredentialRo]{}, err
	}
	params, err := s.listParams(params, filter.Validate())
	if err != nil {
		return Page[schema.CredentialRo]{}, err
	}
	where := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(filter.Columns())}
	page, err := list(ctx, s.store.Credentials(), where, params, entity.Credential, "PasswordEncryption", "Tags")
	if err != nil {
		return Page[schema.CredentialRo]{}, s.fail("list credentials", caller, "Credential", err)
	}
	return page, nil
}

// GetMetadata возвращает метаданные учётной записи либо NotFound.
func (s *CredentialService) GetMetadata(ctx context.Context, caller auth.Identity, id string) (schema.CredentialMetadataRo, error) {
	if err := guard(caller); err != nil {
		return schema.CredentialMetadataRo{}, err
	}
	if _, err := s.store.Credentials().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID)); err != nil {
		return schema.CredentialMetadataRo{}, s.fail("get metadata", caller, "Credential", err)
	}
	meta, err := s.store.Metadata().FindFirst(ctx, repo.Eq(map[string]any{"credential_id": id}))
	if err != nil {
		return schema.CredentialMetadataRo{}, s.fail("get metadata", caller, "Metadata", err)
	}
	return entity.CredentialMetadata(meta), nil
}

// UpsertMetadata создаёт или целиком заменяет метаданные учётной записи.
func (s *CredentialService) UpsertMetadata(ctx context.Context, caller auth.Identity, id string, dto schema.CredentialMetadataDto) (schema.CredentialMetadataRo, error) {
	if err := guard(caller); err != nil {
		return schema.CredentialMetadataRo{}, err
	}
	if _, err := s.store.Credentials().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID)); err != nil {
		return schema.CredentialMetadataRo{}, s.fail("upsert metadata", caller, "Credential", err)
	}
	dto.Normalize()
	if err := invalid(dto.Validate()); err != nil {
		return schema.CredentialMetadataRo{}, err
	}

	var out *model.CredentialMetadata
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		byCredential := repo.Eq(map[string]any{"credential_id": id})
		existing, err := tx.Metadata().FindFirst(ctx, byCredential)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = metadataRecord(id, &dto)
			return tx.Metadata().Create(ctx, out)
		case err != nil:
			return err
		}
		rec := metadataRecord(id, &dto)
		cols := map[string]any{
			"recovery_email": rec.RecoveryEmail,
			"account_id":     rec.AccountID,
			"iban":           rec.IBAN,
			"bank_name":      rec.BankName,
			"other_info":     rec.OtherInfo,
			"has_2fa":        rec.Has2FA,
			"updated_at":     time.Now().UTC(),
		}
		if err := tx.Metadata().Update(ctx, cols, repo.ByID(existing.ID)); err != nil {
			return err
		}
		out, err = tx.Metadata().FindFirst(ctx, repo.ByID(existing.ID))
		return err
	})
	if err != nil {
		return schema.CredentialMetadataRo{}, s.fail("upsert metadata", caller, "Metadata", err)
	}
	return entity.CredentialMetadata(out), nil
}

// History возвращает журнал смены пароля, новые записи первыми.
func (s *CredentialService) History(ctx context.Context, caller auth.Identity, id string) ([]schema.CredentialHistoryRo, error) {
	if err := guard(caller); err != nil {
		return nil, err
	}
	if _, err := s.store.Credentials().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID)); err != nil {
		return nil, s.fail("credential history", caller, "Credential", err)
	}
	recs, err := s.store.History().FindMany(ctx,
		repo.Eq(map[string]any{"credential_id": id}),
		repo.OwnedBy(caller.UserID),
		func(db *gorm.DB) *gorm.DB { return db.Order("changed_at DESC").Order("id DESC") },
	)
	if err != nil {
		return nil, s.fail("credential history", caller, "Credential", err)
	}
	return entity.Map(recs, entity.CredentialHistory), nil
}

// Reveal расшифровывает пароль и отмечает время просмотра.
func (s *CredentialService) Reveal(ctx context.Context, caller auth.Identity, id string) (schema.RevealedRo, error) {
	if err := guard(caller); err != nil {
		return schema.RevealedRo{}, err
	}
	rec, err := s.find(ctx, s.store, caller, id)
	if err != nil {
		return schema.RevealedRo{}, s.fail("reveal credential", caller, "Credential", err)
	}
	if rec.PasswordEncryption == nil {
		return schema.RevealedRo{}, apperr.NotFound("Credential")
	}
	plain, err := open(rec.PasswordEncryption.Sealed)
	if err != nil {
		return schema.RevealedRo{}, s.fail("reveal credential", caller, "Credential", err)
	}
	if err := s.Touch(ctx, caller, id); err != nil {
		return schema.RevealedRo{}, err
	}
	return schema.RevealedRo{ID: rec.ID, Value: plain}, nil
}

// Touch отмечает время последнего просмотра учётной записи.
func (s *CredentialService) Touch(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Credentials().Update(ctx,
		map[string]any{"last_viewed": time.Now().UTC()},
		repo.ByID(id), repo.OwnedBy(caller.UserID),
	)
	return s.fail("touch credential", caller, "Credential", err)
}

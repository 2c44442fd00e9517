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

// DefaultPlatforms — глобальные платформы, создаваемые при начальном заполнении.
var DefaultPlatforms = []string{"Google", "GitHub", "AWS", "Microsoft"}

// PlatformService — операции над платформами. Пользователь видит свои
// и глобальные платформы, но менять может только свои.
type PlatformService struct {
	base
}

func NewPlatformService(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *PlatformService {
	return &PlatformService{base: newBase(store, logger, opts)}
}

func (s *PlatformService) Create(ctx context.Context, caller auth.Identity, dto schema.PlatformDto) (schema.PlatformRo, error) {
	if err := guard(caller); err != nil {
		return schema.PlatformRo{}, err
	}
	dto.Normalize()
	if err := invalid(dto.Validate()); err != nil {
		return schema.PlatformRo{}, err
	}
	userID := caller.UserID
	rec := &model.Platform{
		Name:     dto.Name,
		Logo:     dto.Logo,
		LoginURL: dto.LoginURL,
		Status:   dto.Status,
		UserID:   &userID,
	}
	if err := s.store.Platforms().Create(ctx, rec); err != nil {
		return schema.PlatformRo{}, s.fail("create platform", caller, "Platform", err)
	}
	return entity.Platform(rec), nil
}

func (s *PlatformService) GetByID(ctx context.Context, caller auth.Identity, id string) (schema.PlatformRo, error) {
	if err := guard(caller); err != nil {
		return schema.PlatformRo{}, err
	}
	rec, err := s.store.Platforms().FindFirst(ctx, repo.ByID(id), repo.VisibleTo(caller.UserID))
	if err != nil {
		return schema.PlatformRo{}, s.fail("get platform", caller, "Platform", err)
	}
	return entity.Platform(rec), nil
}

// Update меняет собственную платформу; глобальные недоступны (NotFound).
func (s *PlatformService) Update(ctx context.Context, caller auth.Identity, id string, patch schema.PlatformPatch) (schema.PlatformRo, error) {
	if err := guard(caller); err != nil {
		return schema.PlatformRo{}, err
	}
	owned := []repo.Scope{repo.ByID(id), repo.OwnedBy(caller.UserID)}
	if _, err := s.store.Platforms().FindFirst(ctx, owned...); err != nil {
		return schema.PlatformRo{}, s.fail("update platform", caller, "Platform", err)
	}
	if err := invalid(patch.Validate()); err != nil {
		return schema.PlatformRo{}, err
	}
	cols := patch.Columns()
	cols["updated_at"] = time.Now().UTC()
	if err := s.store.Platforms().Update(ctx, cols, owned...); err != nil {
		return schema.PlatformRo{}, s.fail("update platform", caller, "Platform", err)
	}
	rec, err := s.store.Platforms().FindFirst(ctx, owned...)
	if err != nil {
		return schema.PlatformRo{}, s.fail("update platform", caller, "Platform", err)
	}
	return entity.Platform(rec), nil
}

// Delete удаляет собственную платформу, если на неё не ссылаются
// секреты и учётные записи вызывающего.
func (s *PlatformService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rec, err := tx.Platforms().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
		if err != nil {
			return err
		}
		usedBy := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(map[string]any{"platform_id": rec.ID})}
		secrets, err := tx.Secrets().Count(ctx, usedBy...)
		if err != nil {
			return err
		}
		creds, err := tx.Credentials().Count(ctx, usedBy...)
		if err != nil {
			return err
		}
		if secrets+creds > 0 {
			var is apperr.Issues
			is.Add("id", "Platform is in use")
			return apperr.Validation(is)
		}
		_, err = tx.Platforms().Delete(ctx, repo.ByID(rec.ID))
		return err
	})
	return s.fail("delete platform", caller, "Platform", err)
}

// List возвращает собственные и глобальные платформы.
func (s *PlatformService) List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter schema.PlatformFilter) (Page[schema.PlatformRo], error) {
	if err := guard(caller); err != nil {
		return Page[schema.PlatformRo]{}, err
	}
	params, err := s.listParams(params, filter.Validate())
	if err != nil {
		return Page[schema.PlatformRo]{}, err
	}
	where := []repo.Scope{repo.VisibleTo(caller.UserID), repo.Eq(filter.Columns())}
	page, err := list(ctx, s.store.Platforms(), where, params, entity.Platform)
	if err != nil {
		return Page[schema.PlatformRo]{}, s.fail("list platforms", caller, "Platform", err)
	}
	return page, nil
}

// SeedGlobal создаёт отсутствующие глобальные платформы. Повторный вызов
// ничего не меняет. Возвращает число созданных.
func (s *PlatformService) SeedGlobal(ctx context.Context, names []string) (int, error) {
	created, err := s.store.CreateGlobalPlatforms(ctx, names)
	if err != nil {
		return 0, s.fail("seed platforms", auth.Identity{}, "Platform", err)
	}
	for _, p := range created {
		s.log.Infow("global platform created", "name", p.Name, "id", p.ID)
	}
	return len(created), nil
}

package service

import (
	"context"
	"time"

	"GophVault/internal/auth"
	"GophVault/internal/entity"
	"GophVault/internal/model"
	"GophVault/internal/repo"
	"GophVault/internal/schema"

	"go.uber.org/zap"
)

// TagService — операции над метками пользователя.
type TagService struct {
	base
}

func NewTagService(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *TagService {
	return &TagService{base: newBase(store, logger, opts)}
}

func (s *TagService) Create(ctx context.Context, caller auth.Identity, dto schema.TagDto) (schema.TagRo, error) {
	if err := guard(caller); err != nil {
		return schema.TagRo{}, err
	}
	dto.Normalize()
	if err := invalid(dto.Validate()); err != nil {
		return schema.TagRo{}, err
	}
	userID := caller.UserID
	rec := &model.Tag{
		Name:        dto.Name,
		Color:       dto.Color,
		ContainerID: dto.ContainerID,
		UserID:      &userID,
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := requireContainer(ctx, tx, caller, dto.ContainerID); err != nil {
			return err
		}
		return tx.Tags().Create(ctx, rec)
	})
	if err != nil {
		return schema.TagRo{}, s.fail("create tag", caller, "Tag", err)
	}
	return entity.Tag(rec), nil
}

func (s *TagService) GetByID(ctx context.Context, caller auth.Identity, id string) (schema.TagRo, error) {
	if err := guard(caller); err != nil {
		return schema.TagRo{}, err
	}
	rec, err := s.store.Tags().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
	if err != nil {
		return schema.TagRo{}, s.fail("get tag", caller, "Tag", err)
	}
	return entity.Tag(rec), nil
}

func (s *TagService) Update(ctx context.Context, caller auth.Identity, id string, patch schema.TagPatch) (schema.TagRo, error) {
	if err := guard(caller); err != nil {
		return schema.TagRo{}, err
	}
	owned := []repo.Scope{repo.ByID(id), repo.OwnedBy(caller.UserID)}
	if _, err := s.store.Tags().FindFirst(ctx, owned...); err != nil {
		return schema.TagRo{}, s.fail("update tag", caller, "Tag", err)
	}
	if err := invalid(patch.Validate()); err != nil {
		return schema.TagRo{}, err
	}
	var rec *model.Tag
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := requireContainer(ctx, tx, caller, optPtr(patch.ContainerID)); err != nil {
			return err
		}
		cols := patch.Columns()
		cols["updated_at"] = time.Now().UTC()
		if err := tx.Tags().Update(ctx, cols, owned...); err != nil {
			return err
		}
		var err error
		rec, err = tx.Tags().FindFirst(ctx, owned...)
		return err
	})
	if err != nil {
		return schema.TagRo{}, s.fail("update tag", caller, "Tag", err)
	}
	return entity.Tag(rec), nil
}

// Delete удаляет метку и снимает её со всех учётных записей.
func (s *TagService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rec, err := tx.Tags().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
		if err != nil {
			return err
		}
		if err := tx.DetachTag(ctx, rec.ID); err != nil {
			return err
		}
		_, err = tx.Tags().Delete(ctx, repo.ByID(rec.ID))
		return err
	})
	return s.fail("delete tag", caller, "Tag", err)
}

func (s *TagService) List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter schema.TagFilter) (Page[schema.TagRo], error) {
	if err := guard(caller); err != nil {
		return Page[schema.TagRo]{}, err
	}
	params, err := s.listParams(params, filter.Validate())
	if err != nil {
		return Page[schema.TagRo]{}, err
	}
	where := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(filter.Columns())}
	page, err := list(ctx, s.store.Tags(), where, params, entity.Tag)
	if err != nil {
		return Page[schema.TagRo]{}, s.fail("list tags", caller, "Tag", err)
	}
	return page, nil
}

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

// ContainerService — операции над контейнерами пользователя.
type ContainerService struct {
	base
}

func NewContainerService(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *ContainerService {
	return &ContainerService{base: newBase(store, logger, opts)}
}

func (s *ContainerService) Create(ctx context.Context, caller auth.Identity, dto schema.ContainerDto) (schema.ContainerRo, error) {
	if err := guard(caller); err != nil {
		return schema.ContainerRo{}, err
	}
	dto.Normalize()
	if err := invalid(dto.Validate()); err != nil {
		return schema.ContainerRo{}, err
	}
	rec := &model.Container{
		Name:        dto.Name,
		Icon:        dto.Icon,
		Description: dto.Description,
		Type:        dto.Type,
		UserID:      caller.UserID,
	}
	if err := s.store.Containers().Create(ctx, rec); err != nil {
		return schema.ContainerRo{}, s.fail("create container", caller, "Container", err)
	}
	return entity.Container(rec), nil
}

func (s *ContainerService) GetByID(ctx context.Context, caller auth.Identity, id string) (schema.ContainerRo, error) {
	if err := guard(caller); err != nil {
		return schema.ContainerRo{}, err
	}
	rec, err := s.store.Containers().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
	if err != nil {
		return schema.ContainerRo{}, s.fail("get container", caller, "Container", err)
	}
	return entity.Container(rec), nil
}

func (s *ContainerService) Update(ctx context.Context, caller auth.Identity, id string, patch schema.ContainerPatch) (schema.ContainerRo, error) {
	if err := guard(caller); err != nil {
		return schema.ContainerRo{}, err
	}
	owned := []repo.Scope{repo.ByID(id), repo.OwnedBy(caller.UserID)}
	if _, err := s.store.Containers().FindFirst(ctx, owned...); err != nil {
		return schema.ContainerRo{}, s.fail("update container", caller, "Container", err)
	}
	if err := invalid(patch.Validate()); err != nil {
		return schema.ContainerRo{}, err
	}
	cols := patch.Columns()
	cols["updated_at"] = time.Now().UTC()
	if err := s.store.Containers().Update(ctx, cols, owned...); err != nil {
		return schema.ContainerRo{}, s.fail("update container", caller, "Container", err)
	}
	rec, err := s.store.Containers().FindFirst(ctx, owned...)
	if err != nil {
		return schema.ContainerRo{}, s.fail("update container", caller, "Container", err)
	}
	return entity.Container(rec), nil
}

// Delete удаляет контейнер. Секреты, учётные записи и метки остаются,
// но теряют ссылку на контейнер.
func (s *ContainerService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	if err := guard(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rec, err := tx.Containers().FindFirst(ctx, repo.ByID(id), repo.OwnedBy(caller.UserID))
		if err != nil {
			return err
		}
		detach := map[string]any{"container_id": nil}
		inContainer := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(map[string]any{"container_id": rec.ID})}
		if _, err := tx.Secrets().UpdateAll(ctx, detach, inContainer...); err != nil {
			return err
		}
		if _, err := tx.Credentials().UpdateAll(ctx, detach, inContainer...); err != nil {
			return err
		}
		if _, err := tx.Tags().UpdateAll(ctx, detach, inContainer...); err != nil {
			return err
		}
		_, err = tx.Containers().Delete(ctx, repo.ByID(rec.ID))
		return err
	})
	return s.fail("delete container", caller, "Container", err)
}

func (s *ContainerService) List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter schema.ContainerFilter) (Page[schema.ContainerRo], error) {
	if err := guard(caller); err != nil {
		return Page[schema.ContainerRo]{}, err
	}
	params, err := s.listParams(params, filter.Validate())
	if err != nil {
		return Page[schema.ContainerRo]{}, err
	}
	where := []repo.Scope{repo.OwnedBy(caller.UserID), repo.Eq(filter.Columns())}
	page, err := list(ctx, s.store.Containers(), where, params, entity.Container)
	if err != nil {
		return Page[schema.ContainerRo]{}, s.fail("list containers", caller, "Container", err)
	}
	return page, nil
}

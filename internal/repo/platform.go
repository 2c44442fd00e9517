package repo

import (
	"context"

	"GophVault/internal/model"

	"gorm.io/gorm"
)

// CreateGlobalPlatforms создаёт одобренные глобальные платформы с теми именами
// из names, которых ещё нет среди глобальных. Повторы в names игнорируются.
// Возвращает только созданные этим вызовом записи.
func (s *Store) CreateGlobalPlatforms(ctx context.Context, names []string) ([]model.Platform, error) {
	var created []model.Platform
	err := s.Transaction(ctx, func(tx *Store) error {
		existing, err := tx.Platforms().FindMany(ctx, func(db *gorm.DB) *gorm.DB {
			return db.Where("name IN ? AND user_id IS NULL", names)
		})
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(names))
		for _, p := range existing {
			seen[p.Name] = true
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			created = append(created, model.Platform{Name: name, Status: model.PlatformStatusApproved})
		}
		return tx.Platforms().CreateMany(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

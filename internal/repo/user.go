package repo

import (
	"context"

	"GophVault/internal/model"

	"gorm.io/gorm"
)

// UserRepository — доступ к пользователям для сервиса аутентификации.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}

type userRepo struct {
	users Table[model.User]
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{users: NewTable[model.User](db)}
}

// CreateUser сохраняет пользователя. Повторный логин даёт ошибку уникальности.
func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByLogin ищет пользователя по логину; gorm.ErrRecordNotFound, если нет.
func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.users.FindFirst(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("login = ?", login)
	})
}

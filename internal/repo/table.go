package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound — запись не найдена (совпадает с gorm.ErrRecordNotFound).
var ErrNotFound = gorm.ErrRecordNotFound

// Table — типизированный доступ к таблице модели T.
// Все выборки строятся из Scope, так что владение записью — часть предиката.
type Table[T any] struct {
	db *gorm.DB
}

// NewTable создаёт Table поверх соединения (или транзакции) db.
func NewTable[T any](db *gorm.DB) Table[T] {
	return Table[T]{db: db}
}

// FindFirst возвращает первую подходящую запись или ErrNotFound.
func (t Table[T]) FindFirst(ctx context.Context, scopes ...Scope) (*T, error) {
	var rec T
	err := t.db.WithContext(ctx).Scopes(scopes...).Take(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Exists сообщает, есть ли хотя бы одна подходящая запись.
func (t Table[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	_, err := t.FindFirst(ctx, scopes...)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// FindMany возвращает все подходящие записи.
func (t Table[T]) FindMany(ctx context.Context, scopes ...Scope) ([]T, error) {
	var recs []T
	if err := t.db.WithContext(ctx).Scopes(scopes...).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Count считает подходящие записи.
func (t Table[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error
	return n, err
}

// Create вставляет запись без каскадной вставки связей.
func (t Table[T]) Create(ctx context.Context, rec *T) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
}

// CreateMany вставляет пачку записей.
func (t Table[T]) CreateMany(ctx context.Context, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(&recs).Error
}

// Update применяет updates (имена колонок -> значения) к подходящим записям.
// Возвращает ErrNotFound, если ни одна запись не затронута.
func (t Table[T]) Update(ctx context.Context, updates map[string]any, scopes ...Scope) error {
	tx := t.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAll как Update, но отсутствие подходящих записей ошибкой не считается.
func (t Table[T]) UpdateAll(ctx context.Context, updates map[string]any, scopes ...Scope) (int64, error) {
	tx := t.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Updates(updates)
	return tx.RowsAffected, tx.Error
}

// Delete удаляет подходящие записи и возвращает их количество.
func (t Table[T]) Delete(ctx context.Context, scopes ...Scope) (int64, error) {
	tx := t.db.WithContext(ctx).Scopes(scopes...).Delete(new(T))
	return tx.RowsAffected, tx.Error
}

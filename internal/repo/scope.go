package repo

import (
	"sort"

	"gorm.io/gorm"
)

// Scope — предикат/модификатор запроса поверх gorm.
type Scope = func(*gorm.DB) *gorm.DB

// Eq добавляет равенства по колонкам. Пустые значения пропускаются,
// чтобы необязательные фильтры можно было передавать как есть.
func Eq(cols map[string]any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		keys := make([]string, 0, len(cols))
		for col := range cols {
			keys = append(keys, col)
		}
		sort.Strings(keys)
		for _, col := range keys {
			v := cols[col]
			switch x := v.(type) {
			case nil:
				continue
			case string:
				if x == "" {
					continue
				}
			case *string:
				if x == nil || *x == "" {
					continue
				}
				v = *x
			}
			db = db.Where(col+" = ?", v)
		}
		return db
	}
}

// ByID — запись с заданным id.
func ByID(id string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) }
}

// OwnedBy — записи пользователя userID.
func OwnedBy(userID string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) }
}

// VisibleTo — записи пользователя userID и глобальные (user_id IS NULL).
func VisibleTo(userID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id = ? OR user_id IS NULL)", userID)
	}
}

// Paginate — страница skip/take.
func Paginate(skip, take int) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Offset(skip).Limit(take) }
}

// Newest — сортировка по времени создания, новые первыми. id — для стабильного порядка.
func Newest() Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Order("id DESC") }
}

// Preload подгружает связи.
func Preload(assocs ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		for _, a := range assocs {
			db = db.Preload(a)
		}
		return db
	}
}

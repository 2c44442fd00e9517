package service

import (
	"context"
	"errors"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"
	"GophVault/internal/crypto"
	"GophVault/internal/entity"
	"GophVault/internal/model"
	"GophVault/internal/repo"
	"GophVault/internal/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Page — страница списка и общее число подходящих записей.
type Page[T any] struct {
	Items []T
	Total int64
}

// Option настраивает сервисы хранилища.
type Option func(*base)

// WithMaxPageLimit ограничивает limit в списках.
func WithMaxPageLimit(n int) Option {
	return func(b *base) { b.maxLimit = n }
}

// base — общие зависимости и политика обработки ошибок.
type base struct {
	store    *repo.Store
	log      *zap.SugaredLogger
	maxLimit int
}

func newBase(store *repo.Store, logger *zap.SugaredLogger, opts []Option) base {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	b := base{store: store, log: logger, maxLimit: schema.MaxLimit}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func guard(caller auth.Identity) error {
	if err := auth.Require(caller); err != nil {
		return apperr.Unauthenticated()
	}
	return nil
}

func invalid(is apperr.Issues) error {
	if is.Empty() {
		return nil
	}
	return apperr.Validation(is)
}

// fail приводит любую ошибку к *apperr.Error.
// entity — имя сущности для сообщения «<entity> not found».
func (b base) fail(op string, caller auth.Identity, entity string, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apperr.As(err); ok {
		return ae
	}
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return apperr.Unauthenticated()
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	var encErr *crypto.EncryptionError
	if errors.As(err, &encErr) {
		b.log.Errorw(op+": encryption failed", "kind", "encryption", "user_id", caller.UserID, "op", encErr.Op, "error", err)
		return apperr.Encryption(err)
	}
	b.log.Errorw(op+": storage error", "kind", "persistence", "user_id", caller.UserID, "error", err)
	return apperr.Persistence(err)
}

func (b base) listParams(p schema.ListParams, filterIssues apperr.Issues) (schema.ListParams, error) {
	p.Normalize()
	is := p.Validate(b.maxLimit)
	is = append(is, filterIssues...)
	return p, invalid(is)
}

// list выбирает страницу и параллельно считает общее число записей.
func list[M any, R any](ctx context.Context, tbl repo.Table[M], where []repo.Scope, p schema.ListParams, project func(*M) R, preload ...string) (Page[R], error) {
	var (
		recs  []M
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scopes := append(append([]repo.Scope{}, where...), repo.Newest(), repo.Paginate(p.Skip(), p.Limit), repo.Preload(preload...))
		var err error
		recs, err = tbl.FindMany(gctx, scopes...)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = tbl.Count(gctx, where...)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[R]{}, err
	}
	return Page[R]{Items: entity.Map(recs, project), Total: total}, nil
}

// requirePlatform — платформа существует и видна вызывающему.
func requirePlatform(ctx context.Context, tx *repo.Store, caller auth.Identity, id string) error {
	ok, err := tx.Platforms().Exists(ctx, repo.ByID(id), repo.VisibleTo(caller.UserID))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Platform")
	}
	return nil
}

// requireContainer — контейнер (если указан) принадлежит вызывающему.
func requireContainer(ctx context.Context, tx *repo.Store, caller auth.Identity, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	ok, err := tx.Containers().Exists(ctx, repo.ByID(*id), repo.OwnedBy(caller.UserID))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Container")
	}
	return nil
}

// ownedTags загружает метки вызывающего; любая чужая или отсутствующая — NotFound.
func ownedTags(ctx context.Context, tx *repo.Store, caller auth.Identity, ids []string) ([]model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := tx.Tags().FindMany(ctx, repo.OwnedBy(caller.UserID), func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	})
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.NotFound("Tag")
	}
	return tags, nil
}

// seal возвращает конверт для значения. Если ключ и IV не переданы,
// значение считается открытым текстом и шифруется на сервере.
func seal(value string, key, iv *string) (model.Sealed, error) {
	if key != nil && *key != "" && iv != nil && *iv != "" {
		return model.Sealed{Ciphertext: value, EncryptionKey: *key, IV: *iv}, nil
	}
	env, err := crypto.Seal(value)
	if err != nil {
		return model.Sealed{}, err
	}
	return model.Sealed{Ciphertext: env.Ciphertext, EncryptionKey: env.EncryptionKey, IV: env.IV}, nil
}

// errIncompleteEnvelope — в конверте не хватает шифртекста, ключа или IV.
var errIncompleteEnvelope = errors.New("incomplete envelope")

func open(s model.Sealed) (string, error) {
	if !s.Complete() {
		return "", &crypto.EncryptionError{Op: "open", Err: errIncompleteEnvelope}
	}
	return crypto.Open(crypto.Envelope{Ciphertext: s.Ciphertext, EncryptionKey: s.EncryptionKey, IV: s.IV})
}

func optPtr(o schema.Optional[string]) *string {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// Package auth определяет личность вызывающего и контракт проверки сессии.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNotAuthenticated — нет действующей сессии.
var ErrNotAuthenticated = errors.New("Not authenticated")

// Identity — пользователь, от имени которого выполняется операция.
type Identity struct {
	UserID string
}

// Anonymous сообщает, что личность не установлена.
func (id Identity) Anonymous() bool { return id.UserID == "" }

// Session — результат проверки сессии.
type Session struct {
	User      Identity
	ExpiresAt time.Time
}

// Authenticator проверяет сессию запроса.
// Возвращает ErrNotAuthenticated, если сессии нет или она недействительна.
type Authenticator interface {
	VerifySession(r *http.Request) (Session, error)
}

// Require — проверка, с которой начинается каждая операция хранилища.
func Require(id Identity) error {
	if id.Anonymous() {
		return ErrNotAuthenticated
	}
	return nil
}

type ctxKey struct{}

// WithIdentity кладёт личность в контекст запроса.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext достаёт личность из контекста.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Anonymous() {
		return Identity{}, false
	}
	return id, true
}

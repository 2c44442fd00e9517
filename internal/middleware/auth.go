package middleware

import (
	"context"
	"net/http"

	"GophVault/internal/auth"
)

// WithAuth проверяет сессию и кладёт личность пользователя в контекст.
// Запрос без сессии пропускается анонимным: отказ выдают сами операции.
func WithAuth(a auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := a.VerifySession(r)
			if err == nil && !sess.User.Anonymous() {
				r = r.WithContext(auth.WithIdentity(r.Context(), sess.User))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext возвращает id пользователя, установленный WithAuth.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := auth.FromContext(ctx)
	return id.UserID, ok
}

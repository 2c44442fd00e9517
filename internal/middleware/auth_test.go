package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"GophVault/internal/auth"
)

func loginCookies(t *testing.T, s *auth.JWTSessions, userID string) []*http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := s.SetCookie(rr, userID); err != nil {
		t.Fatalf("set cookie: %v", err)
	}
	return rr.Result().Cookies()
}

// Тест: cookie сессии + WithAuth — user_id попадает в контекст
func TestWithAuth_ValidCookieSetsUserID(t *testing.T) {
	sessions := auth.NewJWTSessions("test-secret", time.Hour, false)

	// next-хендлер читает user_id из контекста
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := GetUserIDFromContext(r.Context()); ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("uid:" + uid))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	h := WithAuth(sessions)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range loginCookies(t, sessions, "u-77") {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid cookie, got %d", rr.Code)
	}
	if rr.Body.String() != "uid:u-77" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}

// Тест: отсутствие cookie — user_id не устанавливается
func TestWithAuth_NoCookieLeavesAnonymous(t *testing.T) {
	h := WithAuth(auth.NewJWTSessions("any-secret", 0, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set without cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: невалидный токен — user_id не устанавливается
func TestWithAuth_InvalidToken(t *testing.T) {
	// Сгенерируем cookie с секретом A, а проверять будем секретом B
	cookies := loginCookies(t, auth.NewJWTSessions("secret-A", 0, false), "u-5")

	h := WithAuth(auth.NewJWTSessions("secret-B", 0, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("user id must not be set with invalid token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

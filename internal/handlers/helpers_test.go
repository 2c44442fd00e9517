package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"GophVault/internal/auth"
	"GophVault/internal/config"
	"GophVault/internal/handlers"
	"GophVault/internal/repo"
	"GophVault/internal/repo/repotest"
	"GophVault/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// newTestRouter собирает роутер поверх отдельной in-memory БД.
// ur == nil — используется настоящий репозиторий пользователей.
func newTestRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: testSecret, MaxPageLimit: 100}
	logger := zap.NewNop().Sugar()

	db := repotest.NewDB(t)
	if ur == nil {
		ur = repo.NewUserRepository(db)
	}
	userSvc := service.NewUserService(ur)
	vault := service.NewVault(repo.NewStore(db), logger, service.WithMaxPageLimit(cfg.MaxPageLimit))
	sessions := auth.NewJWTSessions(cfg.AuthSecret, 0, false)

	h := handlers.NewHandler(userSvc, vault, sessions, logger, cfg)
	return h.Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID string) {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, auth.NewJWTSessions(testSecret, 0, false).SetCookie(rr, userID))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// call выполняет запрос от имени userID ("" — анонимно) и разбирает JSON-ответ.
func call(t *testing.T, router http.Handler, method, path, userID string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		addAuthCookie(t, req, userID)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var out map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr.Code, out
}

func field(t *testing.T, body map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := body[key].(map[string]any)
	require.True(t, ok, "expected object under %q in %v", key, body)
	return v
}

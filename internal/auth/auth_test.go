package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	assert.ErrorIs(t, Require(Identity{}), ErrNotAuthenticated)
	assert.NoError(t, Require(Identity{UserID: "u1"}))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.UserID)

	// пустая личность считается отсутствующей
	_, ok = FromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}

func TestJWTSessions_CookieRoundTrip(t *testing.T) {
	s := NewJWTSessions("test-secret", time.Hour, false)

	rr := httptest.NewRecorder()
	require.NoError(t, s.SetCookie(rr, "u-42"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	sess, err := s.VerifySession(req)
	require.NoError(t, err)
	assert.Equal(t, "u-42", sess.User.UserID)
	assert.False(t, sess.ExpiresAt.IsZero())
}

func TestJWTSessions_BearerHeader(t *testing.T) {
	s := NewJWTSessions("test-secret", 0, false)
	token, _, err := s.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	sess, err := s.VerifySession(req)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.User.UserID)
}

func TestJWTSessions_Rejects(t *testing.T) {
	s := NewJWTSessions("secret-A", time.Hour, false)
	other := NewJWTSessions("secret-B", time.Hour, false)

	t.Run("no token", func(t *testing.T) {
		_, err := s.VerifySession(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := other.Issue("u1")
		require.NoError(t, err)
		_, err = s.Verify(token)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTSessions("secret-A", time.Minute, false)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := past.Issue("u1")
		require.NoError(t, err)
		_, err = s.Verify(token)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

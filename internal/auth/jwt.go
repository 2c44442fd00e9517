package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName — cookie с токеном сессии.
const CookieName = "auth_token"

// DefaultTTL — срок жизни сессии по умолчанию.
const DefaultTTL = 24 * time.Hour

// Claims — содержимое токена сессии.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// JWTSessions — сессии на подписанных HS256 токенах.
// Токен берётся из cookie auth_token либо из заголовка Authorization: Bearer.
type JWTSessions struct {
	Secret string
	TTL    time.Duration
	Secure bool

	now func() time.Time
}

// NewJWTSessions создаёт JWTSessions. ttl <= 0 означает DefaultTTL.
func NewJWTSessions(secret string, ttl time.Duration, secure bool) *JWTSessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTSessions{Secret: secret, TTL: ttl, Secure: secure, now: time.Now}
}

func (s *JWTSessions) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Issue выпускает токен для пользователя.
func (s *JWTSessions) Issue(userID string) (string, time.Time, error) {
	exp := s.clock().Add(s.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(s.clock()),
		},
		UserID: userID,
	})
	signed, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify проверяет подпись и срок токена.
func (s *JWTSessions) Verify(raw string) (Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.Secret), nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil || !token.Valid || claims.UserID == "" {
		return Session{}, ErrNotAuthenticated
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return Session{User: Identity{UserID: claims.UserID}, ExpiresAt: exp}, nil
}

// VerifySession реализует Authenticator.
func (s *JWTSessions) VerifySession(r *http.Request) (Session, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return Session{}, ErrNotAuthenticated
	}
	return s.Verify(raw)
}

// SetCookie выпускает токен и ставит cookie сессии.
func (s *JWTSessions) SetCookie(w http.ResponseWriter, userID string) error {
	token, exp, err := s.Issue(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie удаляет cookie сессии.
func (s *JWTSessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

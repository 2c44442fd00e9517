package handlers

import (
	"errors"
	"net/http"

	"GophVault/internal/schema"
	"GophVault/internal/service"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию, вход и выход.
type UserHandler struct {
	UserService *service.UserService
	Sessions    Sessions
	Logger      *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, sessions Sessions, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Sessions: sessions, Logger: logger}
}

// CredentialsRequest — тело регистрации и входа.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userRo struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		h.Logger.Warnw("invalid credentials body", "error", err)
		writeError(w, r, h.Logger, err)
		return req, false
	}
	return req, true
}

// Register регистрирует пользователя и сразу открывает сессию.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, service.ErrLoginTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Login already taken"})
		return
	case err != nil:
		writeError(w, r, h.Logger, err)
		return
	}
	h.openSession(w, r, userRo{ID: user.ID, Login: user.Login})
}

// Login проверяет логин/пароль и открывает сессию.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid login or password"})
		return
	case err != nil:
		writeError(w, r, h.Logger, err)
		return
	}
	h.openSession(w, r, userRo{ID: user.ID, Login: user.Login})
}

// Logout снимает cookie сессии.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Status сообщает, кем сервер считает текущий запрос.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	result := "anonymous"
	if id := caller(r); !id.Anonymous() {
		result = "User ID = " + id.UserID
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (h *UserHandler) openSession(w http.ResponseWriter, r *http.Request, u userRo) {
	if err := h.Sessions.SetCookie(w, u.ID); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeOne(w, http.StatusOK, "user", u)
}

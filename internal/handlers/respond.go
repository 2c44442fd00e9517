package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"

	"go.uber.org/zap"
)

// errorBody — тело неуспешного ответа.
type errorBody struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Issues  apperr.Issues `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOne отдаёт {"success":true,"<key>":v}.
func writeOne(w http.ResponseWriter, status int, key string, v any) {
	writeJSON(w, status, map[string]any{"success": true, key: v})
}

// writeList отдаёт {"success":true,"<key>":[...],"total":n}.
func writeList[T any](w http.ResponseWriter, key string, items []T, total int64) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, key: items, "total": total})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError переводит ошибку операции в HTTP-ответ.
// Ошибки вне классификации apperr считаются внутренними и логируются.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	e, ok := apperr.As(err)
	if !ok {
		log.Errorw("unclassified error", "method", r.Method, "uri", r.RequestURI, "error", err)
		e = apperr.Persistence(err)
	}
	writeJSON(w, statusOf(e), errorBody{Error: e.Public(), Issues: e.Issues})
}

// caller — личность из контекста запроса; без сессии — анонимная.
func caller(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// requireCaller отвечает 401 для анонимного запроса.
func requireCaller(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger) (auth.Identity, bool) {
	id := caller(r)
	if err := auth.Require(id); err != nil {
		writeError(w, r, log, apperr.Unauthenticated())
		return id, false
	}
	return id, true
}

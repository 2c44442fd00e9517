package handlers

import (
	"context"
	"net/http"
	"net/url"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"
	"GophVault/internal/schema"
	"GophVault/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// crudService — общий контракт сервисов хранилища.
type crudService[D, P, F, R any] interface {
	Create(ctx context.Context, caller auth.Identity, dto D) (R, error)
	GetByID(ctx context.Context, caller auth.Identity, id string) (R, error)
	Update(ctx context.Context, caller auth.Identity, id string, patch P) (R, error)
	Delete(ctx context.Context, caller auth.Identity, id string) error
	List(ctx context.Context, caller auth.Identity, params schema.ListParams, filter F) (service.Page[R], error)
}

// resource раздаёт CRUD одной сущности: D — тело создания, P — патч,
// F — фильтр списка, R — ответ.
type resource[D, P, F, R any] struct {
	svc    crudService[D, P, F, R]
	one    string
	many   string
	filter func(url.Values) F
	log    *zap.SugaredLogger
}

func (h *resource[D, P, F, R]) mount(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *resource[D, P, F, R]) create(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.log)
	if !ok {
		return
	}
	var dto D
	if err := schema.Decode(r.Body, &dto); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ro, err := h.svc.Create(r.Context(), who, dto)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeOne(w, http.StatusCreated, h.one, ro)
}

func (h *resource[D, P, F, R]) get(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.log)
	if !ok {
		return
	}
	ro, err := h.svc.GetByID(r.Context(), who, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeOne(w, http.StatusOK, h.one, ro)
}

func (h *resource[D, P, F, R]) update(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.log)
	if !ok {
		return
	}
	var patch P
	if err := schema.Decode(r.Body, &patch); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ro, err := h.svc.Update(r.Context(), who, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeOne(w, http.StatusOK, h.one, ro)
}

func (h *resource[D, P, F, R]) delete(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.log)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), who, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *resource[D, P, F, R]) list(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.log)
	if !ok {
		return
	}
	q := r.URL.Query()
	params, issues := schema.ParseListParams(q)
	if !issues.Empty() {
		writeError(w, r, h.log, apperr.Validation(issues))
		return
	}
	page, err := h.svc.List(r.Context(), who, params, h.filter(q))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, h.many, page.Items, page.Total)
}

// revealer — сервис, отдающий расшифрованное значение записи.
type revealer interface {
	Reveal(ctx context.Context, caller auth.Identity, id string) (schema.RevealedRo, error)
}

func revealHandler(svc revealer, key string, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireCaller(w, r, log)
		if !ok {
			return
		}
		ro, err := svc.Reveal(r.Context(), who, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeOne(w, http.StatusOK, key, ro)
	}
}

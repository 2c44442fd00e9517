package handlers

import (
	"net/http"

	"GophVault/internal/schema"
	"GophVault/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CredentialHandler обслуживает метаданные и историю учётных записей.
type CredentialHandler struct {
	CredentialService *service.CredentialService
	Logger            *zap.SugaredLogger
}

// NewCredentialHandler создаёт хендлер credentials
func NewCredentialHandler(svc *service.CredentialService, logger *zap.SugaredLogger) *CredentialHandler {
	return &CredentialHandler{CredentialService: svc, Logger: logger}
}

// CreateWithMetadataRequest — учётная запись вместе с необязательными метаданными.
type CreateWithMetadataRequest struct {
	Credential schema.CredentialDto          `json:"credential"`
	Metadata   *schema.CredentialMetadataDto `json:"metadata,omitempty"`
}

// CreateWithMetadata создаёт учётную запись и метаданные одной операцией.
func (h *CredentialHandler) CreateWithMetadata(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.Logger)
	if !ok {
		return
	}
	var req CreateWithMetadataRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	cred, meta, err := h.CredentialService.CreateWithMetadata(r.Context(), who, req.Credential, req.Metadata)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"credential": cred,
		"metadata":   meta,
	})
}

func (h *CredentialHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.Logger)
	if !ok {
		return
	}
	meta, err := h.CredentialService.GetMetadata(r.Context(), who, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeOne(w, http.StatusOK, "metadata", meta)
}

// UpsertMetadata полностью заменяет метаданные учётной записи.
func (h *CredentialHandler) UpsertMetadata(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.Logger)
	if !ok {
		return
	}
	var dto schema.CredentialMetadataDto
	if err := schema.Decode(r.Body, &dto); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	meta, err := h.CredentialService.UpsertMetadata(r.Context(), who, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeOne(w, http.StatusOK, "metadata", meta)
}

func (h *CredentialHandler) History(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r, h.Logger)
	if !ok {
		return
	}
	history, err := h.CredentialService.History(r.Context(), who, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeList(w, "history", history, int64(len(history)))
}

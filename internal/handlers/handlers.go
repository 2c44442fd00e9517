package handlers

import (
	"net/http"
	"net/url"

	"GophVault/internal/auth"
	"GophVault/internal/config"
	"GophVault/internal/middleware"
	"GophVault/internal/model"
	"GophVault/internal/schema"
	"GophVault/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Sessions проверяет сессию запроса и выставляет/снимает cookie сессии.
type Sessions interface {
	auth.Authenticator
	SetCookie(w http.ResponseWriter, userID string) error
	ClearCookie(w http.ResponseWriter)
}

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	vault *service.Vault,
	sessions Sessions,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(sessions))
	if cfg != nil && cfg.EnableHTTPS {
		r.Use(chimw.SetHeader("Strict-Transport-Security", "max-age=63072000"))
	}

	// Handlers
	userHandler := NewUserHandler(userService, sessions, logger)
	credentialHandler := NewCredentialHandler(vault.Credentials, logger)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)
	r.Get("/api/user/status", userHandler.Status)

	secrets := &resource[schema.SecretDto, schema.SecretPatch, schema.SecretFilter, schema.SecretRo]{
		svc: vault.Secrets, one: "secret", many: "secrets", log: logger,
		filter: func(q url.Values) schema.SecretFilter {
			return schema.SecretFilter{
				ContainerID: q.Get("containerId"),
				PlatformID:  q.Get("platformId"),
				Type:        model.SecretType(q.Get("type")),
				Status:      model.SecretStatus(q.Get("status")),
			}
		},
	}
	r.Route("/api/secrets", func(r chi.Router) {
		secrets.mount(r)
		r.Get("/{id}/reveal", revealHandler(vault.Secrets, "secret", logger))
	})

	credentials := &resource[schema.CredentialDto, schema.CredentialPatch, schema.CredentialFilter, schema.CredentialRo]{
		svc: vault.Credentials, one: "credential", many: "credentials", log: logger,
		filter: func(q url.Values) schema.CredentialFilter {
			return schema.CredentialFilter{
				ContainerID: q.Get("containerId"),
				PlatformID:  q.Get("platformId"),
				Status:      model.AccountStatus(q.Get("status")),
			}
		},
	}
	r.Route("/api/credentials", func(r chi.Router) {
		r.Post("/with-metadata", credentialHandler.CreateWithMetadata)
		credentials.mount(r)
		r.Get("/{id}/reveal", revealHandler(vault.Credentials, "credential", logger))
		r.Get("/{id}/metadata", credentialHandler.GetMetadata)
		r.Put("/{id}/metadata", credentialHandler.UpsertMetadata)
		r.Get("/{id}/history", credentialHandler.History)
	})

	containers := &resource[schema.ContainerDto, schema.ContainerPatch, schema.ContainerFilter, schema.ContainerRo]{
		svc: vault.Containers, one: "container", many: "containers", log: logger,
		filter: func(q url.Values) schema.ContainerFilter {
			return schema.ContainerFilter{Type: model.ContainerType(q.Get("type"))}
		},
	}
	r.Route("/api/containers", containers.mount)

	tags := &resource[schema.TagDto, schema.TagPatch, schema.TagFilter, schema.TagRo]{
		svc: vault.Tags, one: "tag", many: "tags", log: logger,
		filter: func(q url.Values) schema.TagFilter {
			return schema.TagFilter{ContainerID: q.Get("containerId")}
		},
	}
	r.Route("/api/tags", tags.mount)

	platforms := &resource[schema.PlatformDto, schema.PlatformPatch, schema.PlatformFilter, schema.PlatformRo]{
		svc: vault.Platforms, one: "platform", many: "platforms", log: logger,
		filter: func(q url.Values) schema.PlatformFilter {
			return schema.PlatformFilter{Status: model.PlatformStatus(q.Get("status"))}
		},
	}
	r.Route("/api/platforms", platforms.mount)

	return &Handler{Router: r}
}

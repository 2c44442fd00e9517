package service

import (
	"GophVault/internal/repo"

	"go.uber.org/zap"
)

// Vault объединяет сервисы хранилища поверх одного Store.
type Vault struct {
	Secrets     *SecretService
	Credentials *CredentialService
	Containers  *ContainerService
	Tags        *TagService
	Platforms   *PlatformService
}

func NewVault(store *repo.Store, logger *zap.SugaredLogger, opts ...Option) *Vault {
	return &Vault{
		Secrets:     NewSecretService(store, logger, opts...),
		Credentials: NewCredentialService(store, logger, opts...),
		Containers:  NewContainerService(store, logger, opts...),
		Tags:        NewTagService(store, logger, opts...),
		Platforms:   NewPlatformService(store, logger, opts...),
	}
}

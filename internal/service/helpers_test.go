package service

import (
	"context"
	"testing"

	"GophVault/internal/apperr"
	"GophVault/internal/auth"
	"GophVault/internal/model"
	"GophVault/internal/repo"
	"GophVault/internal/repo/repotest"
	"GophVault/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	alice = auth.Identity{UserID: "user-alice"}
	bob   = auth.Identity{UserID: "user-bob"}
	anon  = auth.Identity{}
)

type testEnv struct {
	db    *gorm.DB
	store *repo.Store
	vault *Vault
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repotest.NewDB(t)
	store := repo.NewStore(db)
	return &testEnv{db: db, store: store, vault: NewVault(store, zap.NewNop().Sugar())}
}

// globalPlatform создаёт глобальную платформу напрямую в хранилище.
func (e *testEnv) globalPlatform(t *testing.T, name string) string {
	t.Helper()
	p := &model.Platform{Name: name, Status: model.PlatformStatusApproved}
	require.NoError(t, e.store.Platforms().Create(context.Background(), p))
	return p.ID
}

func (e *testEnv) count(t *testing.T, tbl any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(tbl).Count(&n).Error)
	return n
}

func sp(s string) *string { return &s }

func secretDto(platformID string) schema.SecretDto {
	return schema.SecretDto{
		Name:          "stripe",
		Value:         "<ciphertext>",
		EncryptionKey: sp("<k>"),
		IV:            sp("<iv>"),
		Description:   sp("prod key"),
		Type:          model.SecretTypeAPIKey,
		PlatformID:    platformID,
	}
}

func credentialDto(platformID string) schema.CredentialDto {
	return schema.CredentialDto{
		Username:      "a@b.com",
		Password:      "<ciphertext>",
		EncryptionKey: sp("<k>"),
		IV:            sp("<iv>"),
		PlatformID:    platformID,
	}
}

func requireKind(t *testing.T, err error, kind error) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %T", err)
	return ae
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	ae := requireKind(t, err, apperr.ErrNotFound)
	assert.Empty(t, ae.Issues)
}

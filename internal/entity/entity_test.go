package entity

import (
	"testing"
	"time"

	"GophVault/internal/model"
	"GophVault/internal/schema"

	"github.com/stretchr/testify/assert"
)

func sp(s string) *string { return &s }

func storedSecret() *model.Secret {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.Secret{
		ID:                "s1",
		Name:              "stripe",
		Description:       sp("prod key"),
		Type:              model.SecretTypeAPIKey,
		Status:            model.SecretStatusActive,
		ValueEncryptionID: "e1",
		ValueEncryption: &model.EncryptedData{
			ID:     "e1",
			Sealed: model.Sealed{Ciphertext: "ct", EncryptionKey: "k", IV: "iv"},
		},
		PlatformID: "p1",
		UserID:     "u1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSecret_FlattensEnvelope(t *testing.T) {
	ro := Secret(storedSecret())
	assert.Equal(t, "ct", ro.Value)
	assert.Equal(t, "k", ro.EncryptionKey)
	assert.Equal(t, "iv", ro.IV)
	assert.Equal(t, "p1", ro.PlatformID)
	assert.Nil(t, ro.ContainerID)
}

func TestSecret_Idempotent(t *testing.T) {
	rec := storedSecret()
	assert.Equal(t, Secret(rec), Secret(rec))
	// запись не меняется проекцией
	assert.Equal(t, storedSecret(), rec)
}

func TestCredential_TagIDsAndEnvelope(t *testing.T) {
	c := &model.Credential{
		ID:       "c1",
		Username: "a@b.com",
		Status:   model.AccountStatusActive,
		PasswordEncryption: &model.EncryptedData{
			Sealed: model.Sealed{Ciphertext: "pw", EncryptionKey: "k", IV: "iv"},
		},
		Tags:       []model.Tag{{ID: "t1"}, {ID: "t2"}},
		PlatformID: "p1",
		UserID:     "u1",
	}
	ro := Credential(c)
	assert.Equal(t, "pw", ro.Password)
	assert.Equal(t, []string{"t1", "t2"}, ro.TagIDs)
	assert.Equal(t, ro, Credential(c))

	// без меток — пустой список, не null
	c.Tags = nil
	assert.Equal(t, []string{}, Credential(c).TagIDs)
}

func TestCredentialHistory_SplitsTriples(t *testing.T) {
	h := &model.CredentialHistory{
		ID:           "h1",
		CredentialID: "c1",
		UserID:       "u1",
		Old:          model.Sealed{Ciphertext: "old", EncryptionKey: "ok", IV: "oiv"},
		New:          model.Sealed{Ciphertext: "new", EncryptionKey: "nk", IV: "niv"},
	}
	ro := CredentialHistory(h)
	assert.Equal(t, schema.CredentialHistoryRo{
		ID:               "h1",
		OldPassword:      "old",
		OldEncryptionKey: "ok",
		OldIV:            "oiv",
		NewPassword:      "new",
		EncryptionKey:    "nk",
		IV:               "niv",
		UserID:           "u1",
		CredentialID:     "c1",
	}, ro)
}

func TestMap(t *testing.T) {
	tags := []model.Tag{{ID: "a", Name: "x"}, {ID: "b", Name: "y", UserID: sp("u1")}}
	ros := Map(tags, Tag)
	if assert.Len(t, ros, 2) {
		assert.Equal(t, "a", ros[0].ID)
		assert.Equal(t, "u1", *ros[1].UserID)
	}
	assert.Equal(t, []schema.PlatformRo{}, Map([]model.Platform(nil), Platform))
}

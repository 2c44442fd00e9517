package schema

import (
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/model"
)

// SecretDto — данные для создания секрета.
// Value — шифртекст, если переданы EncryptionKey и IV, иначе открытый текст,
// который сервер зашифрует сам.
type SecretDto struct {
	Name          string             `json:"name"`
	Value         string             `json:"value"`
	EncryptionKey *string            `json:"encryptionKey,omitempty"`
	IV            *string            `json:"iv,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Type          model.SecretType   `json:"type"`
	Status        model.SecretStatus `json:"status,omitempty"`
	ExpiresAt     *string            `json:"expiresAt,omitempty"`
	PlatformID    string             `json:"platformId"`
	ContainerID   *string            `json:"containerId,omitempty"`
}

// Normalize применяет значения по умолчанию.
func (d *SecretDto) Normalize() {
	if d.Status == "" {
		d.Status = model.SecretStatusActive
	}
	d.ContainerID = nonEmpty(d.ContainerID)
}

// Validate возвращает все нарушения в порядке полей.
func (d *SecretDto) Validate() apperr.Issues {
	var is apperr.Issues
	required(&is, "name", d.Name, "Name is required")
	required(&is, "value", d.Value, "Value is required")
	checkKeyPair(&is, d.EncryptionKey, d.IV)
	oneOf(&is, "type", d.Type, model.SecretTypes)
	if d.Status != "" {
		oneOf(&is, "status", d.Status, model.SecretStatuses)
	}
	checkTime(&is, "expiresAt", d.ExpiresAt)
	required(&is, "platformId", d.PlatformID, "Platform is required")
	return is
}

// SecretPatch — частичное обновление секрета.
// Новое Value заменяет конверт целиком.
type SecretPatch struct {
	Name          Optional[string]             `json:"name,omitzero"`
	Value         Optional[string]             `json:"value,omitzero"`
	EncryptionKey Optional[string]             `json:"encryptionKey,omitzero"`
	IV            Optional[string]             `json:"iv,omitzero"`
	Description   Optional[string]             `json:"description,omitzero"`
	Type          Optional[model.SecretType]   `json:"type,omitzero"`
	Status        Optional[model.SecretStatus] `json:"status,omitzero"`
	ExpiresAt     Optional[string]             `json:"expiresAt,omitzero"`
	PlatformID    Optional[string]             `json:"platformId,omitzero"`
	ContainerID   Optional[string]             `json:"containerId,omitzero"`
}

func (p *SecretPatch) Validate() apperr.Issues {
	var is apperr.Issues
	requiredPatch(&is, "name", p.Name, "Name is required")
	requiredPatch(&is, "value", p.Value, "Value is required")
	validateRotation(&is, "value", p.Value, p.EncryptionKey, p.IV)
	optOneOf(&is, "type", p.Type, model.SecretTypes)
	optOneOf(&is, "status", p.Status, model.SecretStatuses)
	checkTime(&is, "expiresAt", ptr(p.ExpiresAt))
	requiredPatch(&is, "platformId", p.PlatformID, "Platform is required")
	return is
}

// Rotates сообщает, что патч заменяет защищённое значение.
func (p *SecretPatch) Rotates() bool { return p.Value.Present() }

// Columns строит набор изменяемых колонок. Конверт сюда не входит.
func (p *SecretPatch) Columns() map[string]any {
	patch := map[string]any{}
	setColumn(patch, "name", p.Name)
	setColumn(patch, "description", p.Description)
	setColumn(patch, "type", p.Type)
	setColumn(patch, "status", p.Status)
	if p.ExpiresAt.Set {
		patch["expires_at"] = ParseTime(ptr(p.ExpiresAt))
	}
	setColumn(patch, "platform_id", p.PlatformID)
	if p.ContainerID.Set {
		patch["container_id"] = nonEmpty(ptr(p.ContainerID))
	}
	return patch
}

// SecretRo — секрет в ответе. Поля конверта подняты на верхний уровень.
type SecretRo struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Value         string             `json:"value"`
	EncryptionKey string             `json:"encryptionKey"`
	IV            string             `json:"iv"`
	Description   *string            `json:"description"`
	Type          model.SecretType   `json:"type"`
	Status        model.SecretStatus `json:"status"`
	ExpiresAt     *time.Time         `json:"expiresAt"`
	PlatformID    string             `json:"platformId"`
	ContainerID   *string            `json:"containerId"`
	UserID        string             `json:"userId"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// validateRotation проверяет замену защищённого значения в патче:
// ключ и IV допустимы только вместе с новым значением и только парой.
func validateRotation(is *apperr.Issues, valuePath string, value, key, iv Optional[string]) {
	notNull(is, "encryptionKey", key)
	notNull(is, "iv", iv)
	if !value.Present() && (key.Present() || iv.Present()) {
		is.Add(valuePath, "Required when replacing encryptionKey or iv")
		return
	}
	checkKeyPair(is, ptr(key), ptr(iv))
}

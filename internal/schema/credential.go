package schema

import (
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/model"
)

// CredentialDto — данные для создания учётной записи.
// Password — шифртекст, если переданы EncryptionKey и IV, иначе открытый текст.
type CredentialDto struct {
	Username      string              `json:"username"`
	Password      string              `json:"password"`
	EncryptionKey *string             `json:"encryptionKey,omitempty"`
	IV            *string             `json:"iv,omitempty"`
	Status        model.AccountStatus `json:"status,omitempty"`
	Description   *string             `json:"description,omitempty"`
	LoginURL      *string             `json:"loginUrl,omitempty"`
	PlatformID    string              `json:"platformId"`
	ContainerID   *string             `json:"containerId,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
}

func (d *CredentialDto) Normalize() {
	if d.Status == "" {
		d.Status = model.AccountStatusActive
	}
	d.ContainerID = nonEmpty(d.ContainerID)
	d.LoginURL = nonEmpty(d.LoginURL)
	d.Tags = dedupe(d.Tags)
}

func (d *CredentialDto) Validate() apperr.Issues {
	var is apperr.Issues
	required(&is, "username", d.Username, "Username is required")
	required(&is, "password", d.Password, "Password is required")
	checkKeyPair(&is, d.EncryptionKey, d.IV)
	if d.Status != "" {
		oneOf(&is, "status", d.Status, model.AccountStatuses)
	}
	checkURL(&is, "loginUrl", d.LoginURL)
	required(&is, "platformId", d.PlatformID, "Platform is required")
	for _, id := range d.Tags {
		if id == "" {
			is.Add("tags", "Tag id must not be empty")
			break
		}
	}
	return is
}

// CredentialPatch — частичное обновление учётной записи.
// Новый Password меняет конверт и пишет запись в историю.
// Tags заменяет набор меток целиком, null очищает его.
type CredentialPatch struct {
	Username      Optional[string]              `json:"username,omitzero"`
	Password      Optional[string]              `json:"password,omitzero"`
	EncryptionKey Optional[string]              `json:"encryptionKey,omitzero"`
	IV            Optional[string]              `json:"iv,omitzero"`
	Status        Optional[model.AccountStatus] `json:"status,omitzero"`
	Description   Optional[string]              `json:"description,omitzero"`
	LoginURL      Optional[string]              `json:"loginUrl,omitzero"`
	PlatformID    Optional[string]              `json:"platformId,omitzero"`
	ContainerID   Optional[string]              `json:"containerId,omitzero"`
	Tags          Optional[[]string]            `json:"tags,omitzero"`
}

func (p *CredentialPatch) Validate() apperr.Issues {
	var is apperr.Issues
	requiredPatch(&is, "username", p.Username, "Username is required")
	requiredPatch(&is, "password", p.Password, "Password is required")
	validateRotation(&is, "password", p.Password, p.EncryptionKey, p.IV)
	optOneOf(&is, "status", p.Status, model.AccountStatuses)
	checkURL(&is, "loginUrl", ptr(p.LoginURL))
	requiredPatch(&is, "platformId", p.PlatformID, "Platform is required")
	if p.Tags.Present() {
		for _, id := range p.Tags.Value {
			if id == "" {
				is.Add("tags", "Tag id must not be empty")
				break
			}
		}
	}
	return is
}

func (p *CredentialPatch) Rotates() bool { return p.Password.Present() }

// TagIDs возвращает новый набор меток и признак, что его нужно применить.
func (p *CredentialPatch) TagIDs() ([]string, bool) {
	if !p.Tags.Set {
		return nil, false
	}
	return dedupe(p.Tags.Value), true
}

func (p *CredentialPatch) Columns() map[string]any {
	patch := map[string]any{}
	setColumn(patch, "username", p.Username)
	setColumn(patch, "status", p.Status)
	setColumn(patch, "description", p.Description)
	if p.LoginURL.Set {
		patch["login_url"] = nonEmpty(ptr(p.LoginURL))
	}
	setColumn(patch, "platform_id", p.PlatformID)
	if p.ContainerID.Set {
		patch["container_id"] = nonEmpty(ptr(p.ContainerID))
	}
	return patch
}

// CredentialRo — учётная запись в ответе.
type CredentialRo struct {
	ID            string              `json:"id"`
	Username      string              `json:"username"`
	Password      string              `json:"password"`
	EncryptionKey string              `json:"encryptionKey"`
	IV            string              `json:"iv"`
	Status        model.AccountStatus `json:"status"`
	Description   *string             `json:"description"`
	LoginURL      *string             `json:"loginUrl"`
	LastViewed    *time.Time          `json:"lastViewed"`
	PlatformID    string              `json:"platformId"`
	ContainerID   *string             `json:"containerId"`
	UserID        string              `json:"userId"`
	TagIDs        []string            `json:"tagIds"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// CredentialMetadataDto — дополнительные сведения об учётной записи.
type CredentialMetadataDto struct {
	RecoveryEmail *string `json:"recoveryEmail,omitempty"`
	AccountID     *string `json:"accountId,omitempty"`
	IBAN          *string `json:"iban,omitempty"`
	BankName      *string `json:"bankName,omitempty"`
	OtherInfo     *string `json:"otherInfo,omitempty"`
	Has2FA        *bool   `json:"has2FA,omitempty"`
}

func (d *CredentialMetadataDto) Normalize() {
	if d.Has2FA == nil {
		f := false
		d.Has2FA = &f
	}
}

func (d *CredentialMetadataDto) Validate() apperr.Issues {
	var is apperr.Issues
	checkEmail(&is, "recoveryEmail", d.RecoveryEmail)
	return is
}

// CredentialMetadataRo — метаданные в ответе.
type CredentialMetadataRo struct {
	ID            string  `json:"id"`
	RecoveryEmail *string `json:"recoveryEmail"`
	AccountID     *string `json:"accountId"`
	IBAN          *string `json:"iban"`
	BankName      *string `json:"bankName"`
	OtherInfo     *string `json:"otherInfo"`
	Has2FA        bool    `json:"has2FA"`
	CredentialID  string  `json:"credentialId"`
}

// CredentialHistoryRo — запись о смене пароля. encryptionKey и iv относятся
// к новому паролю, old* — к прежнему.
type CredentialHistoryRo struct {
	ID               string    `json:"id"`
	OldPassword      string    `json:"oldPassword"`
	OldEncryptionKey string    `json:"oldEncryptionKey"`
	OldIV            string    `json:"oldIv"`
	NewPassword      string    `json:"newPassword"`
	EncryptionKey    string    `json:"encryptionKey"`
	IV               string    `json:"iv"`
	ChangedAt        time.Time `json:"changedAt"`
	UserID           string    `json:"userId"`
	CredentialID     string    `json:"credentialId"`
}

// RevealedRo — расшифрованное значение секрета или пароля.
type RevealedRo struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package schema

import (
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/model"
)

// PlatformDto — данные для создания платформы пользователя.
type PlatformDto struct {
	Name     string               `json:"name"`
	Logo     *string              `json:"logo,omitempty"`
	LoginURL *string              `json:"loginUrl,omitempty"`
	Status   model.PlatformStatus `json:"status,omitempty"`
}

func (d *PlatformDto) Normalize() {
	if d.Status == "" {
		d.Status = model.PlatformStatusPending
	}
	d.Logo = nonEmpty(d.Logo)
	d.LoginURL = nonEmpty(d.LoginURL)
}

func (d *PlatformDto) Validate() apperr.Issues {
	var is apperr.Issues
	required(&is, "name", d.Name, "Name is required")
	checkURL(&is, "loginUrl", d.LoginURL)
	if d.Status != "" {
		oneOf(&is, "status", d.Status, model.PlatformStatuses)
	}
	return is
}

type PlatformPatch struct {
	Name     Optional[string]               `json:"name,omitzero"`
	Logo     Optional[string]               `json:"logo,omitzero"`
	LoginURL Optional[string]               `json:"loginUrl,omitzero"`
	Status   Optional[model.PlatformStatus] `json:"status,omitzero"`
}

func (p *PlatformPatch) Validate() apperr.Issues {
	var is apperr.Issues
	requiredPatch(&is, "name", p.Name, "Name is required")
	checkURL(&is, "loginUrl", ptr(p.LoginURL))
	optOneOf(&is, "status", p.Status, model.PlatformStatuses)
	return is
}

func (p *PlatformPatch) Columns() map[string]any {
	patch := map[string]any{}
	setColumn(patch, "name", p.Name)
	if p.Logo.Set {
		patch["logo"] = nonEmpty(ptr(p.Logo))
	}
	if p.LoginURL.Set {
		patch["login_url"] = nonEmpty(ptr(p.LoginURL))
	}
	setColumn(patch, "status", p.Status)
	return patch
}

// PlatformRo — платформа в ответе. UserID == nil у глобальных платформ.
type PlatformRo struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Status    model.PlatformStatus `json:"status"`
	Logo      *string              `json:"logo"`
	LoginURL  *string              `json:"loginUrl"`
	UserID    *string              `json:"userId"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

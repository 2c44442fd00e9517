package schema

import (
	"time"

	"GophVault/internal/apperr"
	"GophVault/internal/model"
)

// ContainerDto — данные для создания контейнера.
type ContainerDto struct {
	Name        string              `json:"name"`
	Icon        string              `json:"icon"`
	Description *string             `json:"description,omitempty"`
	Type        model.ContainerType `json:"type,omitempty"`
}

func (d *ContainerDto) Normalize() {
	if d.Type == "" {
		d.Type = model.ContainerTypeMixed
	}
}

func (d *ContainerDto) Validate() apperr.Issues {
	var is apperr.Issues
	required(&is, "name", d.Name, "Name is required")
	required(&is, "icon", d.Icon, "Icon is required")
	if d.Type != "" {
		oneOf(&is, "type", d.Type, model.ContainerTypes)
	}
	return is
}

type ContainerPatch struct {
	Name        Optional[string]              `json:"name,omitzero"`
	Icon        Optional[string]              `json:"icon,omitzero"`
	Description Optional[string]              `json:"description,omitzero"`
	Type        Optional[model.ContainerType] `json:"type,omitzero"`
}

func (p *ContainerPatch) Validate() apperr.Issues {
	var is apperr.Issues
	requiredPatch(&is, "name", p.Name, "Name is required")
	requiredPatch(&is, "icon", p.Icon, "Icon is required")
	optOneOf(&is, "type", p.Type, model.ContainerTypes)
	return is
}

func (p *ContainerPatch) Columns() map[string]any {
	patch := map[string]any{}
	setColumn(patch, "name", p.Name)
	setColumn(patch, "icon", p.Icon)
	setColumn(patch, "description", p.Description)
	setColumn(patch, "type", p.Type)
	return patch
}

type ContainerRo struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Icon        string              `json:"icon"`
	Description *string             `json:"description"`
	Type        model.ContainerType `json:"type"`
	UserID      string              `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

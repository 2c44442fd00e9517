package schema

import (
	"time"

	"GophVault/internal/apperr"
)

type TagDto struct {
	Name        string  `json:"name"`
	Color       *string `json:"color,omitempty"`
	ContainerID *string `json:"containerId,omitempty"`
}

func (d *TagDto) Normalize() {
	d.ContainerID = nonEmpty(d.ContainerID)
}

func (d *TagDto) Validate() apperr.Issues {
	var is apperr.Issues
	required(&is, "name", d.Name, "Name is required")
	return is
}

type TagPatch struct {
	Name        Optional[string] `json:"name,omitzero"`
	Color       Optional[string] `json:"color,omitzero"`
	ContainerID Optional[string] `json:"containerId,omitzero"`
}

func (p *TagPatch) Validate() apperr.Issues {
	var is apperr.Issues
	requiredPatch(&is, "name", p.Name, "Name is required")
	return is
}

func (p *TagPatch) Columns() map[string]any {
	patch := map[string]any{}
	setColumn(patch, "name", p.Name)
	setColumn(patch, "color", p.Color)
	if p.ContainerID.Set {
		patch["container_id"] = nonEmpty(ptr(p.ContainerID))
	}
	return patch
}

type TagRo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       *string   `json:"color"`
	UserID      *string   `json:"userId"`
	ContainerID *string   `json:"containerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

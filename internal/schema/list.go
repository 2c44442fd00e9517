package schema

import (
	"math"
	"net/url"
	"strconv"

	"GophVault/internal/apperr"
	"GophVault/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams — параметры страницы списка.
type ListParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize подставляет значения по умолчанию вместо нулевых.
func (p *ListParams) Normalize() {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
}

// Validate проверяет границы. maxLimit <= 0 означает MaxLimit.
func (p ListParams) Validate(maxLimit int) apperr.Issues {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	var is apperr.Issues
	limitOK := p.Limit >= 1 && p.Limit <= maxLimit
	switch {
	case p.Page < 1:
		is.Add("page", "Number must be greater than or equal to 1")
	case limitOK && p.Page-1 > math.MaxInt/p.Limit:
		// смещение (Page-1)*Limit не помещается в int
		is.Add("page", "Number is too large")
	}
	if !limitOK {
		is.Add("limit", "Number must be between 1 and "+strconv.Itoa(maxLimit))
	}
	return is
}

// Skip — смещение первой записи страницы.
func (p ListParams) Skip() int { return (p.Page - 1) * p.Limit }

// ParseListParams читает page и limit из строки запроса.
func ParseListParams(q url.Values) (ListParams, apperr.Issues) {
	var (
		p  ListParams
		is apperr.Issues
	)
	p.Page = queryInt(&is, q, "page")
	p.Limit = queryInt(&is, q, "limit")
	p.Normalize()
	return p, is
}

func queryInt(is *apperr.Issues, q url.Values, key string) int {
	s := q.Get(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		is.Add(key, "Expected number, received '"+s+"'")
		return 0
	}
	if n == 0 {
		// явный 0 не должен превращаться в значение по умолчанию
		return -1
	}
	return n
}

// SecretFilter — необязательные фильтры списка секретов.
type SecretFilter struct {
	ContainerID string
	PlatformID  string
	Type        model.SecretType
	Status      model.SecretStatus
}

func (f SecretFilter) Validate() apperr.Issues {
	var is apperr.Issues
	if f.Type != "" {
		oneOf(&is, "type", f.Type, model.SecretTypes)
	}
	if f.Status != "" {
		oneOf(&is, "status", f.Status, model.SecretStatuses)
	}
	return is
}

func (f SecretFilter) Columns() map[string]any {
	return map[string]any{
		"container_id": f.ContainerID,
		"platform_id":  f.PlatformID,
		"type":         string(f.Type),
		"status":       string(f.Status),
	}
}

type CredentialFilter struct {
	ContainerID string
	PlatformID  string
	Status      model.AccountStatus
}

func (f CredentialFilter) Validate() apperr.Issues {
	var is apperr.Issues
	if f.Status != "" {
		oneOf(&is, "status", f.Status, model.AccountStatuses)
	}
	return is
}

func (f CredentialFilter) Columns() map[string]any {
	return map[string]any{
		"container_id": f.ContainerID,
		"platform_id":  f.PlatformID,
		"status":       string(f.Status),
	}
}

type ContainerFilter struct {
	Type model.ContainerType
}

func (f ContainerFilter) Validate() apperr.Issues {
	var is apperr.Issues
	if f.Type != "" {
		oneOf(&is, "type", f.Type, model.ContainerTypes)
	}
	return is
}

func (f ContainerFilter) Columns() map[string]any {
	return map[string]any{"type": string(f.Type)}
}

type TagFilter struct {
	ContainerID string
}

func (f TagFilter) Validate() apperr.Issues { return nil }

func (f TagFilter) Columns() map[string]any {
	return map[string]any{"container_id": f.ContainerID}
}

type PlatformFilter struct {
	Status model.PlatformStatus
}

func (f PlatformFilter) Validate() apperr.Issues {
	var is apperr.Issues
	if f.Status != "" {
		oneOf(&is, "status", f.Status, model.PlatformStatuses)
	}
	return is
}

func (f PlatformFilter) Columns() map[string]any {
	return map[string]any{"status": string(f.Status)}
}

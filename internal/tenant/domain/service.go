package domain

import (
	"context"
	"errors"
)

type ListTenantRequest struct {
	Limit  int
	Offset int
}

type ListTenantResponse struct {
	Tenants []Tenant `json:"tenants"`
}

type Service interface {
	Get(ctx context.Context, id string) (Tenant, error)
	Create(ctx context.Context, tenant Tenant) (Tenant, error)
	Update(ctx context.Context, tenant Tenant) (Tenant, error)
	List(ctx context.Context, req ListTenantRequest) (ListTenantResponse, error)
}

type Repository interface {
	Get(ctx context.Context, id string) (*Tenant, error)
	Insert(ctx context.Context, tenant *Tenant) error
	Update(ctx context.Context, tenant *Tenant) error
	List(ctx context.Context, limit, offset int) ([]Tenant, error)
}

var (
	ErrNotFound  = errors.New("tenant_not_found")
	ErrExists    = errors.New("tenant_exists")
	ErrInvalidID = errors.New("invalid_tenant_id")
)

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/numera/internal/clock"
	eventlogdomain "github.com/smallbiznis/numera/internal/eventlog/domain"
	"github.com/smallbiznis/numera/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	EventLog eventlogdomain.Service `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	eventLog eventlogdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("tenant.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		eventLog: p.EventLog,
	}
}

func (s *Service) recordMutation(ctx context.Context, tenantID, message string) {
	if s.eventLog == nil {
		return
	}
	s.eventLog.Append(ctx, tenantID, eventlogdomain.LevelInfo, message, nil)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Tenant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Tenant{}, domain.ErrInvalidID
	}

	tenant, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}
	return *tenant, nil
}

func (s *Service) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	tenant.ID = strings.TrimSpace(tenant.ID)
	tenant.Name = strings.TrimSpace(tenant.Name)
	if tenant.ID == "" {
		return domain.Tenant{}, domain.ErrInvalidID
	}

	if _, err := s.repo.Get(ctx, tenant.ID); err == nil {
		return domain.Tenant{}, domain.ErrExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Tenant{}, err
	}

	now := s.clock.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	if tenant.Metadata == nil {
		tenant.Metadata = datatypes.JSONMap{}
	}

	if err := s.repo.Insert(ctx, &tenant); err != nil {
		return domain.Tenant{}, err
	}

	s.log.Info("tenant created", zap.String("tenant_id", tenant.ID))
	s.recordMutation(ctx, tenant.ID, "tenant created")
	return tenant, nil
}

func (s *Service) Update(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	tenant.ID = strings.TrimSpace(tenant.ID)
	if tenant.ID == "" {
		return domain.Tenant{}, domain.ErrInvalidID
	}

	existing, err := s.repo.Get(ctx, tenant.ID)
	if err != nil {
		return domain.Tenant{}, err
	}

	if strings.TrimSpace(tenant.Name) == "" {
		tenant.Name = existing.Name
	}
	if strings.TrimSpace(tenant.APIToken) == "" {
		tenant.APIToken = existing.APIToken
	}
	if tenant.Metadata == nil {
		tenant.Metadata = existing.Metadata
	}
	tenant.CreatedAt = existing.CreatedAt
	tenant.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, &tenant); err != nil {
		return domain.Tenant{}, err
	}

	s.log.Info("tenant updated", zap.String("tenant_id", tenant.ID))
	s.recordMutation(ctx, tenant.ID, "tenant updated")
	return tenant, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTenantRequest) (domain.ListTenantResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	tenants, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return domain.ListTenantResponse{}, err
	}
	return domain.ListTenantResponse{Tenants: tenants}, nil
}

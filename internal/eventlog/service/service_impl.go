package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/eventlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("eventlog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, tenantID string, level domain.Level, message string, fields map[string]any) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if level == "" {
		level = domain.LevelInfo
	}

	entry := &domain.EventLog{
		ID:        s.genID.Generate(),
		TenantID:  strings.TrimSpace(tenantID),
		Level:     level,
		Message:   message,
		Fields:    datatypes.JSONMap(fields),
		CreatedAt: s.clock.Now(),
	}
	if entry.Fields == nil {
		entry.Fields = datatypes.JSONMap{}
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		// Best effort by contract; never propagate.
		s.log.Warn("event log append failed",
			zap.String("tenant_id", entry.TenantID),
			zap.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListEventLogResponse, error) {
	if filter.StartAt != nil && filter.EndAt != nil && filter.EndAt.Before(*filter.StartAt) {
		return domain.ListEventLogResponse{}, domain.ErrInvalidTimeRange
	}

	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListEventLogResponse{}, err
	}
	return domain.ListEventLogResponse{Logs: logs}, nil
}

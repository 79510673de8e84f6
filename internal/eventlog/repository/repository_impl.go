package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/numera/internal/eventlog/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, entry *domain.EventLog) error {
	if entry == nil {
		return nil
	}
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO event_logs (id, tenant_id, level, message, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.TenantID,
		entry.Level,
		entry.Message,
		entry.Fields,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, filter domain.ListFilter) ([]domain.EventLog, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.EventLog{})

	if tenantID := strings.TrimSpace(filter.TenantID); tenantID != "" {
		stmt = stmt.Where("tenant_id = ?", tenantID)
	}
	if level := strings.TrimSpace(string(filter.Level)); level != "" {
		stmt = stmt.Where("level = ?", level)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", filter.StartAt.UTC())
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", filter.EndAt.UTC())
	}

	limit := filter.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []domain.EventLog
	err := stmt.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

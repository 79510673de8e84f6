// Package domain contains the event log model. Entries are best-effort
// request history, not an audit of record: a failed append never alters
// the outcome of the request that produced it.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// EventLog is one recorded submission event.
type EventLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID  string            `gorm:"type:text;index" json:"tenant_id"`
	Level     Level             `gorm:"type:text;not null" json:"level"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"fields"`
	CreatedAt time.Time         `gorm:"not null;index;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (EventLog) TableName() string { return "event_logs" }

type ListFilter struct {
	TenantID string
	Level    Level
	StartAt  *time.Time
	EndAt    *time.Time
	Limit    int
	Offset   int
}

type ListEventLogResponse struct {
	Logs []EventLog `json:"logs"`
}

type Service interface {
	// Append records an event. It never returns an error; failures are
	// logged and swallowed.
	Append(ctx context.Context, tenantID string, level Level, message string, fields map[string]any)
	List(ctx context.Context, filter ListFilter) (ListEventLogResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, entry *EventLog) error
	List(ctx context.Context, filter ListFilter) ([]EventLog, error)
}

var ErrInvalidTimeRange = errors.New("invalid_time_range")

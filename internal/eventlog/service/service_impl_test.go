package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/eventlog/domain"
	eventlogrepo "github.com/smallbiznis/numera/internal/eventlog/repository"
	eventlogservice "github.com/smallbiznis/numera/internal/eventlog/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.EventLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	svc := eventlogservice.NewService(eventlogservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  eventlogrepo.NewRepository(db),
	})
	return svc, clk
}

func TestAppendAndList(t *testing.T) {
	svc, clk := setupService(t)
	ctx := context.Background()

	svc.Append(ctx, "agency-1", domain.LevelInfo, "invoice submitted", map[string]any{"number": "INV-2024-00001"})
	clk.Advance(time.Minute)
	svc.Append(ctx, "agency-1", domain.LevelError, "submission failed", map[string]any{"status": 502})
	svc.Append(ctx, "agency-2", domain.LevelInfo, "invoice submitted", nil)

	resp, err := svc.List(ctx, domain.ListFilter{TenantID: "agency-1"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 2)
	assert.Equal(t, "submission failed", resp.Logs[0].Message, "newest first")

	resp, err = svc.List(ctx, domain.ListFilter{Level: domain.LevelError})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "agency-1", resp.Logs[0].TenantID)
}

func TestAppendIgnoresEmptyMessage(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	svc.Append(ctx, "agency-1", domain.LevelInfo, "  ", nil)

	resp, err := svc.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, resp.Logs)
}

func TestListRejectsInvertedTimeRange(t *testing.T) {
	svc, _ := setupService(t)

	start := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := svc.List(context.Background(), domain.ListFilter{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestAppendNeverPanicsOnRepoFailure(t *testing.T) {
	// Closed database: insert fails, Append must swallow it.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := eventlogservice.NewService(eventlogservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Now()),
		Repo:  eventlogrepo.NewRepository(db),
	})

	assert.NotPanics(t, func() {
		svc.Append(context.Background(), "agency-1", domain.LevelInfo, "msg", nil)
	})
}

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/numera/internal/tenant/domain"
	tenantrepo "github.com/smallbiznis/numera/internal/tenant/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) domain.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Tenant{}))

	return tenantrepo.NewRepository(db)
}

func tenantRow(id string) *domain.Tenant {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return &domain.Tenant{
		ID:        id,
		Name:      "Acme Media",
		APIToken:  "token-1",
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertDuplicateIDIsExists(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, tenantRow("agency-1")))

	// A second insert for the same ID hits the primary key, the path a
	// concurrent create takes when both pass the service precheck.
	err := repo.Insert(ctx, tenantRow("agency-1"))
	assert.ErrorIs(t, err, domain.ErrExists)
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, tenantRow("agency-1")))

	got, err := repo.Get(ctx, "agency-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Media", got.Name)

	_, err = repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

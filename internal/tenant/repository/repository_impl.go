package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/numera/internal/tenant/domain"
	"github.com/smallbiznis/numera/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *repository) Insert(ctx context.Context, tenant *domain.Tenant) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO tenants (id, name, invoice_format, api_token, contact_id, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tenant.ID,
		tenant.Name,
		tenant.InvoiceFormat,
		tenant.APIToken,
		tenant.ContactID,
		tenant.Metadata,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	).Error
	if db.IsDuplicateKeyErr(err) {
		// Concurrent creates can both pass the service precheck; the
		// primary key violation surfaces here.
		return domain.ErrExists
	}
	return err
}

func (r *repository) Update(ctx context.Context, tenant *domain.Tenant) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE tenants
		 SET name = ?, invoice_format = ?, api_token = ?, contact_id = ?, metadata = ?, updated_at = ?
		 WHERE id = ?`,
		tenant.Name,
		tenant.InvoiceFormat,
		tenant.APIToken,
		tenant.ContactID,
		tenant.Metadata,
		tenant.UpdatedAt,
		tenant.ID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	err := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

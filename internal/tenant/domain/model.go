// Package domain contains persistence models for tenant configuration.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Tenant is one configured customer/agency. The ID is externally
// assigned (an agency code), not generated here.
type Tenant struct {
	ID            string            `gorm:"primaryKey;type:text" json:"id"`
	Name          string            `gorm:"type:text;not null" json:"name"`
	InvoiceFormat string            `gorm:"type:text" json:"invoice_format"`
	APIToken      string            `gorm:"column:api_token;type:text;not null" json:"-"`
	ContactID     string            `gorm:"type:text" json:"contact_id"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Package domain defines the contract with the downstream billing
// provider. The core never interprets the provider response beyond an
// identifier on success and a status/body on failure.
package domain

import (
	"context"
	"errors"
	"fmt"
)

// LineItem is one billable line on the outbound invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
}

// TaxSpec names the tax treatment applied to every line.
type TaxSpec struct {
	Rate      string `json:"rate"`
	Inclusive bool   `json:"inclusive"`
}

// Payload is the outbound invoice submission.
type Payload struct {
	TenantID      string     `json:"tenant_id"`
	ContactID     string     `json:"contact_id"`
	APIToken      string     `json:"-"`
	InvoiceNumber string     `json:"invoice_number"`
	Reference     string     `json:"reference,omitempty"`
	Items         []LineItem `json:"items"`
	Tax           *TaxSpec   `json:"tax,omitempty"`
}

// Result carries the provider-assigned identifier on success.
type Result struct {
	ID string
}

// Submitter sends an invoice to the downstream provider. At most one
// attempt per call; retry policy belongs to the caller.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Result, error)
}

// RemoteError is a downstream rejection with the provider's own status.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("billing provider returned status %d", e.StatusCode)
}

var (
	ErrNotConfigured  = errors.New("billing_provider_not_configured")
	ErrInvalidPayload = errors.New("invalid_billing_payload")
)

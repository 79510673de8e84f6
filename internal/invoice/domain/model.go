// Package domain defines the invoice submission request surface and its
// error taxonomy. Each error category maps to a distinct, stable status
// so clients can tell "fix your configuration", "retry later" and "stop
// retrying this transaction" apart.
package domain

import (
	"context"
	"errors"
	"fmt"
)

// LineItem is one billable line of a submission request.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
}

// TaxSpec names the tax treatment for the invoice.
type TaxSpec struct {
	Rate      string `json:"rate"`
	Inclusive bool   `json:"inclusive"`
}

// SubmitRequest is a tenant-scoped invoice creation request. The
// transaction id correlates client retries of the same logical
// transaction; it is what the failure ledger bounds.
type SubmitRequest struct {
	TenantID      string     `json:"tenant_id"`
	TransactionID string     `json:"transaction_id"`
	Reference     string     `json:"reference"`
	Items         []LineItem `json:"items"`
	Tax           *TaxSpec   `json:"tax"`
}

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	Counter    int64  `json:"counter"`
	Number     string `json:"invoice_number"`
	ProviderID string `json:"provider_id"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}

var (
	// ErrTenantNotConfigured: rejected before any number is issued and
	// without touching the failure ledger.
	ErrTenantNotConfigured = errors.New("tenant_not_configured")

	// ErrNumbering: the atomic store was unavailable while issuing. Fatal
	// for the request, not attributed to the transaction.
	ErrNumbering = errors.New("numbering_unavailable")

	// ErrPoisonPill: the transaction's failure count reached the
	// threshold; further retries are rejected outright until the window
	// expires.
	ErrPoisonPill = errors.New("transaction_poisoned")

	ErrInvalidRequest = errors.New("invalid_request")
)

// DownstreamError is a transient submission failure, carrying the
// provider's own status when one was available.
type DownstreamError struct {
	StatusCode int
	Body       string
	Failures   int64
}

func (e *DownstreamError) Error() string {
	if e.StatusCode == 0 {
		return "downstream submission failed"
	}
	return fmt.Sprintf("downstream submission failed with status %d", e.StatusCode)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/numera/internal/eventlog/domain"
	invoicedomain "github.com/smallbiznis/numera/internal/invoice/domain"
	"github.com/smallbiznis/numera/internal/invoice/issuer"
	"github.com/smallbiznis/numera/internal/invoice/ledger"
	obsmetrics "github.com/smallbiznis/numera/internal/observability/metrics"
	billingdomain "github.com/smallbiznis/numera/internal/providers/billing/domain"
	tenantdomain "github.com/smallbiznis/numera/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	TenantSvc  tenantdomain.Service
	Issuer     *issuer.Issuer
	Ledger     *ledger.FailureLedger
	Submitter  billingdomain.Submitter
	EventLog   domain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	tenantSvc  tenantdomain.Service
	issuer     *issuer.Issuer
	ledger     *ledger.FailureLedger
	submitter  billingdomain.Submitter
	eventLog   domain.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		log:        p.Log.Named("invoice.service"),
		tenantSvc:  p.TenantSvc,
		issuer:     p.Issuer,
		ledger:     p.Ledger,
		submitter:  p.Submitter,
		eventLog:   p.EventLog,
		obsMetrics: p.ObsMetrics,
	}
}

// Submit runs one invoice submission end to end: tenant lookup, number
// issuance, downstream call, failure accounting. It holds no state of
// its own between requests; everything cross-request lives in the
// counter store.
func (s *Service) Submit(ctx context.Context, req invoicedomain.SubmitRequest) (invoicedomain.SubmitResult, error) {
	req.TenantID = strings.TrimSpace(req.TenantID)
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if err := validateRequest(req); err != nil {
		return invoicedomain.SubmitResult{}, err
	}

	// An unconfigured tenant is rejected before any number is issued and
	// before the failure ledger is touched.
	tenant, err := s.tenantSvc.Get(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) || errors.Is(err, tenantdomain.ErrInvalidID) {
			return invoicedomain.SubmitResult{}, invoicedomain.ErrTenantNotConfigured
		}
		return invoicedomain.SubmitResult{}, err
	}

	issued, err := s.issuer.Issue(ctx, tenant.ID, tenant.InvoiceFormat)
	if err != nil {
		// Numbering infrastructure failures are fatal for the request and
		// are not attributed to the transaction.
		return invoicedomain.SubmitResult{}, fmt.Errorf("%w: %v", invoicedomain.ErrNumbering, err)
	}
	s.obsMetrics.RecordNumberIssued(ctx, tenant.ID)

	payload := buildPayload(tenant, issued.Number, req)

	start := time.Now()
	result, submitErr := s.submitter.Submit(ctx, payload)
	s.obsMetrics.RecordDownstreamLatency(ctx, tenant.ID, time.Since(start))

	if submitErr == nil {
		s.obsMetrics.RecordSubmission(ctx, tenant.ID, "success", 0)
		s.eventLog.Append(ctx, tenant.ID, domain.LevelInfo, "invoice submitted", map[string]any{
			"transaction_id": req.TransactionID,
			"invoice_number": issued.Number,
			"counter":        issued.Counter,
			"provider_id":    result.ID,
		})
		return invoicedomain.SubmitResult{
			Counter:    issued.Counter,
			Number:     issued.Number,
			ProviderID: result.ID,
		}, nil
	}

	return invoicedomain.SubmitResult{}, s.handleDownstreamFailure(ctx, tenant.ID, req.TransactionID, issued.Number, submitErr)
}

func (s *Service) handleDownstreamFailure(ctx context.Context, tenantID, transactionID, number string, submitErr error) error {
	count, ledgerErr := s.ledger.RecordFailure(ctx, tenantID, transactionID)
	if ledgerErr != nil {
		// The failure still surfaces; only the accounting was lost.
		s.log.Warn("failure ledger unavailable",
			zap.String("tenant_id", tenantID),
			zap.String("transaction_id", transactionID),
			zap.Error(ledgerErr),
		)
	}

	statusCode, body := downstreamStatus(submitErr)

	if ledgerErr == nil && ledger.IsPoison(count) {
		s.obsMetrics.RecordPoisonRejection(ctx, tenantID)
		s.eventLog.Append(ctx, tenantID, domain.LevelError, "transaction poisoned", map[string]any{
			"transaction_id": transactionID,
			"invoice_number": number,
			"failures":       count,
		})
		return invoicedomain.ErrPoisonPill
	}

	s.obsMetrics.RecordSubmission(ctx, tenantID, "failure", statusCode)
	s.eventLog.Append(ctx, tenantID, domain.LevelError, "invoice submission failed", map[string]any{
		"transaction_id": transactionID,
		"invoice_number": number,
		"status":         statusCode,
		"failures":       count,
	})

	return &invoicedomain.DownstreamError{
		StatusCode: statusCode,
		Body:       body,
		Failures:   count,
	}
}

func validateRequest(req invoicedomain.SubmitRequest) error {
	if req.TenantID == "" || req.TransactionID == "" || len(req.Items) == 0 {
		return invoicedomain.ErrInvalidRequest
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 {
			return invoicedomain.ErrInvalidRequest
		}
	}
	return nil
}

func buildPayload(tenant tenantdomain.Tenant, number string, req invoicedomain.SubmitRequest) billingdomain.Payload {
	items := make([]billingdomain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, billingdomain.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	var tax *billingdomain.TaxSpec
	if req.Tax != nil {
		tax = &billingdomain.TaxSpec{
			Rate:      req.Tax.Rate,
			Inclusive: req.Tax.Inclusive,
		}
	}

	return billingdomain.Payload{
		TenantID:      tenant.ID,
		ContactID:     tenant.ContactID,
		APIToken:      tenant.APIToken,
		InvoiceNumber: number,
		Reference:     req.Reference,
		Items:         items,
		Tax:           tax,
	}
}

func downstreamStatus(err error) (int, string) {
	var remote *billingdomain.RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode, remote.Body
	}
	return 0, err.Error()
}

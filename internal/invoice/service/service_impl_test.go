package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/counter"
	eventlogdomain "github.com/smallbiznis/numera/internal/eventlog/domain"
	invoicedomain "github.com/smallbiznis/numera/internal/invoice/domain"
	"github.com/smallbiznis/numera/internal/invoice/issuer"
	"github.com/smallbiznis/numera/internal/invoice/ledger"
	"github.com/smallbiznis/numera/internal/invoice/sequence"
	invoiceservice "github.com/smallbiznis/numera/internal/invoice/service"
	billingdomain "github.com/smallbiznis/numera/internal/providers/billing/domain"
	tenantdomain "github.com/smallbiznis/numera/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingCounter wraps the in-memory counter and records every call.
type countingCounter struct {
	inner *counter.Memory
	mu    sync.Mutex
	calls int
}

func (c *countingCounter) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.IncrementAndGet(ctx, key)
}

func (c *countingCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.inner.Expire(ctx, key, ttl)
}

type stubTenantService struct {
	tenants map[string]tenantdomain.Tenant
}

func (s *stubTenantService) Get(ctx context.Context, id string) (tenantdomain.Tenant, error) {
	tenant, ok := s.tenants[id]
	if !ok {
		return tenantdomain.Tenant{}, tenantdomain.ErrNotFound
	}
	return tenant, nil
}

func (s *stubTenantService) Create(ctx context.Context, tenant tenantdomain.Tenant) (tenantdomain.Tenant, error) {
	return tenant, nil
}

func (s *stubTenantService) Update(ctx context.Context, tenant tenantdomain.Tenant) (tenantdomain.Tenant, error) {
	return tenant, nil
}

func (s *stubTenantService) List(ctx context.Context, req tenantdomain.ListTenantRequest) (tenantdomain.ListTenantResponse, error) {
	return tenantdomain.ListTenantResponse{}, nil
}

type stubSubmitter struct {
	mu       sync.Mutex
	payloads []billingdomain.Payload
	result   billingdomain.Result
	err      error
}

func (s *stubSubmitter) Submit(ctx context.Context, payload billingdomain.Payload) (billingdomain.Result, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.mu.Unlock()
	if s.err != nil {
		return billingdomain.Result{}, s.err
	}
	return s.result, nil
}

type noopEventLog struct{}

func (noopEventLog) Append(ctx context.Context, tenantID string, level eventlogdomain.Level, message string, fields map[string]any) {
}

func (noopEventLog) List(ctx context.Context, filter eventlogdomain.ListFilter) (eventlogdomain.ListEventLogResponse, error) {
	return eventlogdomain.ListEventLogResponse{}, nil
}

type fixture struct {
	svc       invoicedomain.Service
	counter   *countingCounter
	submitter *stubSubmitter
}

func setup(t *testing.T, submitter *stubSubmitter) *fixture {
	t.Helper()

	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	cnt := &countingCounter{inner: counter.NewMemory(clk)}

	tenants := &stubTenantService{tenants: map[string]tenantdomain.Tenant{
		"agency-1": {
			ID:            "agency-1",
			Name:          "Acme Media",
			InvoiceFormat: "ACM-{YYYY}-{counter:4}",
			APIToken:      "token-1",
			ContactID:     "contact-7",
		},
	}}

	svc := invoiceservice.NewService(invoiceservice.Params{
		Log:       zap.NewNop(),
		TenantSvc: tenants,
		Issuer:    issuer.New(sequence.NewStore(cnt), clk),
		Ledger:    ledger.NewFailureLedger(cnt),
		Submitter: submitter,
		EventLog:  noopEventLog{},
	})

	return &fixture{svc: svc, counter: cnt, submitter: submitter}
}

func request() invoicedomain.SubmitRequest {
	return invoicedomain.SubmitRequest{
		TenantID:      "agency-1",
		TransactionID: "tx-1",
		Reference:     "booking-42",
		Items: []invoicedomain.LineItem{
			{Description: "Placement fee", Quantity: 2, UnitPrice: "150.00"},
		},
		Tax: &invoicedomain.TaxSpec{Rate: "21", Inclusive: false},
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := setup(t, &stubSubmitter{result: billingdomain.Result{ID: "bill_9"}})

	result, err := f.svc.Submit(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Counter)
	assert.Equal(t, "ACM-2024-0001", result.Number)
	assert.Equal(t, "bill_9", result.ProviderID)

	require.Len(t, f.submitter.payloads, 1)
	payload := f.submitter.payloads[0]
	assert.Equal(t, "token-1", payload.APIToken)
	assert.Equal(t, "contact-7", payload.ContactID)
	assert.Equal(t, "ACM-2024-0001", payload.InvoiceNumber)
}

func TestSubmitUnconfiguredTenantNeverTouchesCounter(t *testing.T) {
	f := setup(t, &stubSubmitter{})

	req := request()
	req.TenantID = "ghost"
	_, err := f.svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, invoicedomain.ErrTenantNotConfigured)
	assert.Zero(t, f.counter.calls)
	assert.Empty(t, f.submitter.payloads)
}

func TestSubmitValidation(t *testing.T) {
	f := setup(t, &stubSubmitter{})
	ctx := context.Background()

	req := request()
	req.TransactionID = " "
	_, err := f.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidRequest)

	req = request()
	req.Items = nil
	_, err = f.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidRequest)

	req = request()
	req.Items[0].Quantity = 0
	_, err = f.svc.Submit(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidRequest)

	assert.Zero(t, f.counter.calls)
}

func TestSubmitDownstreamFailureSurfacesStatus(t *testing.T) {
	f := setup(t, &stubSubmitter{err: &billingdomain.RemoteError{
		StatusCode: http.StatusUnprocessableEntity,
		Body:       `{"error":"bad contact"}`,
	}})

	_, err := f.svc.Submit(context.Background(), request())

	var downstream *invoicedomain.DownstreamError
	require.True(t, errors.As(err, &downstream))
	assert.Equal(t, http.StatusUnprocessableEntity, downstream.StatusCode)
	assert.Equal(t, int64(1), downstream.Failures)
}

func TestSubmitFifthFailureIsPoison(t *testing.T) {
	f := setup(t, &stubSubmitter{err: &billingdomain.RemoteError{StatusCode: http.StatusBadGateway}})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.svc.Submit(ctx, request())
		var downstream *invoicedomain.DownstreamError
		require.True(t, errors.As(err, &downstream), "attempt %d should be transient", i+1)
		assert.Equal(t, int64(i+1), downstream.Failures)
	}

	// The fifth attempt is rejected outright, whatever the downstream
	// said.
	f.submitter.err = &billingdomain.RemoteError{StatusCode: http.StatusTeapot}
	_, err := f.svc.Submit(ctx, request())
	assert.ErrorIs(t, err, invoicedomain.ErrPoisonPill)
}

func TestSubmitFailuresConsumeCounterValues(t *testing.T) {
	f := setup(t, &stubSubmitter{err: &billingdomain.RemoteError{StatusCode: http.StatusBadGateway}})
	ctx := context.Background()

	req := request()
	req.TransactionID = "tx-a"
	_, err := f.svc.Submit(ctx, req)
	require.Error(t, err)

	// The failed attempt consumed counter 1; the next success gets 2.
	f.submitter.err = nil
	f.submitter.result = billingdomain.Result{ID: "bill_1"}
	req.TransactionID = "tx-b"
	result, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Counter)
}

func TestSubmitDistinctTransactionsDoNotSharePoisonState(t *testing.T) {
	f := setup(t, &stubSubmitter{err: &billingdomain.RemoteError{StatusCode: http.StatusBadGateway}})
	ctx := context.Background()

	req := request()
	for i := 0; i < 5; i++ {
		_, _ = f.svc.Submit(ctx, req)
	}
	_, err := f.svc.Submit(ctx, req)
	require.ErrorIs(t, err, invoicedomain.ErrPoisonPill)

	req.TransactionID = "tx-fresh"
	_, err = f.svc.Submit(ctx, req)
	var downstream *invoicedomain.DownstreamError
	assert.True(t, errors.As(err, &downstream))
}

type unavailableCounter struct{}

func (unavailableCounter) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	return 0, counter.ErrUnavailable
}

func (unavailableCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return counter.ErrUnavailable
}

func TestSubmitNumberingFailureIsNotCountedAgainstTransaction(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	submitter := &stubSubmitter{}
	svc := invoiceservice.NewService(invoiceservice.Params{
		Log:       zap.NewNop(),
		TenantSvc: &stubTenantService{tenants: map[string]tenantdomain.Tenant{"agency-1": {ID: "agency-1", APIToken: "t"}}},
		Issuer:    issuer.New(sequence.NewStore(unavailableCounter{}), clk),
		Ledger:    ledger.NewFailureLedger(unavailableCounter{}),
		Submitter: submitter,
		EventLog:  noopEventLog{},
	})

	_, err := svc.Submit(context.Background(), request())
	assert.ErrorIs(t, err, invoicedomain.ErrNumbering)
	assert.Empty(t, submitter.payloads, "downstream must not be called without a number")
}

func TestSubmitConcurrentIssuanceIsUnique(t *testing.T) {
	f := setup(t, &stubSubmitter{result: billingdomain.Result{ID: "bill"}})
	ctx := context.Background()

	const n = 50
	results := make(chan invoicedomain.SubmitResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.Submit(ctx, request())
			assert.NoError(t, err)
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	counters := make(map[int64]bool, n)
	numbers := make(map[string]bool, n)
	for result := range results {
		assert.False(t, counters[result.Counter], "duplicate counter %d", result.Counter)
		assert.False(t, numbers[result.Number], "duplicate number %s", result.Number)
		counters[result.Counter] = true
		numbers[result.Number] = true
	}
	assert.Len(t, counters, n)
}

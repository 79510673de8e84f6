// Package billing implements the HTTP adapter for the downstream
// billing provider.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smallbiznis/numera/internal/config"
	"github.com/smallbiznis/numera/internal/providers/billing/domain"
	"go.uber.org/zap"
)

const maxErrorBodyBytes = 4 << 10

type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPSubmitter(cfg config.Config, log *zap.Logger) *HTTPSubmitter {
	timeout := time.Duration(cfg.Billing.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPSubmitter{
		baseURL: strings.TrimRight(cfg.Billing.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("billing.provider"),
	}
}

type submitResponse struct {
	ID string `json:"id"`
}

// Submit posts the invoice to the provider. One attempt, bounded by the
// client timeout; a hung provider cannot hold a request indefinitely.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload domain.Payload) (domain.Result, error) {
	if s.baseURL == "" {
		return domain.Result{}, domain.ErrNotConfigured
	}
	if len(payload.Items) == 0 || strings.TrimSpace(payload.InvoiceNumber) == "" {
		return domain.Result{}, domain.ErrInvalidPayload
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Result{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return domain.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+payload.APIToken)

	resp, err := s.client.Do(req)
	if err != nil {
		// No status to surface; the caller maps this to a generic
		// gateway failure.
		return domain.Result{}, fmt.Errorf("billing provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		s.log.Warn("billing provider rejected submission",
			zap.String("tenant_id", payload.TenantID),
			zap.Int("status", resp.StatusCode),
		)
		return domain.Result{}, &domain.RemoteError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Result{}, fmt.Errorf("decode provider response: %w", err)
	}

	return domain.Result{ID: parsed.ID}, nil
}

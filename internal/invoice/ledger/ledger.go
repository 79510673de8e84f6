// Package ledger tracks downstream submission failures per
// (tenant, transaction) pair so that structurally failing transactions
// stop being retried.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/numera/internal/counter"
)

const (
	keyPrefix = "invoice:fail:%s:%s"

	// PoisonThreshold is the failure count at which a transaction is
	// rejected outright.
	PoisonThreshold = 5

	// TTL bounds the lifetime of a failure count, measured from the first
	// failure. A later success does not clear the count; it is history,
	// not a lock.
	TTL = 24 * time.Hour
)

type FailureLedger struct {
	counter counter.Counter
}

func NewFailureLedger(c counter.Counter) *FailureLedger {
	return &FailureLedger{counter: c}
}

// RecordFailure atomically increments and returns the failure count for
// the pair. The expiry window is fixed on the first increment and never
// extended by subsequent ones.
func (l *FailureLedger) RecordFailure(ctx context.Context, tenantID, transactionID string) (int64, error) {
	tenantID = strings.TrimSpace(tenantID)
	transactionID = strings.TrimSpace(transactionID)
	if tenantID == "" || transactionID == "" {
		return 0, errors.New("tenant and transaction ids are required")
	}

	key := fmt.Sprintf(keyPrefix, tenantID, transactionID)
	count, err := l.counter.IncrementAndGet(ctx, key)
	if err != nil {
		return 0, err
	}

	if count == 1 {
		// The count is already recorded; a failed expiry only lengthens
		// the window, so it does not invalidate the increment.
		_ = l.counter.Expire(ctx, key, TTL)
	}

	return count, nil
}

// IsPoison reports whether a failure count has reached the threshold.
func IsPoison(count int64) bool {
	return count >= PoisonThreshold
}

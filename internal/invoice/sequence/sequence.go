// Package sequence assigns per-tenant monotonic invoice counters.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smallbiznis/numera/internal/counter"
)

const keyPrefix = "invoice:seq:%s"

type Store struct {
	counter counter.Counter
}

func NewStore(c counter.Counter) *Store {
	return &Store{counter: c}
}

// Next atomically reserves and returns the next counter value for the
// tenant. The first call for a tenant returns 1. A returned error means
// no value was reserved; a returned value is consumed even if the caller
// fails afterwards. Gaps are accepted, duplicates are not.
func (s *Store) Next(ctx context.Context, tenantID string) (int64, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return 0, errors.New("tenant id is empty")
	}

	return s.counter.IncrementAndGet(ctx, fmt.Sprintf(keyPrefix, tenantID))
}

package issuer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/counter"
	"github.com/smallbiznis/numera/internal/invoice/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) (*Issuer, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC))
	return New(sequence.NewStore(counter.NewMemory(clk)), clk), clk
}

func TestIssueSequentialNumbersAreDistinct(t *testing.T) {
	iss, _ := newIssuer(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	var last int64
	for i := 0; i < 20; i++ {
		issued, err := iss.Issue(ctx, "agency-1", "")
		require.NoError(t, err)
		assert.Equal(t, last+1, issued.Counter, "no gaps when every issuance succeeds")
		assert.False(t, seen[issued.Number], "duplicate number %s", issued.Number)
		seen[issued.Number] = true
		last = issued.Counter
	}
}

func TestIssueUsesTenantTemplate(t *testing.T) {
	iss, _ := newIssuer(t)

	issued, err := iss.Issue(context.Background(), "agency-1", "REF-{YY}{MM}-{counter:3}")
	require.NoError(t, err)
	assert.Equal(t, int64(1), issued.Counter)
	assert.Equal(t, "REF-2403-001", issued.Number)
}

func TestIssueDefaultTemplate(t *testing.T) {
	iss, _ := newIssuer(t)

	issued, err := iss.Issue(context.Background(), "agency-1", "")
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-00001", issued.Number)
}

type failingCounter struct{}

func (failingCounter) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	return 0, counter.ErrUnavailable
}

func (failingCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return counter.ErrUnavailable
}

func TestIssuePropagatesCounterFailure(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	iss := New(sequence.NewStore(failingCounter{}), clk)

	_, err := iss.Issue(context.Background(), "agency-1", "")
	assert.True(t, errors.Is(err, counter.ErrUnavailable))
}

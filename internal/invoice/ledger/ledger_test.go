package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/counter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFailureCountsUp(t *testing.T) {
	l := NewFailureLedger(counter.NewMemory(clock.NewFakeClock(time.Now())))
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := l.RecordFailure(ctx, "agency-1", "tx-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIsPoisonThreshold(t *testing.T) {
	assert.False(t, IsPoison(4))
	assert.True(t, IsPoison(5))
	assert.True(t, IsPoison(6))
}

func TestFailureCountExpiresAfterWindow(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	l := NewFailureLedger(counter.NewMemory(clk))
	ctx := context.Background()

	count, err := l.RecordFailure(ctx, "agency-1", "tx-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// The window is anchored at the first failure and is not extended by
	// later ones.
	clk.Advance(20 * time.Hour)
	count, err = l.RecordFailure(ctx, "agency-1", "tx-1")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	clk.Advance(5 * time.Hour)
	count, err = l.RecordFailure(ctx, "agency-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPairsAreIndependent(t *testing.T) {
	l := NewFailureLedger(counter.NewMemory(clock.NewFakeClock(time.Now())))
	ctx := context.Background()

	_, err := l.RecordFailure(ctx, "agency-1", "tx-1")
	require.NoError(t, err)

	count, err := l.RecordFailure(ctx, "agency-1", "tx-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = l.RecordFailure(ctx, "agency-2", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecordFailureRequiresIdentifiers(t *testing.T) {
	l := NewFailureLedger(counter.NewMemory(clock.NewFakeClock(time.Now())))

	_, err := l.RecordFailure(context.Background(), "", "tx-1")
	assert.Error(t, err)
	_, err = l.RecordFailure(context.Background(), "agency-1", " ")
	assert.Error(t, err)
}

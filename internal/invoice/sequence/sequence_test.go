package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/counter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsMonotonicPerTenant(t *testing.T) {
	store := NewStore(counter.NewMemory(clock.NewFakeClock(time.Now())))
	ctx := context.Background()

	for want := int64(1); want <= 10; want++ {
		got, err := store.Next(ctx, "agency-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := store.Next(ctx, "agency-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "tenants have independent sequences")
}

func TestNextRejectsEmptyTenant(t *testing.T) {
	store := NewStore(counter.NewMemory(clock.NewFakeClock(time.Now())))

	_, err := store.Next(context.Background(), "  ")
	assert.Error(t, err)
}

package counter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIncrementStartsAtOne(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	c := NewMemory(clk)

	v, err := c.IncrementAndGet(context.Background(), "seq:acme")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = c.IncrementAndGet(context.Background(), "seq:acme")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	c := NewMemory(clk)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := c.IncrementAndGet(ctx, "seq:a")
		require.NoError(t, err)
	}

	v, err := c.IncrementAndGet(ctx, "seq:b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestMemoryExpireResetsAfterTTL(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))
	c := NewMemory(clk)
	ctx := context.Background()

	v, err := c.IncrementAndGet(ctx, "fail:acme:tx1")
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
	require.NoError(t, c.Expire(ctx, "fail:acme:tx1", 24*time.Hour))

	clk.Advance(23 * time.Hour)
	v, err = c.IncrementAndGet(ctx, "fail:acme:tx1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	clk.Advance(2 * time.Hour)
	v, err = c.IncrementAndGet(ctx, "fail:acme:tx1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "counter should reset after TTL elapses")
}

func TestMemoryConcurrentIncrementsAreUnique(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	c := NewMemory(clk)
	ctx := context.Background()

	const n = 100
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.IncrementAndGet(ctx, "seq:concurrent")
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		assert.False(t, seen[v], "duplicate counter value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}

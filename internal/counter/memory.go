package counter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
)

type memoryEntry struct {
	value     int64
	expiresAt time.Time
}

// Memory implements Counter with an in-process map. It is intended for
// tests and single-node development; expiry is evaluated lazily against
// the injected clock.
type Memory struct {
	mu      sync.Mutex
	clk     clock.Clock
	entries map[string]*memoryEntry
}

func NewMemory(clk clock.Clock) *Memory {
	return &Memory{
		clk:     clk,
		entries: make(map[string]*memoryEntry),
	}
}

func (m *Memory) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, errors.New("counter key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clk.Now()
	entry, ok := m.entries[key]
	if !ok || (!entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)) {
		entry = &memoryEntry{}
		m.entries[key] = entry
	}

	entry.value++
	return entry.value, nil
}

func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return errors.New("counter key is empty")
	}
	if ttl <= 0 {
		return errors.New("counter ttl must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	entry.expiresAt = m.clk.Now().Add(ttl)
	return nil
}

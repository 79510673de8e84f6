// Package counter provides the keyed atomic counter primitive that backs
// invoice sequences and transaction failure counts. Every mutation is a
// single remote operation so concurrent server instances stay correct
// without in-process locks.
package counter

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Counter is a keyed atomic increment store.
type Counter interface {
	// IncrementAndGet atomically increments the counter stored at key and
	// returns the new value. Unset keys start at zero, so the first call
	// returns 1.
	IncrementAndGet(ctx context.Context, key string) (int64, error)

	// Expire sets a time-to-live on key. It does not reset an existing TTL
	// semantic by itself; callers decide when to apply it.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

var ErrUnavailable = errors.New("counter_unavailable")

func provideCounter(cfg config.Config, clk clock.Clock, log *zap.Logger) (Counter, error) {
	switch cfg.Counter.Backend {
	case config.CounterBackendMemory:
		log.Warn("using in-memory counter backend; sequences will not survive restarts")
		return NewMemory(clk), nil
	default:
		return NewRedis(cfg.Counter)
	}
}

// Module wires the configured counter backend.
var Module = fx.Module("counter",
	fx.Provide(provideCounter),
)

package dedupstore

import (
	"context"
	"log/slog"
)

// New selects the backend per spec.md §4.1: networked when enabled and
// reachable, memory otherwise.
func New(ctx context.Context, enabled bool, rc RedisConfig, log *slog.Logger) Store {
	if !enabled {
		return NewMemoryStore(log)
	}
	store, _ := NewRedisStore(ctx, rc, log)
	return store
}

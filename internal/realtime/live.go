package realtime

import (
	"context"
	"log/slog"
	"sync"
)

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Live keeps a snapshot of a collection. Any change on its tables triggers a
// full re-fetch that replaces the snapshot wholesale.
type Live[T any] struct {
	bus    Bus
	fetch  FetchFunc[T]
	tables []string

	mu     sync.RWMutex
	items  []T
	primed bool
}

func NewLive[T any](bus Bus, fetch FetchFunc[T], tables ...string) *Live[T] {
	return &Live[T]{
		bus:    bus,
		fetch:  fetch,
		tables: tables,
	}
}

func (l *Live[T]) Start(ctx context.Context) error {
	sub := l.bus.Subscribe(l.tables...)
	if err := l.Refresh(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}
				if err := l.Refresh(ctx); err != nil {
					slog.Error("live refresh failed", "err", err, "tables", l.tables)
				}
			}
		}
	}()

	return nil
}

func (l *Live[T]) Refresh(ctx context.Context) error {
	items, err := l.fetch(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = items
	l.primed = true
	l.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current items; ok is false until the first
// fetch succeeded.
func (l *Live[T]) Snapshot() ([]T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out, l.primed
}

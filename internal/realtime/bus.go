package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Tables that emit change notifications.
const (
	TableSlots      = "booking_slots"
	TableBusinesses = "businesses"
	TableSettings   = "settings"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change is the notification payload. It carries no row data: receivers
// re-fetch the whole collection.
type Change struct {
	Table      string    `json:"table"`
	Op         Op        `json:"op"`
	BusinessID string    `json:"business_id,omitempty"`
	At         time.Time `json:"at"`
}

func NewChange(table string, op Op, businessID string) Change {
	return Change{
		Table:      table,
		Op:         op,
		BusinessID: businessID,
		At:         time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ch Change)
}

type Bus interface {
	Publisher
	Subscribe(tables ...string) *Subscription
}

// Subscription delivers changes for the tables it was opened with.
type Subscription struct {
	C     <-chan Change
	close func()
	once  sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(s.close)
}

type subscriber struct {
	tables map[string]bool
	ch     chan Change
}

func (s *subscriber) wants(table string) bool {
	return len(s.tables) == 0 || s.tables[table]
}

// LocalBus fans changes out to in-process subscribers.
type LocalBus struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	buffer int
}

func NewLocalBus() *LocalBus {
	return &LocalBus{
		subs:   make(map[*subscriber]struct{}),
		buffer: 32,
	}
}

func (b *LocalBus) Publish(_ context.Context, ch Change) {
	b.deliver(ch)
}

func (b *LocalBus) deliver(ch Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if !s.wants(ch.Table) {
			continue
		}
		select {
		case s.ch <- ch:
		default:
			// a slow subscriber only needs one pending refresh
			slog.Warn("realtime subscriber buffer full, dropping change", "table", ch.Table)
		}
	}
}

// Subscribe with no tables receives every change.
func (b *LocalBus) Subscribe(tables ...string) *Subscription {
	s := &subscriber{
		tables: make(map[string]bool, len(tables)),
		ch:     make(chan Change, b.buffer),
	}
	for _, t := range tables {
		s.tables[t] = true
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	return &Subscription{
		C: s.ch,
		close: func() {
			b.mu.Lock()
			delete(b.subs, s)
			b.mu.Unlock()
			close(s.ch)
		},
	}
}

package settings

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/residate/internal/realtime"
)

// Store wraps the repository with defaults and change notification. Every
// write is published so other sessions pick it up.
type Store struct {
	repo Repository
	bus  realtime.Bus

	mu sync.Mutex
}

func NewStore(repo Repository, bus realtime.Bus) *Store {
	return &Store{repo: repo, bus: bus}
}

func (s *Store) Get(ctx context.Context, businessID string) (Settings, error) {
	saved, err := s.repo.Get(ctx, businessID)
	if err != nil {
		return Settings{}, err
	}
	if saved == nil {
		return Defaults(), nil
	}
	return *saved, nil
}

func (s *Store) Update(ctx context.Context, businessID string, p Preferences) (Settings, error) {
	return s.mutate(ctx, businessID, func(cur *Settings) error {
		p.apply(cur)
		return nil
	})
}

// SetCalendar records the feed. An empty url disconnects.
func (s *Store) SetCalendar(ctx context.Context, businessID, feedURL string) (Settings, error) {
	return s.mutate(ctx, businessID, func(cur *Settings) error {
		cur.ICalURL = feedURL
		cur.CalendarConnected = feedURL != ""
		return nil
	})
}

func (s *Store) GenerateAPIKey(ctx context.Context, businessID string) (Settings, error) {
	return s.mutate(ctx, businessID, func(cur *Settings) error {
		key, err := NewAPIKey()
		if err != nil {
			return err
		}
		cur.APIKey = key
		return nil
	})
}

func (s *Store) Connected(ctx context.Context) (map[string]string, error) {
	return s.repo.Connected(ctx)
}

// Subscribe calls fn with fresh settings whenever the business settings
// change. The returned func stops the subscription.
func (s *Store) Subscribe(ctx context.Context, businessID string, fn func(Settings)) func() {
	sub := s.bus.Subscribe(realtime.TableSettings)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case ch, ok := <-sub.C:
				if !ok {
					return
				}
				if ch.BusinessID != businessID {
					continue
				}
				cur, err := s.Get(ctx, businessID)
				if err != nil {
					slog.Warn("settings refresh failed", "business_id", businessID, "err", err)
					continue
				}
				fn(cur)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			sub.Close()
		})
	}
}

func (s *Store) mutate(ctx context.Context, businessID string, fn func(*Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, businessID)
	if err != nil {
		return Settings{}, err
	}
	if err := fn(&cur); err != nil {
		return Settings{}, err
	}
	cur.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, businessID, cur); err != nil {
		return Settings{}, err
	}

	s.bus.Publish(ctx, realtime.NewChange(realtime.TableSettings, realtime.OpUpdate, businessID))
	return cur, nil
}

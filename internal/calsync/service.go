package calsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/ical"
	"github.com/BruksfildServices01/residate/internal/logging"
	"github.com/BruksfildServices01/residate/internal/settings"
)

// Service imports external busy periods into the slot store. One attempt
// per call; a failed fetch or parse writes nothing.
type Service struct {
	slots    slot.Repository
	settings *settings.Store
	fetcher  Fetcher
	audit    *audit.Dispatcher
	loc      *time.Location

	mu     sync.Mutex
	status map[string]Status
}

func NewService(
	slots slot.Repository,
	store *settings.Store,
	fetcher Fetcher,
	audit *audit.Dispatcher,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		slots:    slots,
		settings: store,
		fetcher:  fetcher,
		audit:    audit,
		loc:      loc,
		status:   make(map[string]Status),
	}
}

func (s *Service) Status(ctx context.Context, businessID string) (Status, error) {
	cur, err := s.settings.Get(ctx, businessID)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	st, ok := s.status[businessID]
	s.mu.Unlock()

	if !ok {
		st = Status{State: StateDisconnected}
		if cur.CalendarConnected {
			st.State = StateConnected
		}
	}
	st.FeedURL = cur.ICalURL
	st.Connected = cur.CalendarConnected
	return st, nil
}

func (s *Service) setStatus(businessID string, fn func(*Status)) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status[businessID]
	fn(&st)
	s.status[businessID] = st
	return st
}

// Connect validates and stores the feed, then runs the first sync. A sync
// failure keeps the feed stored and reports StateError.
func (s *Service) Connect(ctx context.Context, businessID, rawURL, actor string) (Status, error) {
	feedURL, err := NormalizeFeedURL(rawURL)
	if err != nil {
		return Status{}, err
	}

	s.setStatus(businessID, func(st *Status) {
		st.State = StateConnecting
		st.LastError = ""
	})

	if _, err := s.settings.SetCalendar(ctx, businessID, feedURL); err != nil {
		s.setStatus(businessID, func(st *Status) {
			st.State = StateError
			st.LastError = err.Error()
		})
		return Status{}, fmt.Errorf("store feed: %w", err)
	}

	s.setStatus(businessID, func(st *Status) { st.State = StateConnected })

	s.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "calendar_connected",
		Entity:     "calendar",
		Metadata:   map[string]any{"feed": logging.RedactURL(feedURL)},
	})

	return s.Sync(ctx, businessID)
}

// Sync fetches, parses and merges the stored feed. Events starting outside
// the operating window are dropped. On failure the returned status carries
// StateError alongside the error.
func (s *Service) Sync(ctx context.Context, businessID string) (Status, error) {
	cur, err := s.settings.Get(ctx, businessID)
	if err != nil {
		return Status{}, err
	}
	if !cur.CalendarConnected || cur.ICalURL == "" {
		return Status{}, httperr.ErrBusiness("calendar_not_connected")
	}

	s.setStatus(businessID, func(st *Status) { st.State = StateSyncing })

	count, err := s.merge(ctx, businessID, cur.ICalURL)
	if err != nil {
		slog.Error("calendar sync failed",
			"business_id", businessID,
			"feed", logging.RedactURL(cur.ICalURL),
			"err", err,
		)
		s.setStatus(businessID, func(st *Status) {
			st.State = StateError
			st.LastError = err.Error()
		})
		st, _ := s.Status(ctx, businessID)
		return st, err
	}

	now := time.Now().UTC()
	s.setStatus(businessID, func(st *Status) {
		st.State = StateConnected
		st.LastError = ""
		st.LastSyncAt = &now
		st.SyncedCount = count
	})

	slog.Info("calendar synced", "business_id", businessID, "slots", count)
	return s.Status(ctx, businessID)
}

func (s *Service) merge(ctx context.Context, businessID, feedURL string) (int, error) {
	body, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return 0, fmt.Errorf("fetch feed: %w", err)
	}

	events := ical.WithStart(ical.ParseIn(string(body), s.loc))

	writes := make([]slot.UpsertInput, 0, len(events))
	for _, ev := range events {
		start := ev.Start.In(s.loc)
		if !slot.WithinOperatingWindow(start.Hour()) {
			continue
		}
		writes = append(writes, slot.UpsertInput{
			Key: slot.Key{
				BusinessID: businessID,
				Day:        slot.DayKey(start),
				Hour:       start.Hour(),
			},
			Kind:    slot.KindCalendarSync,
			Service: ev.Summary,
		})
	}

	for i, in := range writes {
		if _, err := s.slots.Upsert(ctx, in); err != nil {
			return i, fmt.Errorf("write slot %s %d: %w", in.Day, in.Hour, err)
		}
	}
	return len(writes), nil
}

// Disconnect forgets the feed. Slots imported earlier are kept.
func (s *Service) Disconnect(ctx context.Context, businessID, actor string) (Status, error) {
	if _, err := s.settings.SetCalendar(ctx, businessID, ""); err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	delete(s.status, businessID)
	s.mu.Unlock()

	s.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "calendar_disconnected",
		Entity:     "calendar",
	})

	return s.Status(ctx, businessID)
}

const syncConcurrency = 4

// SyncAll resyncs every connected business once. Failures are recorded per
// business and do not stop the others.
func (s *Service) SyncAll(ctx context.Context) {
	feeds, err := s.settings.Connected(ctx)
	if err != nil {
		slog.Error("list connected calendars failed", "err", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for businessID := range feeds {
		g.Go(func() error {
			_, _ = s.Sync(gctx, businessID)
			return nil
		})
	}
	_ = g.Wait()
}

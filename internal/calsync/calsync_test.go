package calsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/infra/repository"
	"github.com/BruksfildServices01/residate/internal/realtime"
	"github.com/BruksfildServices01/residate/internal/settings"
)

type fakeFetcher struct {
	mu   sync.Mutex
	body string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, feedURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, feedURL)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func feed(events ...string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\n")
	for _, e := range events {
		b.WriteString(e)
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func event(start, summary string) string {
	return "BEGIN:VEVENT\r\nDTSTART:" + start + "\r\nSUMMARY:" + summary + "\r\nEND:VEVENT\r\n"
}

func newService(t *testing.T, f Fetcher) (*Service, *repository.MemorySlotRepository) {
	t.Helper()
	bus := realtime.NewLocalBus()
	slots := repository.NewMemorySlotRepository(bus)
	store := settings.NewStore(repository.NewMemorySettingsRepository(), bus)
	d := audit.NewDispatcher(audit.New(repository.NewMemoryAuditRepository()))
	t.Cleanup(d.Close)
	return NewService(slots, store, f, d, time.UTC), slots
}

func TestNormalizeFeedURL(t *testing.T) {
	got, err := NormalizeFeedURL("webcal://calendar.example.com/private/basic.ics")
	if err != nil || got != "https://calendar.example.com/private/basic.ics" {
		t.Fatalf("expected webcal rewrite, got %q err=%v", got, err)
	}

	for _, bad := range []string{"", "ftp://x.com/a.ics", "calendar.example.com", "https://"} {
		if _, err := NormalizeFeedURL(bad); !httperr.IsBusiness(err, "invalid_feed_url") {
			t.Errorf("%q: expected invalid_feed_url, got %v", bad, err)
		}
	}
}

func TestSyncOperatingWindow(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: feed(
		event("20261020T070000", "Too early"),
		event("20261020T080000", "Opening"),
		event("20261020T200000Z", "Closing"),
		event("20261020T210000", "Too late"),
		"BEGIN:VEVENT\r\nSUMMARY:No start\r\nEND:VEVENT\r\n",
	)}
	svc, slots := newService(t, f)

	st, err := svc.Connect(ctx, "spa", "webcal://cal.example.com/feed.ics", "owner")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if st.State != StateConnected || st.SyncedCount != 2 || !st.Connected {
		t.Fatalf("unexpected status %+v", st)
	}
	if f.urls[0] != "https://cal.example.com/feed.ics" {
		t.Fatalf("expected rewritten url, got %q", f.urls[0])
	}

	for _, hour := range []int{7, 21} {
		if s, _ := slots.Get(ctx, slot.Key{BusinessID: "spa", Day: "2026-10-20", Hour: hour}); s != nil {
			t.Errorf("hour %d must not be written, got %+v", hour, s)
		}
	}
	for _, hour := range []int{8, 20} {
		s, _ := slots.Get(ctx, slot.Key{BusinessID: "spa", Day: "2026-10-20", Hour: hour})
		if s == nil || s.Kind != slot.KindCalendarSync || s.Status != slot.StatusBlocked {
			t.Errorf("hour %d: expected synced block, got %+v", hour, s)
		}
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: feed(event("20261020T090000", ""))}
	svc, slots := newService(t, f)

	if _, err := svc.Connect(ctx, "spa", "https://cal.example.com/a.ics", "owner"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := svc.Sync(ctx, "spa"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	all, _ := slots.ListForBusiness(ctx, "spa")
	if len(all) != 1 {
		t.Fatalf("expected 1 slot after two syncs, got %d", len(all))
	}
	if all[0].Service != slot.DefaultBusyLabel {
		t.Fatalf("expected Busy label for empty summary, got %q", all[0].Service)
	}
}

func TestSyncFailureLeavesSlotsUnchanged(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: feed(event("20261020T100000", "Call"))}
	svc, slots := newService(t, f)

	if _, err := svc.Connect(ctx, "spa", "https://cal.example.com/a.ics", "owner"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	f.err = errors.New("connection reset")
	f.body = feed(event("20261021T100000", "Other"))
	st, err := svc.Sync(ctx, "spa")
	if err == nil {
		t.Fatal("expected sync error")
	}
	if st.State != StateError || st.LastError == "" {
		t.Fatalf("expected error state, got %+v", st)
	}

	all, _ := slots.ListForBusiness(ctx, "spa")
	if len(all) != 1 || all[0].Day != "2026-10-20" {
		t.Fatalf("prior slots must be untouched, got %+v", all)
	}
}

func TestDisconnectKeepsSlots(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: feed(event("20261020T100000", "Call"))}
	svc, slots := newService(t, f)
	svc.Connect(ctx, "spa", "https://cal.example.com/a.ics", "owner")

	st, err := svc.Disconnect(ctx, "spa", "owner")
	if err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if st.State != StateDisconnected || st.Connected || st.FeedURL != "" {
		t.Fatalf("unexpected status %+v", st)
	}
	if all, _ := slots.ListForBusiness(ctx, "spa"); len(all) != 1 {
		t.Fatalf("synced slots must survive disconnect, got %d", len(all))
	}

	if _, err := svc.Sync(ctx, "spa"); !httperr.IsBusiness(err, "calendar_not_connected") {
		t.Fatalf("expected calendar_not_connected, got %v", err)
	}
}

func TestProxyFetcher(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "text/calendar")
		w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
	}))
	defer srv.Close()

	body, err := ProxyFetcher{BaseURL: srv.URL + "/api/ical"}.Fetch(context.Background(), "https://cal.example.com/a.ics?token=x")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotURL != "https://cal.example.com/a.ics?token=x" {
		t.Fatalf("proxy received %q", gotURL)
	}
	if !strings.HasPrefix(string(body), "BEGIN:VCALENDAR") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPFetcherRejectsNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := (HTTPFetcher{}).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 403")
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	svc, _ := newService(t, &fakeFetcher{})
	if err := NewScheduler(svc).Start(context.Background(), "not a cron"); err == nil {
		t.Fatal("expected invalid spec error")
	}
}

func TestSyncAllVisitsConnected(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{body: feed(event("20261020T090000", "Block"))}
	svc, slots := newService(t, f)

	for _, id := range []string{"a", "b"} {
		if _, err := svc.settings.SetCalendar(ctx, id, "https://cal.example.com/"+id+".ics"); err != nil {
			t.Fatalf("set calendar: %v", err)
		}
	}

	svc.SyncAll(ctx)

	for _, id := range []string{"a", "b"} {
		if s, _ := slots.Get(ctx, slot.Key{BusinessID: id, Day: "2026-10-20", Hour: 9}); s == nil {
			t.Errorf("business %s was not synced", id)
		}
	}
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/calsync"
	"github.com/BruksfildServices01/residate/internal/config"
	"github.com/BruksfildServices01/residate/internal/export"
	infraRepo "github.com/BruksfildServices01/residate/internal/infra/repository"
	"github.com/BruksfildServices01/residate/internal/mailer"
	"github.com/BruksfildServices01/residate/internal/realtime"
	"github.com/BruksfildServices01/residate/internal/settings"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

const bookingDay = "2030-01-15"

type staticFetcher struct {
	body string
}

func (f staticFetcher) Fetch(context.Context, string) ([]byte, error) {
	return []byte(f.body), nil
}

type testApp struct {
	router *gin.Engine
	audit  *audit.Dispatcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := realtime.NewLocalBus()
	slots := infraRepo.NewMemorySlotRepository(bus)
	businesses := infraRepo.NewMemoryBusinessRepository(bus)
	store := settings.NewStore(infraRepo.NewMemorySettingsRepository(), bus)

	logger := audit.New(infraRepo.NewMemoryAuditRepository())
	dispatcher := audit.NewDispatcher(logger)

	feed := staticFetcher{body: "BEGIN:VCALENDAR\nBEGIN:VEVENT\nSUMMARY:Dentist\nDTSTART:20300116T100000\nEND:VEVENT\nEND:VCALENDAR\n"}

	cfg := &config.Config{JWTSecret: "test-secret", RecoveryKey: "secret-key-123"}

	r := gin.New()
	RegisterRoutes(r, Deps{
		Slots:      slots,
		Businesses: businesses,
		Tombstones: slots,
		Settings:   store,
		Directory:  ucBusiness.NewDirectory(businesses, slots, nil),
		Calendar:   calsync.NewService(slots, store, feed, dispatcher, time.UTC),
		Feeds:      feed,
		Audit:      dispatcher,
		AuditLog:   logger,
		Bus:        bus,
		Archiver:   export.NoopArchiver{},
		Mailer:     mailer.New("http://127.0.0.1:0", "", "test@residate.io"),
		Location:   time.UTC,
	}, cfg)

	return &testApp{router: r, audit: dispatcher}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type registered struct {
	Business struct {
		ID       string `json:"id"`
		Services []struct {
			ID string `json:"id"`
		} `json:"services"`
	} `json:"business"`
	Token string `json:"token"`
}

func register(t *testing.T, a *testApp) registered {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Spa Luz",
		"location": "Sevilla",
		"email":    "owner@spaluz.io",
		"password": "hunter22",
		"services": []map[string]any{{"name": "Ritual", "price": 100, "duration": 60}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	out := decode[registered](t, w)
	if out.Token == "" || out.Business.ID == "" || len(out.Business.Services) != 1 {
		t.Fatalf("unexpected register response %s", w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	if w := a.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestApp(t)
	register(t, a)

	w := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":  "Another Spa",
		"email": "OWNER@spaluz.io",
	})
	if w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), "email_taken") {
		t.Fatalf("expected email_taken conflict, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@spaluz.io", "password": "hunter22"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@spaluz.io", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
}

func TestPublicBookingFlow(t *testing.T) {
	a := newTestApp(t)
	reg := register(t, a)
	base := "/api/public/businesses/" + reg.Business.ID
	serviceID := reg.Business.Services[0].ID

	w := a.do(t, http.MethodGet, "/api/public/businesses", "", nil)
	list := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if list.Total != 1 {
		t.Fatalf("expected 1 business, got %s", w.Body.String())
	}

	w = a.do(t, http.MethodPost, base+"/quote", "", map[string]any{"serviceId": serviceID})
	quote := decode[struct {
		Total float64 `json:"total"`
	}](t, w)
	if w.Code != http.StatusOK || quote.Total != 108 {
		t.Fatalf("unexpected quote %d %s", w.Code, w.Body.String())
	}

	booking := map[string]any{
		"serviceId":  serviceID,
		"date":       bookingDay,
		"hour":       9,
		"guestName":  "Ana",
		"guestEmail": "ana@mail.io",
	}
	if w = a.do(t, http.MethodPost, base+"/bookings", "", booking); w.Code != http.StatusCreated {
		t.Fatalf("book: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if w = a.do(t, http.MethodPost, base+"/bookings", "", booking); w.Code != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, base+"/availability?date="+bookingDay, "", nil)
	avail := decode[struct {
		Hours []struct {
			Hour      int  `json:"hour"`
			Available bool `json:"available"`
		} `json:"hours"`
	}](t, w)
	if len(avail.Hours) != 13 {
		t.Fatalf("expected 13 candidate hours, got %d", len(avail.Hours))
	}
	for _, h := range avail.Hours {
		if h.Available == (h.Hour == 9) {
			t.Fatalf("unexpected availability for %d: %v", h.Hour, h.Available)
		}
	}

	if w = a.do(t, http.MethodGet, base+"/availability?date=2000-01-01", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("past availability: expected 400, got %d (%s)", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/me/slots?status=booked", reg.Token, nil)
	slots := decode[struct {
		Total int `json:"total"`
		Data  []struct {
			Time   string `json:"time"`
			Status string `json:"status"`
		} `json:"data"`
	}](t, w)
	if slots.Total != 1 || slots.Data[0].Time != "09:00" {
		t.Fatalf("unexpected owner slots %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/me/clients", reg.Token, nil)
	if !strings.Contains(w.Body.String(), "ana@mail.io") {
		t.Fatalf("expected client in registry, got %s", w.Body.String())
	}
}

func TestOwnerSlotManagement(t *testing.T) {
	a := newTestApp(t)
	reg := register(t, a)

	if w := a.do(t, http.MethodGet, "/api/me/slots", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	path := "/api/me/slots/" + bookingDay + "/10"
	w := a.do(t, http.MethodPut, path, reg.Token, map[string]any{"reason": "Lunch"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"blocked"`) {
		t.Fatalf("block: got %d %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, path+"/toggle", reg.Token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"available"`) {
		t.Fatalf("toggle: got %d %s", w.Code, w.Body.String())
	}

	if w = a.do(t, http.MethodPut, "/api/me/slots/15-01-2030/10", reg.Token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad day: expected 400, got %d", w.Code)
	}

	a.do(t, http.MethodPut, path, reg.Token, nil)
	if w = a.do(t, http.MethodPost, "/api/me/slots/reset", reg.Token, map[string]any{"email": "x@y.io"}); w.Code != http.StatusForbidden {
		t.Fatalf("reset guard: expected 403, got %d", w.Code)
	}
	w = a.do(t, http.MethodPost, "/api/me/slots/reset", reg.Token, map[string]any{"email": "owner@spaluz.io"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"removed":1`) {
		t.Fatalf("reset: got %d %s", w.Code, w.Body.String())
	}
}

func TestSettingsCalendarAndExport(t *testing.T) {
	a := newTestApp(t)
	reg := register(t, a)

	w := a.do(t, http.MethodPut, "/api/me/settings", reg.Token, map[string]any{"darkMode": false})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"darkMode":false`) {
		t.Fatalf("settings: got %d %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/me/calendar/connect", reg.Token, map[string]any{"url": "ftp://nope"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad feed: expected 400, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/me/calendar/connect", reg.Token, map[string]any{"url": "webcal://cal.example.com/basic.ics"})
	status := decode[calsync.Status](t, w)
	if w.Code != http.StatusOK || status.State != calsync.StateConnected || status.SyncedCount != 1 {
		t.Fatalf("connect: got %d %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/me/slots?status=blocked", reg.Token, nil)
	if !strings.Contains(w.Body.String(), "Dentist") {
		t.Fatalf("expected synced block, got %s", w.Body.String())
	}

	a.do(t, http.MethodPost, "/api/public/businesses/"+reg.Business.ID+"/bookings", "", map[string]any{
		"serviceId":  reg.Business.Services[0].ID,
		"date":       bookingDay,
		"hour":       11,
		"guestEmail": "ana@mail.io",
	})

	w = a.do(t, http.MethodGet, "/api/me/export/ics", reg.Token, nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Fatalf("ics: got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if strings.Count(w.Body.String(), "BEGIN:VEVENT") != 1 {
		t.Fatalf("expected one booked event, got %s", w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/api/me/export/json", reg.Token, nil)
	dump := decode[struct {
		Version  string `json:"version"`
		Bookings []any  `json:"bookings"`
	}](t, w)
	if dump.Version != export.SchemaVersion || len(dump.Bookings) != 2 {
		t.Fatalf("unexpected dump %s", w.Body.String())
	}
}

func TestDeleteBusinessAndAuditTrail(t *testing.T) {
	a := newTestApp(t)
	reg := register(t, a)

	w := a.do(t, http.MethodDelete, "/api/me/business", reg.Token, map[string]any{"confirmation": "delete spa"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong phrase: expected 403, got %d", w.Code)
	}

	w = a.do(t, http.MethodDelete, "/api/me/business", reg.Token, map[string]any{"confirmation": "delete spa luz"})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	if w = a.do(t, http.MethodGet, "/api/public/businesses/"+reg.Business.ID, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("deleted business must be hidden, got %d", w.Code)
	}

	a.audit.Close()

	w = a.do(t, http.MethodGet, "/api/me/audit-logs?action=business_deleted", reg.Token, nil)
	page := decode[struct {
		Total int64 `json:"total"`
	}](t, w)
	if page.Total != 1 {
		t.Fatalf("expected one audit entry, got %s", w.Body.String())
	}
}

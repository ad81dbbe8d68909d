package business

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/infra/repository"
	"github.com/BruksfildServices01/residate/internal/realtime"
)

type fixture struct {
	bus        *realtime.LocalBus
	repo       *repository.MemoryBusinessRepository
	tombstones *repository.MemorySlotRepository
	audit      *audit.Dispatcher
	auditStore *repository.MemoryAuditRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := realtime.NewLocalBus()
	store := repository.NewMemoryAuditRepository()
	d := audit.NewDispatcher(audit.New(store))
	t.Cleanup(d.Close)
	return &fixture{
		bus:        bus,
		repo:       repository.NewMemoryBusinessRepository(bus),
		tombstones: repository.NewMemorySlotRepository(bus),
		audit:      d,
		auditStore: store,
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register := NewRegister(f.repo, f.tombstones, f.audit, false)
	dir := NewDirectory(f.repo, f.tombstones, nil)

	first, err := register.Execute(ctx, RegisterInput{Name: "Aura Spa", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = register.Execute(ctx, RegisterInput{Name: "Second Spa", Email: "A@x.com"})
	if !httperr.IsBusiness(err, "email_taken") {
		t.Fatalf("expected email_taken, got %v", err)
	}

	list, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != first.ID {
		t.Fatalf("expected only the first business, got %+v", list)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	register := NewRegister(f.repo, f.tombstones, f.audit, false)

	cases := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"missing name", RegisterInput{Email: "a@x.com"}, "name_required"},
		{"missing email", RegisterInput{Name: "Spa"}, "email_required"},
		{"bad email", RegisterInput{Name: "Spa", Email: "nope"}, "invalid_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := register.Execute(context.Background(), tc.in)
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestRegisterDefaultsAndPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register := NewRegister(f.repo, f.tombstones, f.audit, false)

	b, err := register.Execute(ctx, RegisterInput{
		Name:        "Zen Garden",
		Email:       "zen@x.com",
		Description: "Quiet place",
		Password:    "s3cret",
		Services: []domain.Service{
			{ID: "a", Name: "Tea"},
			{ID: "a", Name: "Walk", Price: 40},
			{Name: "  "},
		},
		IsCustom: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !strings.HasPrefix(b.ID, "zen-garden-") {
		t.Fatalf("unexpected id %q", b.ID)
	}
	if b.Description != "Quiet place" {
		t.Fatalf("password marker leaked: %q", b.Description)
	}
	if len(b.Services) != 2 || b.Services[0].ID == b.Services[1].ID {
		t.Fatalf("expected two services with distinct ids, got %+v", b.Services)
	}
	if b.Services[0].DurationMinutes != 60 {
		t.Fatalf("expected default duration, got %d", b.Services[0].DurationMinutes)
	}

	ok, err := NewAuthenticate(f.repo, f.tombstones).Execute(ctx, "zen@x.com", "s3cret")
	if err != nil || ok.ID != b.ID {
		t.Fatalf("authenticate: %+v %v", ok, err)
	}
	_, err = NewAuthenticate(f.repo, f.tombstones).Execute(ctx, "zen@x.com", "wrong")
	if !httperr.IsBusiness(err, "invalid_credentials") {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestRegisterWithoutServicesGetsDefault(t *testing.T) {
	f := newFixture(t)
	b, err := NewRegister(f.repo, f.tombstones, f.audit, false).Execute(context.Background(), RegisterInput{Name: "Plain", Email: "p@x.com"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(b.Services) != 1 || b.Services[0].Name != "Signature Service" || b.Services[0].Price != 150 {
		t.Fatalf("unexpected default services %+v", b.Services)
	}
}

func TestSoftDeleteRequiresPhrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, _ := NewRegister(f.repo, f.tombstones, f.audit, false).Execute(ctx, RegisterInput{Name: "Aura Spa", Email: "a@x.com"})

	del := NewSoftDelete(f.repo, f.tombstones, f.audit)
	dir := NewDirectory(f.repo, f.tombstones, nil)

	if err := del.Execute(ctx, b.ID, "delete aura", "a@x.com"); !httperr.IsBusiness(err, "confirmation_mismatch") {
		t.Fatalf("expected confirmation_mismatch, got %v", err)
	}
	if list, _ := dir.List(ctx); len(list) != 1 {
		t.Fatalf("business must survive a failed guard, got %d", len(list))
	}

	if err := del.Execute(ctx, b.ID, "delete aura spa", "a@x.com"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if list, _ := dir.List(ctx); len(list) != 0 {
		t.Fatalf("expected tombstoned business hidden, got %+v", list)
	}
	if _, err := dir.Get(ctx, b.ID); !httperr.IsBusiness(err, "business_not_found") {
		t.Fatalf("expected business_not_found, got %v", err)
	}

	// the row itself is still there
	if row, _ := f.repo.Get(ctx, b.ID); row == nil {
		t.Fatal("soft delete must not remove the row")
	}
}

func TestReRegisterAfterSoftDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register := NewRegister(f.repo, f.tombstones, f.audit, false)
	login := NewAuthenticate(f.repo, f.tombstones)

	old, err := register.Execute(ctx, RegisterInput{Name: "Aura Spa", Email: "a@x.com", Password: "first"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := NewSoftDelete(f.repo, f.tombstones, f.audit).Execute(ctx, old.ID, "delete aura spa", "a@x.com"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := login.Execute(ctx, "a@x.com", "first"); !httperr.IsBusiness(err, "invalid_credentials") {
		t.Fatalf("deleted owner must not log in, got %v", err)
	}

	fresh, err := register.Execute(ctx, RegisterInput{Name: "Aura Spa", Email: "A@x.com", Password: "second"})
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if fresh.ID == old.ID {
		t.Fatalf("expected a new id, got %q twice", fresh.ID)
	}

	got, err := login.Execute(ctx, "a@x.com", "second")
	if err != nil || got.ID != fresh.ID {
		t.Fatalf("expected login into %s, got %+v %v", fresh.ID, got, err)
	}

	if _, err := register.Execute(ctx, RegisterInput{Name: "Third", Email: "a@x.com"}); !httperr.IsBusiness(err, "email_taken") {
		t.Fatalf("expected email_taken while the new business is live, got %v", err)
	}
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, _ := NewRegister(f.repo, f.tombstones, f.audit, false).Execute(ctx, RegisterInput{Name: "Gone", Email: "g@x.com"})

	if err := NewHardDelete(f.repo, f.audit).Execute(ctx, b.ID, "g@x.com"); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if row, _ := f.repo.Get(ctx, b.ID); row != nil {
		t.Fatalf("expected row removed, got %+v", row)
	}
}

func TestDirectoryExcludedNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	register := NewRegister(f.repo, f.tombstones, f.audit, false)
	register.Execute(ctx, RegisterInput{Name: "Test Spa", Email: "t@x.com"})
	register.Execute(ctx, RegisterInput{Name: "Real Spa", Email: "r@x.com"})

	dir := NewDirectory(f.repo, f.tombstones, []string{"test spa"})
	list, _ := dir.List(ctx)
	if len(list) != 1 || list[0].Name != "Real Spa" {
		t.Fatalf("expected excluded name filtered, got %+v", list)
	}
}

func TestDirectoryWatchRefreshes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture(t)

	dir := NewDirectory(f.repo, f.tombstones, nil)
	if err := dir.Watch(ctx, f.bus); err != nil {
		t.Fatalf("watch: %v", err)
	}

	if _, err := NewRegister(f.repo, f.tombstones, f.audit, false).Execute(ctx, RegisterInput{Name: "Live", Email: "l@x.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if items, ok := dir.live.Snapshot(); ok && len(items) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("live snapshot never picked up the new business")
}

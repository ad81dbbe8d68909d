package repository

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/models"
	"github.com/BruksfildServices01/residate/internal/realtime"
)

func guest(day string, hour int, email string) slot.UpsertInput {
	return slot.UpsertInput{
		Key:         slot.Key{BusinessID: "b1", Day: day, Hour: hour},
		Kind:        slot.KindGuest,
		ClientName:  "Ana",
		ClientEmail: email,
		Service:     "Massage",
	}
}

func TestMemorySlotUpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySlotRepository(realtime.NewLocalBus())

	if _, err := repo.Upsert(ctx, guest("2026-10-20", 10, "ana@example.com")); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	block := slot.UpsertInput{
		Key:  slot.Key{BusinessID: "b1", Day: "2026-10-20", Hour: 10},
		Kind: slot.KindPersonalBlock,
	}
	if _, err := repo.Upsert(ctx, block); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, _ := repo.ListForBusiness(ctx, "b1")
	if len(got) != 1 {
		t.Fatalf("expected one slot per key, got %d", len(got))
	}
	if got[0].Status != slot.StatusBlocked || got[0].Kind != slot.KindPersonalBlock {
		t.Fatalf("expected personal block to win, got %+v", got[0])
	}
}

func TestMemorySlotGetAvailable(t *testing.T) {
	repo := NewMemorySlotRepository(realtime.NewLocalBus())

	s, err := repo.Get(context.Background(), slot.Key{BusinessID: "b1", Day: "2026-10-20", Hour: 9})
	if err != nil || s != nil {
		t.Fatalf("expected available slot, got %+v err=%v", s, err)
	}
}

func TestMemorySlotPublishesChanges(t *testing.T) {
	bus := realtime.NewLocalBus()
	sub := bus.Subscribe(realtime.TableSlots)
	defer sub.Close()

	repo := NewMemorySlotRepository(bus)
	if _, err := repo.Upsert(context.Background(), guest("2026-10-20", 11, "a@b.co")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	select {
	case ch := <-sub.C:
		if ch.BusinessID != "b1" || ch.Op != realtime.OpInsert {
			t.Fatalf("unexpected change %+v", ch)
		}
	case <-time.After(time.Second):
		t.Fatal("no change published")
	}
}

func TestMemorySlotDeleteByClient(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySlotRepository(realtime.NewLocalBus())

	repo.Upsert(ctx, guest("2026-10-20", 9, "ana@example.com"))
	repo.Upsert(ctx, guest("2026-10-21", 9, "ANA@example.com"))
	repo.Upsert(ctx, guest("2026-10-21", 10, "bob@example.com"))

	n, err := repo.DeleteByClient(ctx, "b1", "ana@example.com")
	if err != nil {
		t.Fatalf("delete by client: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	left, _ := repo.ListForBusiness(ctx, "b1")
	if len(left) != 1 || left[0].ClientEmail != "bob@example.com" {
		t.Fatalf("unexpected remaining slots %+v", left)
	}
}

func TestMemorySlotToggleVIP(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySlotRepository(realtime.NewLocalBus())
	repo.Upsert(ctx, guest("2026-10-20", 9, "ana@example.com"))

	if n, _ := repo.ToggleVIP(ctx, "b1", "ana@example.com"); n != 1 {
		t.Fatalf("expected one row toggled, got %d", n)
	}
	s, _ := repo.Get(ctx, slot.Key{BusinessID: "b1", Day: "2026-10-20", Hour: 9})
	if !s.IsVIP {
		t.Fatal("expected VIP after toggle")
	}

	repo.ToggleVIP(ctx, "b1", "ana@example.com")
	s, _ = repo.Get(ctx, slot.Key{BusinessID: "b1", Day: "2026-10-20", Hour: 9})
	if s.IsVIP {
		t.Fatal("expected VIP cleared after second toggle")
	}
}

func TestMemorySlotTombstones(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySlotRepository(realtime.NewLocalBus())

	if err := repo.MarkDeleted(ctx, "gone"); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	ids, _ := repo.DeletedIDs(ctx)
	if _, ok := ids["gone"]; !ok {
		t.Fatalf("expected tombstone for gone, got %v", ids)
	}
	if list, _ := repo.ListForBusiness(ctx, "gone"); len(list) != 0 {
		t.Fatalf("tombstone must not surface as a slot, got %+v", list)
	}
}

func TestMemoryBusinessDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBusinessRepository(realtime.NewLocalBus())

	if err := repo.Create(ctx, &business.Business{ID: "x", Name: "X"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, &business.Business{ID: "x", Name: "Y"})
	if !httperr.IsBusiness(err, "duplicate_business") {
		t.Fatalf("expected duplicate_business, got %v", err)
	}

	if got, _ := repo.ListByEmail(ctx, "nobody@example.com"); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestMemoryAuditPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAuditRepository()
	for _, action := range []string{"a", "b", "c"} {
		repo.Create(ctx, &models.AuditLog{BusinessID: "b1", Action: action, CreatedAt: time.Now()})
	}
	repo.Create(ctx, &models.AuditLog{BusinessID: "other", Action: "x"})

	logs, total, err := repo.ListByBusiness(ctx, "b1", audit.Filter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(logs) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(logs), total)
	}
	if logs[0].Action != "c" {
		t.Fatalf("expected newest first, got %q", logs[0].Action)
	}
}

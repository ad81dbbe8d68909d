package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/models"
	"github.com/BruksfildServices01/residate/internal/realtime"
	"github.com/BruksfildServices01/residate/internal/settings"
)

// In-memory stores back STORAGE_DRIVER=memory and the tests. They keep the
// same semantics as the gorm repositories, including change notification.

// ======================================================
// Slots
// ======================================================

type MemorySlotRepository struct {
	pub realtime.Publisher

	mu      sync.RWMutex
	rows    map[slot.Key]models.BookingSlot
	deleted map[string]struct{}
}

func NewMemorySlotRepository(pub realtime.Publisher) *MemorySlotRepository {
	return &MemorySlotRepository{
		pub:     pub,
		rows:    make(map[slot.Key]models.BookingSlot),
		deleted: make(map[string]struct{}),
	}
}

func (r *MemorySlotRepository) notify(ctx context.Context, op realtime.Op, businessID string) {
	r.pub.Publish(ctx, realtime.NewChange(realtime.TableSlots, op, businessID))
}

func (r *MemorySlotRepository) Get(_ context.Context, key slot.Key) (*slot.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	s := slot.FromModel(row)
	return &s, nil
}

func (r *MemorySlotRepository) ListForBusiness(_ context.Context, businessID string) ([]slot.Slot, error) {
	r.mu.RLock()
	out := make([]slot.Slot, 0)
	for key, row := range r.rows {
		if key.BusinessID == businessID {
			out = append(out, slot.FromModel(row))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}

func (r *MemorySlotRepository) Upsert(ctx context.Context, in slot.UpsertInput) (*slot.Slot, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	row := slot.ToModel(uuid.NewString(), in, time.Now().UTC())

	r.mu.Lock()
	r.rows[in.Key] = row
	r.mu.Unlock()

	r.notify(ctx, realtime.OpInsert, in.BusinessID)

	s := slot.FromModel(row)
	return &s, nil
}

func (r *MemorySlotRepository) Delete(ctx context.Context, key slot.Key) error {
	r.mu.Lock()
	_, ok := r.rows[key]
	delete(r.rows, key)
	r.mu.Unlock()

	if ok {
		r.notify(ctx, realtime.OpDelete, key.BusinessID)
	}
	return nil
}

func (r *MemorySlotRepository) DeleteByClient(ctx context.Context, businessID, clientEmail string) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(clientEmail))

	r.mu.Lock()
	var n int64
	for key, row := range r.rows {
		if businessID != "" && key.BusinessID != businessID {
			continue
		}
		if strings.ToLower(row.GuestEmail) == email {
			delete(r.rows, key)
			n++
		}
	}
	r.mu.Unlock()

	if n > 0 {
		r.notify(ctx, realtime.OpDelete, businessID)
	}
	return n, nil
}

func (r *MemorySlotRepository) ResetForBusiness(ctx context.Context, businessID string) (int64, error) {
	r.mu.Lock()
	var n int64
	for key := range r.rows {
		if key.BusinessID == businessID {
			delete(r.rows, key)
			n++
		}
	}
	r.mu.Unlock()

	r.notify(ctx, realtime.OpDelete, businessID)
	return n, nil
}

func (r *MemorySlotRepository) ToggleVIP(ctx context.Context, businessID, clientEmail string) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(clientEmail))

	r.mu.Lock()
	var n int64
	for key, row := range r.rows {
		if key.BusinessID == businessID && strings.ToLower(row.GuestEmail) == email {
			row.IsVIP = !row.IsVIP
			r.rows[key] = row
			n++
		}
	}
	r.mu.Unlock()

	if n > 0 {
		r.notify(ctx, realtime.OpUpdate, businessID)
	}
	return n, nil
}

func (r *MemorySlotRepository) MarkDeleted(ctx context.Context, businessID string) error {
	r.mu.Lock()
	r.deleted[businessID] = struct{}{}
	r.mu.Unlock()

	r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpDelete, businessID))
	return nil
}

func (r *MemorySlotRepository) DeletedIDs(_ context.Context) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{}, len(r.deleted))
	for id := range r.deleted {
		out[id] = struct{}{}
	}
	return out, nil
}

// ======================================================
// Businesses
// ======================================================

type MemoryBusinessRepository struct {
	pub realtime.Publisher

	mu   sync.RWMutex
	rows []business.Business
}

func NewMemoryBusinessRepository(pub realtime.Publisher) *MemoryBusinessRepository {
	return &MemoryBusinessRepository{pub: pub}
}

func (r *MemoryBusinessRepository) List(_ context.Context) ([]business.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]business.Business, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryBusinessRepository) Get(_ context.Context, id string) (*business.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.rows {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *MemoryBusinessRepository) ListByEmail(_ context.Context, email string) ([]business.Business, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	var out []business.Business
	for i := len(r.rows) - 1; i >= 0; i-- {
		if strings.ToLower(r.rows[i].Email) == email {
			out = append(out, r.rows[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryBusinessRepository) Create(ctx context.Context, b *business.Business) error {
	r.mu.Lock()
	for _, existing := range r.rows {
		if existing.ID == b.ID {
			r.mu.Unlock()
			return httperr.ErrBusiness("duplicate_business")
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	r.rows = append(r.rows, *b)
	r.mu.Unlock()

	r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpInsert, b.ID))
	return nil
}

func (r *MemoryBusinessRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	removed := false
	for i, b := range r.rows {
		if b.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			removed = true
			break
		}
	}
	r.mu.Unlock()

	if removed {
		r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpDelete, id))
	}
	return nil
}

// ======================================================
// Settings
// ======================================================

type MemorySettingsRepository struct {
	mu   sync.RWMutex
	rows map[string]settings.Settings
}

func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{rows: make(map[string]settings.Settings)}
}

func (r *MemorySettingsRepository) Get(_ context.Context, businessID string) (*settings.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.rows[businessID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemorySettingsRepository) Save(_ context.Context, businessID string, s settings.Settings) error {
	r.mu.Lock()
	r.rows[businessID] = s
	r.mu.Unlock()
	return nil
}

func (r *MemorySettingsRepository) Connected(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string)
	for id, s := range r.rows {
		if s.CalendarConnected && s.ICalURL != "" {
			out[id] = s.ICalURL
		}
	}
	return out, nil
}

// ======================================================
// Audit
// ======================================================

type MemoryAuditRepository struct {
	mu     sync.RWMutex
	nextID uint
	rows   []models.AuditLog
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Create(_ context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	r.nextID++
	entry.ID = r.nextID
	r.rows = append(r.rows, *entry)
	r.mu.Unlock()
	return nil
}

func (r *MemoryAuditRepository) ListByBusiness(
	_ context.Context,
	businessID string,
	f audit.Filter,
) ([]models.AuditLog, int64, error) {

	r.mu.RLock()
	matched := make([]models.AuditLog, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		e := r.rows[i]
		if e.BusinessID != businessID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Entity != "" && e.Entity != f.Entity {
			continue
		}
		if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !e.CreatedAt.Before(f.To) {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

// Compile-time check
var (
	_ slot.Repository     = (*MemorySlotRepository)(nil)
	_ business.Tombstones = (*MemorySlotRepository)(nil)
	_ business.Repository = (*MemoryBusinessRepository)(nil)
	_ settings.Repository = (*MemorySettingsRepository)(nil)
	_ audit.Store         = (*MemoryAuditRepository)(nil)
)

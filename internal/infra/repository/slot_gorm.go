package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/models"
	"github.com/BruksfildServices01/residate/internal/realtime"
)

type SlotGormRepository struct {
	db  *gorm.DB
	pub realtime.Publisher
}

func NewSlotGormRepository(db *gorm.DB, pub realtime.Publisher) *SlotGormRepository {
	return &SlotGormRepository{db: db, pub: pub}
}

func (r *SlotGormRepository) notify(ctx context.Context, op realtime.Op, businessID string) {
	r.pub.Publish(ctx, realtime.NewChange(realtime.TableSlots, op, businessID))
}

// notTombstone excludes the deletion markers kept in this table.
func notTombstone(db *gorm.DB) *gorm.DB {
	return db.Where("NOT (day_key = ? AND hour = ? AND service_name = ?)",
		slot.TombstoneDay, slot.TombstoneHour, slot.TombstoneService)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *SlotGormRepository) Get(ctx context.Context, key slot.Key) (*slot.Slot, error) {
	var row models.BookingSlot
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND day_key = ? AND hour = ?", key.BusinessID, key.Day, key.Hour).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s := slot.FromModel(row)
	return &s, nil
}

func (r *SlotGormRepository) ListForBusiness(ctx context.Context, businessID string) ([]slot.Slot, error) {
	var rows []models.BookingSlot
	if err := r.db.WithContext(ctx).
		Scopes(notTombstone).
		Where("business_id = ?", businessID).
		Order("day_key ASC, hour ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]slot.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, slot.FromModel(row))
	}
	return out, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

// Upsert replaces whatever sits at the key in one statement; concurrent
// writers to the same key race and the last one wins.
func (r *SlotGormRepository) Upsert(ctx context.Context, in slot.UpsertInput) (*slot.Slot, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	row := slot.ToModel(uuid.NewString(), in, time.Now().UTC())
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "business_id"}, {Name: "day_key"}, {Name: "hour"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"id", "guest_name", "guest_email", "service_name", "is_vip", "created_at",
			}),
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}

	r.notify(ctx, realtime.OpInsert, in.BusinessID)

	s := slot.FromModel(row)
	return &s, nil
}

func (r *SlotGormRepository) Delete(ctx context.Context, key slot.Key) error {
	res := r.db.WithContext(ctx).
		Where("business_id = ? AND day_key = ? AND hour = ?", key.BusinessID, key.Day, key.Hour).
		Delete(&models.BookingSlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.notify(ctx, realtime.OpDelete, key.BusinessID)
	}
	return nil
}

func (r *SlotGormRepository) DeleteByClient(ctx context.Context, businessID, clientEmail string) (int64, error) {
	q := r.db.WithContext(ctx).
		Scopes(notTombstone).
		Where("LOWER(guest_email) = ?", strings.ToLower(strings.TrimSpace(clientEmail)))
	if businessID != "" {
		q = q.Where("business_id = ?", businessID)
	}

	res := q.Delete(&models.BookingSlot{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.notify(ctx, realtime.OpDelete, businessID)
	}
	return res.RowsAffected, nil
}

func (r *SlotGormRepository) ResetForBusiness(ctx context.Context, businessID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(notTombstone).
		Where("business_id = ?", businessID).
		Delete(&models.BookingSlot{})
	if res.Error != nil {
		return 0, res.Error
	}
	r.notify(ctx, realtime.OpDelete, businessID)
	return res.RowsAffected, nil
}

func (r *SlotGormRepository) ToggleVIP(ctx context.Context, businessID, clientEmail string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BookingSlot{}).
		Where("business_id = ? AND LOWER(guest_email) = ?", businessID, strings.ToLower(strings.TrimSpace(clientEmail))).
		Update("is_vip", gorm.Expr("NOT is_vip"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.notify(ctx, realtime.OpUpdate, businessID)
	}
	return res.RowsAffected, nil
}

// --------------------------------------------------
// Business tombstones (stored in the slot table)
// --------------------------------------------------

// MarkDeleted writes the deletion marker for a business. The marker lives in
// booking_slots because the client role cannot delete business rows.
func (r *SlotGormRepository) MarkDeleted(ctx context.Context, businessID string) error {
	row := models.BookingSlot{
		ID:          uuid.NewString(),
		BusinessID:  businessID,
		DayKey:      slot.TombstoneDay,
		Hour:        slot.TombstoneHour,
		GuestName:   "System",
		ServiceName: slot.TombstoneService,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return err
	}

	r.pub.Publish(ctx, realtime.NewChange(realtime.TableBusinesses, realtime.OpDelete, businessID))
	return nil
}

func (r *SlotGormRepository) DeletedIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.BookingSlot{}).
		Where("day_key = ? AND hour = ? AND service_name = ?",
			slot.TombstoneDay, slot.TombstoneHour, slot.TombstoneService).
		Pluck("business_id", &ids).Error; err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Compile-time check
var (
	_ slot.Repository     = (*SlotGormRepository)(nil)
	_ business.Tombstones = (*SlotGormRepository)(nil)
)

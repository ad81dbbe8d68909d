package models

import "time"

// BookingSlot has no status column: the kind of record is carried by the
// reserved guest_email/service_name values (see domain/slot).
type BookingSlot struct {
	ID         string `gorm:"primaryKey;size:64" json:"id"`
	BusinessID string `gorm:"size:120;not null;uniqueIndex:idx_booking_slot_key" json:"business_id"`
	DayKey     string `gorm:"size:10;not null;uniqueIndex:idx_booking_slot_key" json:"day_key"`
	Hour       int    `gorm:"not null;uniqueIndex:idx_booking_slot_key" json:"hour"`

	GuestName   string `gorm:"size:150" json:"guest_name"`
	GuestEmail  string `gorm:"size:150;index" json:"guest_email"`
	ServiceName string `gorm:"size:150" json:"service_name"`
	IsVIP       bool   `gorm:"default:false" json:"is_vip"`

	CreatedAt time.Time `json:"created_at"`
}

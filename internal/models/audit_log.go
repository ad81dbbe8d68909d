package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one owner-visible trail entry. Metadata holds the event
// payload as raw JSON and is empty when the event carried none.
type AuditLog struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BusinessID string `gorm:"size:120;index:idx_audit_business_created,priority:1" json:"business_id"`
	Actor      string `gorm:"size:150" json:"actor"`
	Action     string `gorm:"size:50;not null;index" json:"action"`
	Entity     string `gorm:"size:50" json:"entity"`
	EntityID   string `gorm:"size:120" json:"entity_id"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_audit_business_created,priority:2" json:"created_at"`
}

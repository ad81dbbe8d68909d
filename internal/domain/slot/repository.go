package slot

import "context"

// Repository is the slot store. Writes replace by key and the last write
// wins; no operation spans more than one statement per call.
type Repository interface {
	// Get returns nil when the slot is available.
	Get(ctx context.Context, key Key) (*Slot, error)

	ListForBusiness(ctx context.Context, businessID string) ([]Slot, error)

	Upsert(ctx context.Context, in UpsertInput) (*Slot, error)

	Delete(ctx context.Context, key Key) error

	// DeleteByClient removes every slot of the email. An empty businessID
	// spans all businesses.
	DeleteByClient(ctx context.Context, businessID, clientEmail string) (int64, error)

	ResetForBusiness(ctx context.Context, businessID string) (int64, error)

	ToggleVIP(ctx context.Context, businessID, clientEmail string) (int64, error)
}

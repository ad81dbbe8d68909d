package business

import "context"

type Repository interface {
	List(ctx context.Context) ([]Business, error)

	// Get returns nil when the id is unknown.
	Get(ctx context.Context, id string) (*Business, error)

	// ListByEmail matches case-insensitively, newest first. Tombstoned
	// rows are included.
	ListByEmail(ctx context.Context, email string) ([]Business, error)

	Create(ctx context.Context, b *Business) error

	// Delete removes the row. Not every deployment grants it.
	Delete(ctx context.Context, id string) error
}

// Tombstones records logical deletion so that every reader can hide a
// business without the row being removed.
type Tombstones interface {
	MarkDeleted(ctx context.Context, businessID string) error
	DeletedIDs(ctx context.Context) (map[string]struct{}, error)
}

package business

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/realtime"
)

// Directory is the read side of the business store. Tombstoned ids and
// excluded names never leave it, and descriptions are always sanitized.
type Directory struct {
	repo       domain.Repository
	tombstones domain.Tombstones
	excluded   map[string]bool

	live *realtime.Live[domain.Business]
}

func NewDirectory(
	repo domain.Repository,
	tombstones domain.Tombstones,
	excludedNames []string,
) *Directory {
	excluded := make(map[string]bool, len(excludedNames))
	for _, n := range excludedNames {
		excluded[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return &Directory{
		repo:       repo,
		tombstones: tombstones,
		excluded:   excluded,
	}
}

// Watch keeps a live snapshot that is re-fetched on every business or
// tombstone change.
func (d *Directory) Watch(ctx context.Context, bus realtime.Bus) error {
	live := realtime.NewLive[domain.Business](bus, d.Fetch, realtime.TableBusinesses)
	if err := live.Start(ctx); err != nil {
		return err
	}
	d.live = live
	return nil
}

func (d *Directory) List(ctx context.Context) ([]domain.Business, error) {
	if d.live != nil {
		if items, ok := d.live.Snapshot(); ok {
			return items, nil
		}
	}
	return d.Fetch(ctx)
}

// Fetch reads the store directly.
func (d *Directory) Fetch(ctx context.Context) ([]domain.Business, error) {
	all, err := d.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := d.tombstones.DeletedIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Business, 0, len(all))
	for _, b := range all {
		if _, gone := deleted[b.ID]; gone {
			continue
		}
		if d.excluded[strings.ToLower(strings.TrimSpace(b.Name))] {
			continue
		}
		out = append(out, b.Public())
	}
	return out, nil
}

// Get returns business_not_found for unknown, tombstoned and excluded ids.
func (d *Directory) Get(ctx context.Context, id string) (*domain.Business, error) {
	b, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || d.excluded[strings.ToLower(strings.TrimSpace(b.Name))] {
		return nil, httperr.ErrBusiness("business_not_found")
	}

	deleted, err := d.tombstones.DeletedIDs(ctx)
	if err != nil {
		return nil, err
	}
	if _, gone := deleted[id]; gone {
		return nil, httperr.ErrBusiness("business_not_found")
	}

	out := b.Public()
	return &out, nil
}

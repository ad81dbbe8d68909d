package slot

import (
	"context"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
)

type ToggleBlock struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewToggleBlock(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ToggleBlock {
	return &ToggleBlock{
		repo:  repo,
		audit: audit,
	}
}

// Execute releases an occupied slot or blocks a free one. The returned slot
// is nil when the key ends up available.
func (uc *ToggleBlock) Execute(
	ctx context.Context,
	key domain.Key,
	actor string,
) (*domain.Slot, error) {

	if err := key.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Occupied → release
	// --------------------------------------------------
	if existing != nil {
		if err := uc.repo.Delete(ctx, key); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			BusinessID: key.BusinessID,
			Actor:      actor,
			Action:     "slot_released",
			Entity:     "slot",
			EntityID:   existing.ID,
			Metadata:   map[string]any{"day": key.Day, "hour": key.Hour, "was": existing.Status},
		})
		return nil, nil
	}

	// --------------------------------------------------
	// Free → block
	// --------------------------------------------------
	s, err := uc.repo.Upsert(ctx, domain.UpsertInput{
		Key:  key,
		Kind: domain.KindPersonalBlock,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: key.BusinessID,
		Actor:      actor,
		Action:     "slot_blocked",
		Entity:     "slot",
		EntityID:   s.ID,
		Metadata:   map[string]any{"day": key.Day, "hour": key.Hour},
	})

	return s, nil
}

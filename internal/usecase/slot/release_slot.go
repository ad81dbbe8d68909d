package slot

import (
	"context"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
)

type ReleaseSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReleaseSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReleaseSlot {
	return &ReleaseSlot{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ReleaseSlot) Execute(
	ctx context.Context,
	key domain.Key,
	actor string,
) error {

	if err := key.Validate(); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, key); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: key.BusinessID,
		Actor:      actor,
		Action:     "slot_released",
		Entity:     "slot",
		Metadata:   map[string]any{"day": key.Day, "hour": key.Hour},
	})

	return nil
}

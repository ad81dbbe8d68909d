package slot

import (
	"context"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
)

// ======================================================
// INPUT
// ======================================================

type BlockSlotInput struct {
	Key    domain.Key
	Reason string
	Actor  string
}

// ======================================================
// USE CASE
// ======================================================

type BlockSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBlockSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *BlockSlot {
	return &BlockSlot{
		repo:  repo,
		audit: audit,
	}
}

// Execute overwrites anything at the key with a personal block. The reason
// becomes the service label.
func (uc *BlockSlot) Execute(
	ctx context.Context,
	in BlockSlotInput,
) (*domain.Slot, error) {

	s, err := uc.repo.Upsert(ctx, domain.UpsertInput{
		Key:     in.Key,
		Kind:    domain.KindPersonalBlock,
		Service: in.Reason,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.Key.BusinessID,
		Actor:      in.Actor,
		Action:     "slot_blocked",
		Entity:     "slot",
		EntityID:   s.ID,
		Metadata:   map[string]any{"day": s.Day, "hour": s.Hour, "reason": s.Service},
	})

	return s, nil
}

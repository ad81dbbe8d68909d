package slot

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
)

// ResetLedger removes every slot of a business. The owner must type the
// registered email before anything is deleted.
type ResetLedger struct {
	repo       domain.Repository
	businesses business.Repository
	audit      *audit.Dispatcher
}

func NewResetLedger(
	repo domain.Repository,
	businesses business.Repository,
	audit *audit.Dispatcher,
) *ResetLedger {
	return &ResetLedger{
		repo:       repo,
		businesses: businesses,
		audit:      audit,
	}
}

func (uc *ResetLedger) Execute(
	ctx context.Context,
	businessID string,
	confirmEmail string,
	actor string,
) (int64, error) {

	b, err := uc.businesses.Get(ctx, businessID)
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, httperr.ErrBusiness("business_not_found")
	}

	typed := strings.TrimSpace(confirmEmail)
	if typed == "" || b.Email == "" || !strings.EqualFold(typed, strings.TrimSpace(b.Email)) {
		return 0, httperr.ErrBusiness("confirmation_mismatch")
	}

	n, err := uc.repo.ResetForBusiness(ctx, businessID)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "ledger_reset",
		Entity:     "business",
		EntityID:   businessID,
		Metadata:   map[string]any{"deleted": n},
	})

	return n, nil
}

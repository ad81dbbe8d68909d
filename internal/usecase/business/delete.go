package business

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
)

// ConfirmationPhrase is what the owner must type to delete a business.
func ConfirmationPhrase(name string) string {
	return "delete " + strings.ToLower(strings.TrimSpace(name))
}

// ======================================================
// SOFT DELETE
// ======================================================

type SoftDelete struct {
	repo       domain.Repository
	tombstones domain.Tombstones
	audit      *audit.Dispatcher
}

func NewSoftDelete(
	repo domain.Repository,
	tombstones domain.Tombstones,
	audit *audit.Dispatcher,
) *SoftDelete {
	return &SoftDelete{
		repo:       repo,
		tombstones: tombstones,
		audit:      audit,
	}
}

func (uc *SoftDelete) Execute(
	ctx context.Context,
	businessID string,
	confirmation string,
	actor string,
) error {

	b, err := uc.repo.Get(ctx, businessID)
	if err != nil {
		return err
	}
	if b == nil {
		return httperr.ErrBusiness("business_not_found")
	}

	if strings.TrimSpace(confirmation) != ConfirmationPhrase(b.Name) {
		return httperr.ErrBusiness("confirmation_mismatch")
	}

	if err := uc.tombstones.MarkDeleted(ctx, businessID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "business_deleted",
		Entity:     "business",
		EntityID:   businessID,
	})

	return nil
}

// ======================================================
// HARD DELETE
// ======================================================

// HardDelete removes the row. Deployments whose credential lacks delete
// rights surface the store error; the tombstone stays authoritative.
type HardDelete struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewHardDelete(repo domain.Repository, audit *audit.Dispatcher) *HardDelete {
	return &HardDelete{repo: repo, audit: audit}
}

func (uc *HardDelete) Execute(
	ctx context.Context,
	businessID string,
	actor string,
) error {

	if err := uc.repo.Delete(ctx, businessID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "business_removed",
		Entity:     "business",
		EntityID:   businessID,
	})

	return nil
}

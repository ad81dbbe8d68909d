package slot

import (
	"context"

	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
)

type ListSlots struct {
	repo domain.Repository
}

func NewListSlots(repo domain.Repository) *ListSlots {
	return &ListSlots{repo: repo}
}

// Execute lists stored slots. Available slots have no record, so filtering
// on "available" always yields an empty list.
func (uc *ListSlots) Execute(
	ctx context.Context,
	businessID string,
	status string,
) ([]domain.Slot, error) {

	var want domain.Status
	if status != "" {
		st, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		want = st
	}

	slots, err := uc.repo.ListForBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return domain.FilterByStatus(slots, want), nil
}

package business

import (
	"context"

	domain "github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
)

type Authenticate struct {
	repo       domain.Repository
	tombstones domain.Tombstones
}

func NewAuthenticate(repo domain.Repository, tombstones domain.Tombstones) *Authenticate {
	return &Authenticate{repo: repo, tombstones: tombstones}
}

func (uc *Authenticate) Execute(
	ctx context.Context,
	email string,
	password string,
) (*domain.Business, error) {

	b, err := findLiveByEmail(ctx, uc.repo, uc.tombstones, email)
	if err != nil {
		return nil, err
	}
	if b == nil || !domain.CheckPassword(b.Description, password) {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	out := b.Public()
	return &out, nil
}

// findLiveByEmail returns the newest business registered under email that
// has not been soft-deleted, or nil.
func findLiveByEmail(
	ctx context.Context,
	repo domain.Repository,
	tombstones domain.Tombstones,
	email string,
) (*domain.Business, error) {

	matches, err := repo.ListByEmail(ctx, email)
	if err != nil || len(matches) == 0 {
		return nil, err
	}

	deleted, err := tombstones.DeletedIDs(ctx)
	if err != nil {
		return nil, err
	}

	for i := range matches {
		if _, gone := deleted[matches[i].ID]; !gone {
			return &matches[i], nil
		}
	}
	return nil, nil
}

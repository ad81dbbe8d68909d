package slot

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/validators"
)

func clientEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", httperr.ErrBusiness("email_required")
	}
	if !validators.IsEmailFormatValid(email) {
		return "", httperr.ErrBusiness("invalid_email")
	}
	if domain.IsReservedEmail(email) {
		return "", httperr.ErrBusiness("reserved_identity")
	}
	return email, nil
}

// ======================================================
// LIST
// ======================================================

type ListClients struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListClients(repo domain.Repository, loc *time.Location) *ListClients {
	return &ListClients{repo: repo, loc: loc}
}

func (uc *ListClients) Execute(
	ctx context.Context,
	businessID string,
	query string,
	now time.Time,
) ([]domain.Client, error) {

	slots, err := uc.repo.ListForBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return domain.SearchClients(domain.Clients(slots, now, uc.loc), query), nil
}

// ======================================================
// TOGGLE VIP
// ======================================================

type ToggleVIP struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewToggleVIP(repo domain.Repository, audit *audit.Dispatcher) *ToggleVIP {
	return &ToggleVIP{repo: repo, audit: audit}
}

func (uc *ToggleVIP) Execute(
	ctx context.Context,
	businessID string,
	rawEmail string,
	actor string,
) (int64, error) {

	email, err := clientEmail(rawEmail)
	if err != nil {
		return 0, err
	}

	n, err := uc.repo.ToggleVIP(ctx, businessID, email)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "client_vip_toggled",
		Entity:     "client",
		EntityID:   email,
		Metadata:   map[string]any{"slots": n},
	})

	return n, nil
}

// ======================================================
// REMOVE
// ======================================================

// RemoveClient deletes every slot booked under the email in one business.
type RemoveClient struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveClient(repo domain.Repository, audit *audit.Dispatcher) *RemoveClient {
	return &RemoveClient{repo: repo, audit: audit}
}

func (uc *RemoveClient) Execute(
	ctx context.Context,
	businessID string,
	rawEmail string,
	actor string,
) (int64, error) {

	email, err := clientEmail(rawEmail)
	if err != nil {
		return 0, err
	}

	n, err := uc.repo.DeleteByClient(ctx, businessID, email)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		Actor:      actor,
		Action:     "client_removed",
		Entity:     "client",
		EntityID:   email,
		Metadata:   map[string]any{"slots": n},
	})

	return n, nil
}

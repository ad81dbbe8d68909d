package business

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/residate/internal/audit"
	domain "github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type RegisterInput struct {
	ID          string
	Name        string
	Location    string
	Category    string
	Description string
	Email       string
	Password    string
	Services    []domain.Service
	IsCustom    bool
}

// ======================================================
// USE CASE
// ======================================================

type Register struct {
	repo         domain.Repository
	tombstones   domain.Tombstones
	audit        *audit.Dispatcher
	verifyDomain bool
}

func NewRegister(
	repo domain.Repository,
	tombstones domain.Tombstones,
	audit *audit.Dispatcher,
	verifyDomain bool,
) *Register {
	return &Register{
		repo:         repo,
		tombstones:   tombstones,
		audit:        audit,
		verifyDomain: verifyDomain,
	}
}

// Execute checks the email before inserting. The check and the insert are
// not atomic; a uniqueness failure on the write is reported as a duplicate.
func (uc *Register) Execute(
	ctx context.Context,
	in RegisterInput,
) (*domain.Business, error) {

	// --------------------------------------------------
	// Validation
	// --------------------------------------------------
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, httperr.ErrBusiness("email_required")
	}
	if !validators.IsEmailFormatValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}
	if uc.verifyDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	// a soft-deleted owner may register again under the same email
	existing, err := findLiveByEmail(ctx, uc.repo, uc.tombstones, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ErrBusiness("email_taken")
	}

	// --------------------------------------------------
	// Profile
	// --------------------------------------------------
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = domain.NewID(name)
	}

	description, err := domain.WithPassword(strings.TrimSpace(in.Description), in.Password)
	if err != nil {
		return nil, err
	}

	b := &domain.Business{
		ID:          id,
		Name:        name,
		Location:    strings.TrimSpace(in.Location),
		Category:    strings.TrimSpace(in.Category),
		Description: description,
		Email:       email,
		Services:    normalizeServices(in.Services),
		IsCustom:    in.IsCustom,
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		if httperr.IsDuplicateKey(err) {
			return nil, httperr.ErrBusiness("duplicate_business")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: b.ID,
		Actor:      email,
		Action:     "business_registered",
		Entity:     "business",
		EntityID:   b.ID,
		Metadata:   map[string]any{"services": len(b.Services)},
	})

	out := b.Public()
	return &out, nil
}

// normalizeServices drops unnamed entries and gives every service an id
// that is unique within the business.
func normalizeServices(in []domain.Service) []domain.Service {
	out := make([]domain.Service, 0, len(in))
	seen := make(map[string]bool, len(in))

	for _, s := range in {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		if s.Price < 0 {
			s.Price = 0
		}
		if s.DurationMinutes <= 0 {
			s.DurationMinutes = 60
		}
		s.ID = strings.TrimSpace(s.ID)
		for s.ID == "" || seen[s.ID] {
			s.ID = domain.NewServiceID()
		}
		seen[s.ID] = true
		out = append(out, s)
	}

	if len(out) == 0 {
		return domain.DefaultServices()
	}
	return out
}

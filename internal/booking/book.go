package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
)

// Finder resolves a visible business.
type Finder interface {
	Get(ctx context.Context, id string) (*business.Business, error)
}

type BookInput struct {
	BusinessID string
	ServiceID  string
	Date       string
	Hour       int
	GuestName  string
	GuestEmail string
}

type Result struct {
	Slot  *slot.Slot `json:"slot"`
	Quote Quote      `json:"quote"`
	Step  Step       `json:"step"`
}

// Book runs a whole flow in one request: service, date, time, confirm.
type Book struct {
	businesses Finder
	slots      slot.Repository
	audit      *audit.Dispatcher
	loc        *time.Location
	now        func() time.Time
}

func NewBook(
	businesses Finder,
	slots slot.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *Book {
	return &Book{
		businesses: businesses,
		slots:      slots,
		audit:      audit,
		loc:        loc,
		now:        time.Now,
	}
}

func (uc *Book) Start(ctx context.Context, businessID string) (*Flow, error) {
	b, err := uc.businesses.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return NewFlow(*b, uc.slots, uc.loc, uc.now), nil
}

func (uc *Book) Execute(ctx context.Context, in BookInput) (*Result, error) {
	flow, err := uc.Start(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return flow.SelectService(in.ServiceID) },
		flow.Next,
		func() error { return flow.SetDate(in.Date) },
		func() error { return flow.SelectTime(ctx, in.Hour) },
		flow.Next,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	flow.SetGuest(in.GuestName, in.GuestEmail)
	q, err := flow.Quote()
	if err != nil {
		return nil, err
	}

	s, err := flow.Finalize(ctx)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		Actor:      s.ClientEmail,
		Action:     "slot_booked",
		Entity:     "slot",
		EntityID:   s.ID,
		Metadata:   map[string]any{"day": s.Day, "hour": s.Hour, "service": s.Service, "total": q.Total},
	})

	return &Result{Slot: s, Quote: q, Step: flow.Step()}, nil
}

// QuoteService prices a service of a business without starting a flow.
func (uc *Book) QuoteService(ctx context.Context, businessID, serviceID string) (Quote, error) {
	flow, err := uc.Start(ctx, businessID)
	if err != nil {
		return Quote{}, err
	}
	if err := flow.SelectService(serviceID); err != nil {
		return Quote{}, err
	}
	return flow.Quote()
}

func (uc *Book) Availability(ctx context.Context, businessID, day string) ([]Candidate, error) {
	flow, err := uc.Start(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if day == "" {
		day = flow.Day()
	}
	d, err := flow.checkDay(day)
	if err != nil {
		return nil, err
	}
	return Availability(ctx, uc.slots, businessID, slot.DayKey(d))
}

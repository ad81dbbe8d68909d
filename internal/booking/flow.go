package booking

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/timezone"
)

type Step string

const (
	StepChoosingService Step = "choosing-service"
	StepChoosingTime    Step = "choosing-time"
	StepConfirming      Step = "confirming"
	StepSuccess         Step = "success"
)

const TaxRate = 0.08

// Quote is derived from the catalog each time; it is never stored.
type Quote struct {
	Service string  `json:"service"`
	Base    float64 `json:"base"`
	Tax     float64 `json:"tax"`
	Total   float64 `json:"total"`
}

func QuoteFor(s business.Service) Quote {
	tax := math.Round(s.Price * TaxRate)
	return Quote{
		Service: s.Name,
		Base:    s.Price,
		Tax:     tax,
		Total:   s.Price + tax,
	}
}

type Candidate struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

// Availability lists the fixed candidate hours of a day. A candidate is
// available iff no slot record exists at its key.
func Availability(ctx context.Context, slots slot.Repository, businessID, day string) ([]Candidate, error) {
	out := make([]Candidate, 0, len(slot.CandidateHours()))
	for _, h := range slot.CandidateHours() {
		key := slot.Key{BusinessID: businessID, Day: day, Hour: h}
		if err := key.Validate(); err != nil {
			return nil, err
		}
		s, err := slots.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Hour: h, Available: s == nil})
	}
	return out, nil
}

// Flow walks one guest through service, time, confirmation and success.
// It is not safe for concurrent use.
type Flow struct {
	business business.Business
	slots    slot.Repository
	loc      *time.Location
	now      func() time.Time

	step      Step
	service   *business.Service
	day       time.Time
	hour      *int
	guestName string
	guestMail string
	booked    *slot.Slot
}

func NewFlow(
	b business.Business,
	slots slot.Repository,
	loc *time.Location,
	now func() time.Time,
) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{
		business: b,
		slots:    slots,
		loc:      loc,
		now:      now,
		step:     StepChoosingService,
		day:      timezone.StartOfDay(now().In(loc)),
	}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Day() string { return slot.DayKey(f.day) }

func (f *Flow) Hour() (int, bool) {
	if f.hour == nil {
		return 0, false
	}
	return *f.hour, true
}

func (f *Flow) Service() (business.Service, bool) {
	if f.service == nil {
		return business.Service{}, false
	}
	return *f.service, true
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------

func (f *Flow) SelectService(id string) error {
	if f.step != StepChoosingService {
		return httperr.ErrBusiness("invalid_step")
	}
	s, ok := f.business.Service(id)
	if !ok {
		return httperr.ErrBusiness("service_not_found")
	}
	f.service = &s
	return nil
}

func (f *Flow) Next() error {
	switch f.step {
	case StepChoosingService:
		if f.service == nil {
			return httperr.ErrBusiness("service_not_selected")
		}
		f.step = StepChoosingTime
	case StepChoosingTime:
		if f.hour == nil {
			return httperr.ErrBusiness("time_not_selected")
		}
		f.step = StepConfirming
	default:
		return httperr.ErrBusiness("invalid_step")
	}
	return nil
}

func (f *Flow) Back() error {
	switch f.step {
	case StepChoosingTime:
		f.step = StepChoosingService
	case StepConfirming:
		f.step = StepChoosingTime
	default:
		return httperr.ErrBusiness("invalid_step")
	}
	return nil
}

// SetDate moves the calendar to day. Dates before today are refused and a
// different date drops the chosen time.
func (f *Flow) SetDate(day string) error {
	if f.step != StepChoosingTime {
		return httperr.ErrBusiness("invalid_step")
	}
	d, err := f.checkDay(day)
	if err != nil {
		return err
	}
	if !d.Equal(f.day) {
		f.hour = nil
	}
	f.day = d
	return nil
}

// checkDay parses day in the flow's zone and refuses dates before today.
func (f *Flow) checkDay(day string) (time.Time, error) {
	d, err := time.ParseInLocation(slot.DayLayout, strings.TrimSpace(day), f.loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_day")
	}
	if d.Before(timezone.StartOfDay(f.now().In(f.loc))) {
		return time.Time{}, httperr.ErrBusiness("date_in_past")
	}
	return d, nil
}

func (f *Flow) Availability(ctx context.Context) ([]Candidate, error) {
	return Availability(ctx, f.slots, f.business.ID, f.Day())
}

func (f *Flow) SelectTime(ctx context.Context, hour int) error {
	if f.step != StepChoosingTime {
		return httperr.ErrBusiness("invalid_step")
	}
	if !slot.WithinOperatingWindow(hour) {
		return httperr.ErrBusiness("outside_operating_hours")
	}

	s, err := f.slots.Get(ctx, slot.Key{BusinessID: f.business.ID, Day: f.Day(), Hour: hour})
	if err != nil {
		return err
	}
	if s != nil {
		return httperr.ErrBusiness("slot_unavailable")
	}

	f.hour = &hour
	return nil
}

func (f *Flow) SetGuest(name, email string) {
	f.guestName = strings.TrimSpace(name)
	f.guestMail = strings.TrimSpace(email)
}

func (f *Flow) Quote() (Quote, error) {
	if f.service == nil {
		return Quote{}, httperr.ErrBusiness("service_not_selected")
	}
	return QuoteFor(*f.service), nil
}

// Finalize writes the booking. A failed write leaves the flow at
// confirming; there is nothing to roll back.
func (f *Flow) Finalize(ctx context.Context) (*slot.Slot, error) {
	if f.step != StepConfirming {
		return nil, httperr.ErrBusiness("invalid_step")
	}

	name := f.guestName
	if name == "" {
		name = slot.DefaultGuestName
	}

	s, err := f.slots.Upsert(ctx, slot.UpsertInput{
		Key:         slot.Key{BusinessID: f.business.ID, Day: f.Day(), Hour: *f.hour},
		Kind:        slot.KindGuest,
		ClientName:  name,
		ClientEmail: f.guestMail,
		Service:     f.service.Name,
	})
	if err != nil {
		return nil, err
	}

	f.booked = s
	f.step = StepSuccess
	return s, nil
}

func (f *Flow) Booked() *slot.Slot { return f.booked }

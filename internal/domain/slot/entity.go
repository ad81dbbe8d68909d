package slot

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/residate/internal/httperr"
	"github.com/BruksfildServices01/residate/internal/models"
)

const DayLayout = "2006-01-02"

// Key identifies a slot. At most one record exists per key.
type Key struct {
	BusinessID string
	Day        string
	Hour       int
}

func (k Key) Validate() error {
	if strings.TrimSpace(k.BusinessID) == "" {
		return httperr.ErrBusiness("business_not_found")
	}
	if _, err := time.Parse(DayLayout, k.Day); err != nil {
		return httperr.ErrBusiness("invalid_day")
	}
	if k.Hour < 0 || k.Hour > 23 {
		return httperr.ErrBusiness("invalid_hour")
	}
	return nil
}

// Date returns the start of the slot, read in loc.
func (k Key) Date(loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, k.Day, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_day")
	}
	return time.Date(d.Year(), d.Month(), d.Day(), k.Hour, 0, 0, 0, loc), nil
}

func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

type Slot struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Day         string    `json:"day"`
	Hour        int       `json:"hour"`
	Status      Status    `json:"status"`
	Kind        Kind      `json:"kind"`
	ClientName  string    `json:"client_name,omitempty"`
	ClientEmail string    `json:"client_email,omitempty"`
	Service     string    `json:"service,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	IsVIP       bool      `json:"is_vip"`
}

func (s Slot) Key() Key {
	return Key{BusinessID: s.BusinessID, Day: s.Day, Hour: s.Hour}
}

// UpsertInput is the single write shape used by booking, manual blocks and
// calendar sync. Internal kinds get their reserved identity on Normalize.
type UpsertInput struct {
	Key
	Kind        Kind
	ClientName  string
	ClientEmail string
	Service     string
}

func (in UpsertInput) Normalize() (UpsertInput, error) {
	if err := in.Key.Validate(); err != nil {
		return in, err
	}

	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = strings.TrimSpace(in.ClientEmail)
	in.Service = strings.TrimSpace(in.Service)

	switch in.Kind {
	case KindPersonalBlock:
		in.ClientName = PersonalBlockName
		in.ClientEmail = PersonalBlockEmail
	case KindCalendarSync:
		in.ClientName = CalendarSyncName
		in.ClientEmail = CalendarSyncEmail
	case KindGuest, "":
		in.Kind = KindGuest
		if IsReservedEmail(in.ClientEmail) || in.Service == TombstoneService {
			return in, httperr.ErrBusiness("reserved_identity")
		}
	default:
		return in, httperr.ErrBusiness("invalid_request")
	}

	if in.Kind != KindGuest && in.Service == "" {
		in.Service = DefaultBusyLabel
	}

	return in, nil
}

// ===============================
// Stored layout mapping
// ===============================

func IsTombstone(row models.BookingSlot) bool {
	return row.ServiceName == TombstoneService && row.DayKey == TombstoneDay && row.Hour == TombstoneHour
}

func FromModel(row models.BookingSlot) Slot {
	kind := KindFromEmail(row.GuestEmail)
	return Slot{
		ID:          row.ID,
		BusinessID:  row.BusinessID,
		Day:         row.DayKey,
		Hour:        row.Hour,
		Status:      StatusOf(kind, row.GuestEmail),
		Kind:        kind,
		ClientName:  row.GuestName,
		ClientEmail: row.GuestEmail,
		Service:     row.ServiceName,
		Timestamp:   row.CreatedAt,
		IsVIP:       row.IsVIP,
	}
}

// ToModel expects a normalized input.
func ToModel(id string, in UpsertInput, now time.Time) models.BookingSlot {
	return models.BookingSlot{
		ID:          id,
		BusinessID:  in.BusinessID,
		DayKey:      in.Day,
		Hour:        in.Hour,
		GuestName:   in.ClientName,
		GuestEmail:  in.ClientEmail,
		ServiceName: in.Service,
		CreatedAt:   now,
	}
}

func FilterByStatus(slots []Slot, status Status) []Slot {
	if status == "" {
		return slots
	}
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

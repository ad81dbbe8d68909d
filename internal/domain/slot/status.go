package slot

import (
	"strings"

	"github.com/BruksfildServices01/residate/internal/httperr"
)

// ===============================
// Slot Status
// ===============================

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusPending   Status = "pending"
	StatusBlocked   Status = "blocked"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAvailable, StatusBooked, StatusPending, StatusBlocked:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// ===============================
// Identity Kind
// ===============================

// Kind says who a slot record belongs to. Only guests are real people; the
// other kinds are internal identities.
type Kind string

const (
	KindGuest         Kind = "guest"
	KindPersonalBlock Kind = "personal_block"
	KindCalendarSync  Kind = "calendar_sync"
)

// Reserved values of the stored layout. They must never be assigned to a
// real guest.
const (
	PersonalBlockName  = "Personal"
	PersonalBlockEmail = "personal@blocked.com"

	CalendarSyncName  = "Google Calendar"
	CalendarSyncEmail = "gcal@sync.com"

	DefaultBusyLabel = "Busy"

	TombstoneDay     = "DELETE"
	TombstoneHour    = -1
	TombstoneService = "__BUSINESS_DELETED__"
)

func IsReservedEmail(email string) bool {
	switch strings.ToLower(strings.TrimSpace(email)) {
	case PersonalBlockEmail, CalendarSyncEmail:
		return true
	}
	return false
}

// KindFromEmail decodes the identity kind from the stored guest email.
func KindFromEmail(email string) Kind {
	switch strings.ToLower(strings.TrimSpace(email)) {
	case PersonalBlockEmail:
		return KindPersonalBlock
	case CalendarSyncEmail:
		return KindCalendarSync
	}
	return KindGuest
}

// StatusOf derives the status of a stored record. A guest without a contact
// address is still pending.
func StatusOf(kind Kind, clientEmail string) Status {
	switch kind {
	case KindPersonalBlock, KindCalendarSync:
		return StatusBlocked
	}
	if strings.TrimSpace(clientEmail) == "" {
		return StatusPending
	}
	return StatusBooked
}

package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
)

const uidDomain = "residate"

// ICS renders one VEVENT per booked slot, one hour long. Slot hours are
// wall-clock times in loc; the events carry the matching UTC instants.
func ICS(b business.Business, slots []slot.Slot, loc *time.Location, now time.Time) (string, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ResiDate//Bookings//EN")
	cal.SetXWRCalName(b.Name)

	for _, s := range slots {
		if s.Status != slot.StatusBooked {
			continue
		}

		d, err := time.ParseInLocation(slot.DayLayout, s.Day, loc)
		if err != nil {
			return "", fmt.Errorf("slot %s: %w", s.ID, err)
		}
		start := time.Date(d.Year(), d.Month(), d.Day(), s.Hour, 0, 0, 0, loc).UTC()

		ev := cal.AddEvent(s.ID + "@" + uidDomain)
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Hour))
		ev.SetSummary(s.Service + " - " + b.Name)
		ev.SetDescription("Client: " + s.ClientName + "\nEmail: " + s.ClientEmail)
		if b.Location != "" {
			ev.SetLocation(b.Location)
		}
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize(), nil
}

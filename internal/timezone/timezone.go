package timezone

import "time"

// DefaultTimezone is where the seeded catalog operates.
const DefaultTimezone = "Europe/Madrid"

const dayLayout = "2006-01-02"

// Location resolves tz, falling back to DefaultTimezone and then UTC.
func Location(tz string) *time.Location {
	for _, name := range []string{tz, DefaultTimezone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today is the current calendar day in loc as YYYY-MM-DD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(dayLayout)
}

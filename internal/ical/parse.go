// Package ical reads the subset of iCalendar feeds needed to import busy
// periods: VEVENT start, end, summary and description.
package ical

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Event is one VEVENT. Start is nil when DTSTART is missing or malformed;
// callers skip those events.
type Event struct {
	Start       *time.Time
	End         *time.Time
	Summary     string
	Description string
}

var lineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// Parse reads every VEVENT of data with dates in time.Local.
func Parse(data string) []Event {
	return ParseIn(data, time.Local)
}

// ParseIn is Parse with dates read in loc. A trailing Z is dropped and the
// wall clock is kept, so UTC feeds shift by the offset of loc.
func ParseIn(data string, loc *time.Location) []Event {
	lines := unfold(lineBreak.Split(data, -1))

	var (
		events []Event
		cur    *Event
	)
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "BEGIN:VEVENT"):
			cur = &Event{}
		case strings.HasPrefix(line, "END:VEVENT"):
			if cur != nil {
				events = append(events, *cur)
			}
			cur = nil
		case cur != nil:
			key, value, _ := strings.Cut(line, ":")
			switch {
			case strings.HasPrefix(key, "DTSTART"):
				cur.Start = parseDate(value, loc)
			case strings.HasPrefix(key, "DTEND"):
				cur.End = parseDate(value, loc)
			case strings.HasPrefix(key, "SUMMARY"):
				cur.Summary = value
			case strings.HasPrefix(key, "DESCRIPTION"):
				cur.Description = value
			}
		}
	}
	return events
}

// WithStart drops events without a usable start.
func WithStart(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Start != nil {
			out = append(out, ev)
		}
	}
	return out
}

// unfold joins continuation lines (leading space or tab) onto the previous
// line without the leading whitespace character.
func unfold(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if len(out) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			out[len(out)-1] += line[1:]
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseDate reads YYYYMMDDTHHMM[SS][Z]. Date-only values carry no hour and
// are treated as malformed.
func parseDate(value string, loc *time.Location) *time.Time {
	s := strings.Replace(strings.TrimSpace(value), "Z", "", 1)
	if len(s) < 13 {
		return nil
	}

	fields := []string{s[0:4], s[4:6], s[6:8], s[9:11], s[11:13]}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil
		}
		nums[i] = n
	}

	t := time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], 0, 0, loc)
	return &t
}

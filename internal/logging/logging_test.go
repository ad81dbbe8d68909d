package logging

import "testing"

func TestRedactURL(t *testing.T) {
	cases := map[string]string{
		"https://calendar.google.com/calendar/ical/abc/private-123/basic.ics": "https://calendar.google.com/...(redacted)",
		"http://example.com/feed.ics?token=secret":                            "http://example.com/...(redacted)",
		"not a url":                                                           "(redacted)",
	}
	for in, want := range cases {
		if got := RedactURL(in); got != want {
			t.Errorf("RedactURL(%q) = %q, want %q", in, got, want)
		}
	}
}

package slot

import (
	"testing"
	"time"
)

func TestClientsAggregation(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)

	slots := []Slot{
		{BusinessID: "b", Day: "2026-10-01", Hour: 9, Status: StatusBooked, ClientEmail: "ana@x.com", ClientName: ""},
		{BusinessID: "b", Day: "2026-10-20", Hour: 9, Status: StatusBooked, ClientEmail: "ana@x.com", ClientName: "Ana"},
		{BusinessID: "b", Day: "2026-09-01", Hour: 9, Status: StatusBooked, ClientEmail: "bob@x.com", ClientName: "Bob"},
		{BusinessID: "b", Day: "2026-09-02", Hour: 9, Status: StatusBooked, ClientEmail: "vip@x.com", ClientName: "Vee", IsVIP: true},
		{BusinessID: "b", Day: "2026-10-21", Hour: 9, Status: StatusBlocked, ClientEmail: PersonalBlockEmail},
		{BusinessID: "b", Day: "2026-10-22", Hour: 9, Status: StatusPending},
	}

	clients := Clients(slots, now, loc)
	if len(clients) != 3 {
		t.Fatalf("expected 3 clients, got %d: %+v", len(clients), clients)
	}

	byEmail := map[string]Client{}
	for _, c := range clients {
		byEmail[c.Email] = c
	}

	ana := byEmail["ana@x.com"]
	if ana.Status != ClientActive || ana.Name != "Ana" || ana.Bookings != 2 {
		t.Fatalf("unexpected ana: %+v", ana)
	}
	if !ana.LastVisit.Equal(time.Date(2026, 10, 20, 9, 0, 0, 0, loc)) {
		t.Fatalf("expected latest visit, got %v", ana.LastVisit)
	}
	if byEmail["bob@x.com"].Status != ClientInactive {
		t.Fatalf("expected bob inactive, got %+v", byEmail["bob@x.com"])
	}
	if byEmail["vip@x.com"].Status != ClientVIP {
		t.Fatalf("expected vip, got %+v", byEmail["vip@x.com"])
	}
	if clients[0].Email != "ana@x.com" {
		t.Fatalf("expected most recent first, got %s", clients[0].Email)
	}
}

func TestClientsGroupEmailCaseInsensitively(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)

	slots := []Slot{
		{BusinessID: "b", Day: "2026-10-01", Hour: 9, Status: StatusBooked, ClientEmail: "Ana@x.com", ClientName: "Ana"},
		{BusinessID: "b", Day: "2026-10-02", Hour: 9, Status: StatusBooked, ClientEmail: "ana@x.com", ClientName: "Ana", IsVIP: true},
	}

	clients := Clients(slots, now, loc)
	if len(clients) != 1 {
		t.Fatalf("expected one client, got %+v", clients)
	}
	if c := clients[0]; c.Bookings != 2 || c.Email != "Ana@x.com" || c.Status != ClientVIP {
		t.Fatalf("unexpected client %+v", c)
	}
}

func TestSearchClients(t *testing.T) {
	clients := []Client{
		{Name: "Ana Lopez", Email: "ana@x.com"},
		{Name: "Bob", Email: "bob@corp.io"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"LOPEZ", 1},
		{"corp", 1},
		{"zzz", 0},
	}
	for _, tc := range cases {
		if got := SearchClients(clients, tc.query); len(got) != tc.want {
			t.Errorf("query %q: expected %d, got %d", tc.query, tc.want, len(got))
		}
	}
}

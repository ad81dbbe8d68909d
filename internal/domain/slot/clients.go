package slot

import (
	"sort"
	"strings"
	"time"
)

type ClientStatus string

const (
	ClientVIP      ClientStatus = "VIP"
	ClientActive   ClientStatus = "Active"
	ClientInactive ClientStatus = "Inactive"
)

const DefaultGuestName = "Guest User"

// Client is one entry of the registry derived from booked slots.
type Client struct {
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	IsVIP            bool         `json:"isVIP"`
	HasFutureBooking bool         `json:"hasFutureBooking"`
	LastVisit        time.Time    `json:"lastVisit"`
	Bookings         int          `json:"bookings"`
	Status           ClientStatus `json:"status"`
}

// Clients aggregates booked guest slots per email, compared
// case-insensitively. The entry keeps the spelling of the first booking seen.
// Blocks and pending slots are not clients.
func Clients(slots []Slot, now time.Time, loc *time.Location) []Client {
	byEmail := make(map[string]*Client)
	order := make([]string, 0)

	for _, s := range slots {
		if s.Status != StatusBooked || s.ClientEmail == "" {
			continue
		}

		at, err := s.Key().Date(loc)
		if err != nil {
			at = s.Timestamp
		}
		future := at.After(now)

		id := strings.ToLower(strings.TrimSpace(s.ClientEmail))
		c, ok := byEmail[id]
		if !ok {
			name := s.ClientName
			if name == "" {
				name = DefaultGuestName
			}
			c = &Client{Name: name, Email: s.ClientEmail, LastVisit: at}
			byEmail[id] = c
			order = append(order, id)
		}

		c.Bookings++
		if future {
			c.HasFutureBooking = true
		}
		if s.IsVIP {
			c.IsVIP = true
		}
		if at.After(c.LastVisit) {
			c.LastVisit = at
		}
		if s.ClientName != "" && c.Name == DefaultGuestName {
			c.Name = s.ClientName
		}
	}

	out := make([]Client, 0, len(order))
	for _, email := range order {
		c := byEmail[email]
		switch {
		case c.IsVIP:
			c.Status = ClientVIP
		case c.HasFutureBooking:
			c.Status = ClientActive
		default:
			c.Status = ClientInactive
		}
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastVisit.After(out[j].LastVisit)
	})
	return out
}

// SearchClients matches a case-insensitive substring of name or email.
func SearchClients(clients []Client, query string) []Client {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clients
	}
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}

package dto

import (
	"fmt"
	"time"
)

type SlotListDTO struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"`
	Hour        int       `json:"hour"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	Kind        string    `json:"kind"`
	ClientName  string    `json:"client_name,omitempty"`
	ClientEmail string    `json:"client_email,omitempty"`
	Service     string    `json:"service,omitempty"`
	IsVIP       bool      `json:"is_vip"`
	CreatedAt   time.Time `json:"created_at"`
}

// HourLabel renders an hour as HH:00.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

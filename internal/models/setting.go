package models

import "time"

type Setting struct {
	BusinessID string `gorm:"primaryKey;size:120" json:"business_id"`

	FullName           string `gorm:"size:150" json:"full_name"`
	Email              string `gorm:"size:150" json:"email"`
	DarkMode           bool   `json:"dark_mode"`
	HighContrast       bool   `json:"high_contrast"`
	Notifications      bool   `json:"notifications"`
	EmailNotifications bool   `json:"email_notifications"`
	TwoFactorEnabled   bool   `json:"two_factor_enabled"`

	ICalURL           string `gorm:"size:1024" json:"ical_url"`
	CalendarConnected bool   `json:"calendar_connected"`
	APIKey            string `gorm:"size:64" json:"api_key"`

	UpdatedAt time.Time `json:"updated_at"`
}

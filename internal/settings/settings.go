package settings

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/BruksfildServices01/residate/internal/models"
)

// Settings are the owner preferences of one business. The calendar fields
// are managed by calsync and are not writable through Update.
type Settings struct {
	FullName           string    `json:"fullName"`
	Email              string    `json:"email"`
	DarkMode           bool      `json:"darkMode"`
	HighContrast       bool      `json:"highContrast"`
	Notifications      bool      `json:"notifications"`
	EmailNotifications bool      `json:"emailNotifications"`
	TwoFactorEnabled   bool      `json:"twoFactorEnabled"`
	ICalURL            string    `json:"icalUrl"`
	CalendarConnected  bool      `json:"calendarConnected"`
	APIKey             string    `json:"apiKey,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func Defaults() Settings {
	return Settings{
		FullName:           "Elena Rodriguez",
		Email:              "elena.r@luxury.com",
		DarkMode:           true,
		Notifications:      true,
		EmailNotifications: true,
	}
}

// Preferences is the user-editable subset.
type Preferences struct {
	FullName           *string `json:"fullName"`
	Email              *string `json:"email"`
	DarkMode           *bool   `json:"darkMode"`
	HighContrast       *bool   `json:"highContrast"`
	Notifications      *bool   `json:"notifications"`
	EmailNotifications *bool   `json:"emailNotifications"`
	TwoFactorEnabled   *bool   `json:"twoFactorEnabled"`
}

func (p Preferences) apply(s *Settings) {
	if p.FullName != nil {
		s.FullName = *p.FullName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.EmailNotifications != nil {
		s.EmailNotifications = *p.EmailNotifications
	}
	if p.TwoFactorEnabled != nil {
		s.TwoFactorEnabled = *p.TwoFactorEnabled
	}
}

type Repository interface {
	// Get returns nil when nothing was saved yet.
	Get(ctx context.Context, businessID string) (*Settings, error)
	Save(ctx context.Context, businessID string, s Settings) error
	// Connected lists businesses with a connected calendar feed.
	Connected(ctx context.Context) (map[string]string, error)
}

const (
	apiKeyPrefix   = "rp_"
	apiKeyLength   = 32
	apiKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func NewAPIKey() (string, error) {
	buf := make([]byte, apiKeyLength)
	max := big.NewInt(int64(len(apiKeyAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = apiKeyAlphabet[n.Int64()]
	}
	return apiKeyPrefix + string(buf), nil
}

func FromModel(m models.Setting) Settings {
	return Settings{
		FullName:           m.FullName,
		Email:              m.Email,
		DarkMode:           m.DarkMode,
		HighContrast:       m.HighContrast,
		Notifications:      m.Notifications,
		EmailNotifications: m.EmailNotifications,
		TwoFactorEnabled:   m.TwoFactorEnabled,
		ICalURL:            m.ICalURL,
		CalendarConnected:  m.CalendarConnected,
		APIKey:             m.APIKey,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToModel(businessID string, s Settings) models.Setting {
	return models.Setting{
		BusinessID:         businessID,
		FullName:           s.FullName,
		Email:              s.Email,
		DarkMode:           s.DarkMode,
		HighContrast:       s.HighContrast,
		Notifications:      s.Notifications,
		EmailNotifications: s.EmailNotifications,
		TwoFactorEnabled:   s.TwoFactorEnabled,
		ICalURL:            s.ICalURL,
		CalendarConnected:  s.CalendarConnected,
		APIKey:             s.APIKey,
		UpdatedAt:          s.UpdatedAt,
	}
}

package business

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/residate/internal/models"
)

type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration"`
}

type Business struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Services    []Service `json:"services"`
	IsCustom    bool      `json:"is_custom"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b Business) Service(id string) (Service, bool) {
	for _, s := range b.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Public drops the password marker from the description.
func (b Business) Public() Business {
	b.Description = PublicDescription(b.Description)
	return b
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

// NewID derives an id from the name slug plus a random suffix.
func NewID(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	slug := Slugify(name)
	if slug == "" {
		return "business-" + suffix
	}
	return slug + "-" + suffix
}

func NewServiceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

func FromModel(m models.Business) Business {
	services := make([]Service, 0, len(m.Services))
	for _, s := range m.Services {
		services = append(services, Service{
			ID:              s.ID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.Duration,
		})
	}
	return Business{
		ID:          m.ID,
		Name:        m.Name,
		Location:    m.Location,
		Category:    m.Category,
		Description: m.Description,
		Email:       m.Email,
		Services:    services,
		IsCustom:    m.IsCustom,
		CreatedAt:   m.CreatedAt,
	}
}

func ToModel(b Business) models.Business {
	services := make([]models.BusinessService, 0, len(b.Services))
	for _, s := range b.Services {
		services = append(services, models.BusinessService{
			ID:       s.ID,
			Name:     s.Name,
			Price:    s.Price,
			Duration: s.DurationMinutes,
		})
	}
	return models.Business{
		ID:          b.ID,
		Name:        b.Name,
		Location:    b.Location,
		Category:    b.Category,
		Description: b.Description,
		Email:       b.Email,
		Services:    services,
		IsCustom:    b.IsCustom,
		CreatedAt:   b.CreatedAt,
	}
}

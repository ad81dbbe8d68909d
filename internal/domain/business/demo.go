package business

// DemoBusinesses are the seeded, non-custom entries of a fresh install.
func DemoBusinesses() []Business {
	return []Business{
		{
			ID:          "the-sanctuary",
			Name:        "The Sanctuary",
			Location:    "Marbella, Spain",
			Category:    "wellness",
			Description: "A private retreat for restorative rituals.",
			Email:       "concierge@thesanctuary.example",
			Services: []Service{
				{ID: "1", Name: "Signature Facial", Price: 150, DurationMinutes: 60},
				{ID: "2", Name: "Deep Tissue Massage", Price: 220, DurationMinutes: 90},
				{ID: "3", Name: "Wellness Consultation", Price: 120, DurationMinutes: 45},
			},
		},
	}
}

// DefaultServices is used when a registration carries no services.
func DefaultServices() []Service {
	return []Service{
		{ID: "1", Name: "Signature Service", Price: 150, DurationMinutes: 60},
	}
}

package export

import (
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/settings"
)

const SchemaVersion = "1.0"

type Dump struct {
	Settings   settings.Settings   `json:"settings"`
	Bookings   []slot.Slot         `json:"bookings"`
	Businesses []business.Business `json:"businesses"`
	ExportDate time.Time           `json:"exportDate"`
	Version    string              `json:"version"`
}

// JSON dumps the owner data. The API key is never exported.
func JSON(s settings.Settings, slots []slot.Slot, businesses []business.Business, now time.Time) ([]byte, error) {
	s.APIKey = ""
	if slots == nil {
		slots = []slot.Slot{}
	}
	if businesses == nil {
		businesses = []business.Business{}
	}
	return json.MarshalIndent(Dump{
		Settings:   s,
		Bookings:   slots,
		Businesses: businesses,
		ExportDate: now.UTC(),
		Version:    SchemaVersion,
	}, "", "  ")
}

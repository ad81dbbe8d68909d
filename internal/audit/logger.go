package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/residate/internal/models"
)

// Filter narrows ListByBusiness. Zero values are ignored.
type Filter struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type Store interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByBusiness(ctx context.Context, businessID string, f Filter) ([]models.AuditLog, int64, error)
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(
	ctx context.Context,
	businessID string,
	actor string,
	action string,
	entity string,
	entityID string,
	metadata any,
) error {

	var meta datatypes.JSON
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = b
		}
	}

	entry := models.AuditLog{
		BusinessID: businessID,
		Actor:      actor,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}

	return l.store.Create(ctx, &entry)
}

func (l *Logger) List(ctx context.Context, businessID string, f Filter) ([]models.AuditLog, int64, error) {
	return l.store.ListByBusiness(ctx, businessID, f)
}

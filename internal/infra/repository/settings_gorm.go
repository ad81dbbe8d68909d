package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/residate/internal/models"
	"github.com/BruksfildServices01/residate/internal/settings"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) Get(ctx context.Context, businessID string) (*settings.Settings, error) {
	var row models.Setting
	err := r.db.WithContext(ctx).First(&row, "business_id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s := settings.FromModel(row)
	return &s, nil
}

func (r *SettingsGormRepository) Save(ctx context.Context, businessID string, s settings.Settings) error {
	row := settings.ToModel(businessID, s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (r *SettingsGormRepository) Connected(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := r.db.WithContext(ctx).
		Where("calendar_connected = ? AND ical_url <> ''", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.BusinessID] = row.ICalURL
	}
	return out, nil
}

// Compile-time check
var _ settings.Repository = (*SettingsGormRepository)(nil)
